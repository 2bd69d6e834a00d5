package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

var (
	// ErrInvalidCurve is returned when curve nodes cannot form a valid curve.
	ErrInvalidCurve = errors.New("invalid curve")
	// ErrInvalidRange is returned by range queries where end <= start.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInsufficientCoverage is returned when a bootstrap grid would have no nodes.
	ErrInsufficientCoverage = errors.New("insufficient tenor coverage")
)

// Point is a single zero curve node.
// Rate is an annualised continuously compounded decimal (0.04 == 4%).
type Point struct {
	Tenor float64
	Rate  float64
}

// Node is one row of a curve's tabular view.
type Node struct {
	Tenor          float64 `json:"tenor_years"`
	ZeroRate       float64 `json:"zero_rate"`
	DiscountFactor float64 `json:"discount_factor"`
}

// ZeroCurve is an immutable continuously compounded zero curve.
//
// Rates interpolate linearly between nodes and extrapolate flat. When discount factors are
// attached (bootstrap output, transformed curves) discount factors interpolate log-linearly
// inside the node range. DF(0) == 1 is implied and never stored.
type ZeroCurve struct {
	name            string
	tenors          []float64
	rates           []float64
	discountFactors []float64 // nil when the curve carries rates only
}

// New builds a curve from points (any order) and optional discount factors aligned with the
// points sorted by tenor. dfs may be nil.
func New(name string, points []Point, dfs []float64) (*ZeroCurve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %q has no points", ErrInvalidCurve, name)
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Tenor < pts[j].Tenor })

	if !(pts[0].Tenor > 0) {
		return nil, fmt.Errorf("%w: %q first tenor %v must be positive", ErrInvalidCurve, name, pts[0].Tenor)
	}
	if dfs != nil && len(dfs) != len(pts) {
		return nil, fmt.Errorf("%w: %q has %d discount factors for %d tenors", ErrInvalidCurve, name, len(dfs), len(pts))
	}

	c := &ZeroCurve{
		name:   name,
		tenors: make([]float64, len(pts)),
		rates:  make([]float64, len(pts)),
	}
	for i, p := range pts {
		if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) || math.IsNaN(p.Tenor) || math.IsInf(p.Tenor, 0) {
			return nil, fmt.Errorf("%w: %q node %d is not finite", ErrInvalidCurve, name, i)
		}
		if i > 0 && p.Tenor <= pts[i-1].Tenor {
			return nil, fmt.Errorf("%w: %q duplicate tenor %v", ErrInvalidCurve, name, p.Tenor)
		}
		c.tenors[i] = p.Tenor
		c.rates[i] = p.Rate
	}
	if dfs != nil {
		c.discountFactors = make([]float64, len(dfs))
		for i, df := range dfs {
			if !(df > 0) || math.IsInf(df, 0) {
				return nil, fmt.Errorf("%w: %q discount factor %v at tenor %v", ErrInvalidCurve, name, df, c.tenors[i])
			}
			c.discountFactors[i] = df
		}
	}
	return c, nil
}

// FromZeroRates builds a curve from zero rates and attaches exp(-r*t) discount factors.
func FromZeroRates(name string, points []Point) (*ZeroCurve, error) {
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Tenor < pts[j].Tenor })

	dfs := make([]float64, len(pts))
	for i, p := range pts {
		dfs[i] = math.Exp(-p.Rate * p.Tenor)
	}
	return New(name, pts, dfs)
}

// Flat builds a rates-only curve with the same zero rate at every tenor.
func Flat(name string, rate float64, tenors []float64) (*ZeroCurve, error) {
	pts := make([]Point, len(tenors))
	for i, t := range tenors {
		pts[i] = Point{Tenor: t, Rate: rate}
	}
	return New(name, pts, nil)
}

// Name returns the curve label.
func (c *ZeroCurve) Name() string {
	return c.name
}

// Len returns the number of nodes.
func (c *ZeroCurve) Len() int {
	return len(c.tenors)
}

// Tenors returns a copy of the node tenors.
func (c *ZeroCurve) Tenors() []float64 {
	return append([]float64(nil), c.tenors...)
}

// ZeroRates returns a copy of the node zero rates.
func (c *ZeroCurve) ZeroRates() []float64 {
	return append([]float64(nil), c.rates...)
}

// DiscountFactors returns a copy of the attached discount factors, or nil.
func (c *ZeroCurve) DiscountFactors() []float64 {
	if c.discountFactors == nil {
		return nil
	}
	return append([]float64(nil), c.discountFactors...)
}

// HasDiscountFactors reports whether node discount factors are attached.
func (c *ZeroCurve) HasDiscountFactors() bool {
	return c.discountFactors != nil
}

// Points returns the curve nodes as points.
func (c *ZeroCurve) Points() []Point {
	pts := make([]Point, len(c.tenors))
	for i := range c.tenors {
		pts[i] = Point{Tenor: c.tenors[i], Rate: c.rates[i]}
	}
	return pts
}

// Nodes returns the tabular view: tenor, stored zero rate and queried discount factor.
func (c *ZeroCurve) Nodes() []Node {
	nodes := make([]Node, len(c.tenors))
	for i, t := range c.tenors {
		nodes[i] = Node{Tenor: t, ZeroRate: c.rates[i], DiscountFactor: c.DiscountFactor(t)}
	}
	return nodes
}

// ZeroRate returns the zero rate at tenor t (years).
func (c *ZeroCurve) ZeroRate(t float64) float64 {
	if t <= 0 {
		return c.rates[0]
	}
	return utils.Interp(t, c.tenors, c.rates)
}

// DiscountFactor returns the discount factor at tenor t (years).
func (c *ZeroCurve) DiscountFactor(t float64) float64 {
	if t <= 0 {
		return 1.0
	}
	if c.discountFactors == nil {
		return math.Exp(-c.ZeroRate(t) * t)
	}

	last := len(c.tenors) - 1
	if t <= c.tenors[0] {
		return math.Exp(-c.rates[0] * t)
	}
	if t >= c.tenors[last] {
		return c.discountFactors[last] * math.Exp(-c.rates[last]*(t-c.tenors[last]))
	}

	i, j := bracket(c.tenors, t)
	t1, t2 := c.tenors[i], c.tenors[j]
	w := (t - t1) / (t2 - t1)
	logDF := (1-w)*math.Log(c.discountFactors[i]) + w*math.Log(c.discountFactors[j])
	return math.Exp(logDF)
}

// ForwardRate returns the continuously compounded forward rate between two tenors.
func (c *ZeroCurve) ForwardRate(start, end float64) (float64, error) {
	if !(end > start) {
		return 0, fmt.Errorf("%w: forward end %v must be after start %v", ErrInvalidRange, end, start)
	}
	return math.Log(c.DiscountFactor(start)/c.DiscountFactor(end)) / (end - start), nil
}

// WithNodes returns a new curve on this curve's tenor grid carrying replacement rates and
// discount factors. The receiver is left untouched.
func (c *ZeroCurve) WithNodes(name string, rates, dfs []float64) (*ZeroCurve, error) {
	if len(rates) != len(c.tenors) {
		return nil, fmt.Errorf("%w: %q has %d rates for %d tenors", ErrInvalidCurve, name, len(rates), len(c.tenors))
	}
	pts := make([]Point, len(c.tenors))
	for i, t := range c.tenors {
		pts[i] = Point{Tenor: t, Rate: rates[i]}
	}
	return New(name, pts, dfs)
}
