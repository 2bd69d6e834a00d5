package curve

import "fmt"

// ForwardAnalysis summarises the shape of a curve. Rates are decimals, Slope is per year and
// Convexity per year squared.
type ForwardAnalysis struct {
	Forward1Y1Y float64 `json:"forward_1y1y"`
	Forward2Y1Y float64 `json:"forward_2y1y"`
	Forward5Y1Y float64 `json:"forward_5y1y"`
	MinRate     float64 `json:"min_rate"`
	MaxRate     float64 `json:"max_rate"`
	AvgRate     float64 `json:"avg_rate"`
	Slope       float64 `json:"slope"`
	Convexity   float64 `json:"convexity"`
}

// Analyze computes 1y forwards starting in 1, 2 and 5 years, node rate statistics, the
// end-to-end slope and a second difference of zero rates around the middle node.
//
// Slope is zero for a single node; Convexity is zero below three nodes.
func Analyze(c *ZeroCurve) (ForwardAnalysis, error) {
	if c == nil || c.Len() == 0 {
		return ForwardAnalysis{}, fmt.Errorf("Analyze: %w: empty curve", ErrInvalidCurve)
	}

	var a ForwardAnalysis
	for _, f := range []struct {
		start float64
		dst   *float64
	}{{1, &a.Forward1Y1Y}, {2, &a.Forward2Y1Y}, {5, &a.Forward5Y1Y}} {
		fwd, err := c.ForwardRate(f.start, f.start+1)
		if err != nil {
			return ForwardAnalysis{}, fmt.Errorf("Analyze: %gY1Y: %w", f.start, err)
		}
		*f.dst = fwd
	}

	tenors, rates := c.tenors, c.rates
	n := len(rates)
	a.MinRate, a.MaxRate = rates[0], rates[0]
	sum := 0.0
	for _, r := range rates {
		a.MinRate = min(a.MinRate, r)
		a.MaxRate = max(a.MaxRate, r)
		sum += r
	}
	a.AvgRate = sum / float64(n)

	if n > 1 {
		a.Slope = (rates[n-1] - rates[0]) / (tenors[n-1] - tenors[0])
	}
	if n >= 3 {
		mid := n / 2
		h := tenors[mid+1] - tenors[mid]
		a.Convexity = (rates[mid+1] - 2*rates[mid] + rates[mid-1]) / (h * h)
	}
	return a, nil
}
