package curve_test

import (
	"errors"
	"math"
	"testing"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
)

func TestNewRejectsInvalidNodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		points []curve.Point
		dfs    []float64
	}{
		{"empty", nil, nil},
		{"zero tenor", []curve.Point{{Tenor: 0, Rate: 0.04}, {Tenor: 1, Rate: 0.04}}, nil},
		{"negative tenor", []curve.Point{{Tenor: -0.5, Rate: 0.04}}, nil},
		{"df length", []curve.Point{{Tenor: 1, Rate: 0.04}, {Tenor: 2, Rate: 0.04}}, []float64{0.96}},
		{"duplicate tenor", []curve.Point{{Tenor: 1, Rate: 0.04}, {Tenor: 1, Rate: 0.05}}, nil},
		{"negative df", []curve.Point{{Tenor: 1, Rate: 0.04}}, []float64{-0.1}},
		{"nan rate", []curve.Point{{Tenor: 1, Rate: math.NaN()}}, nil},
		{"nan tenor", []curve.Point{{Tenor: 1, Rate: 0.04}, {Tenor: math.NaN(), Rate: 0.04}, {Tenor: 2, Rate: 0.04}}, nil},
	}
	for _, tc := range cases {
		_, err := curve.New(tc.name, tc.points, tc.dfs)
		if !errors.Is(err, curve.ErrInvalidCurve) {
			t.Fatalf("%s: expected ErrInvalidCurve, got %v", tc.name, err)
		}
	}
}

func TestNewSortsPoints(t *testing.T) {
	t.Parallel()

	crv, err := curve.New("unsorted", []curve.Point{{Tenor: 5, Rate: 0.05}, {Tenor: 1, Rate: 0.03}}, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	tenors := crv.Tenors()
	if tenors[0] != 1 || tenors[1] != 5 {
		t.Fatalf("tenors not sorted: %v", tenors)
	}

	// Accessors hand out copies.
	tenors[0] = 99
	if crv.Tenors()[0] != 1 {
		t.Fatalf("curve was mutated through Tenors()")
	}
}

func TestZeroRateInterpolation(t *testing.T) {
	t.Parallel()

	crv, err := curve.New("zc", []curve.Point{{Tenor: 1, Rate: 0.03}, {Tenor: 3, Rate: 0.05}}, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	cases := []struct{ t, want float64 }{
		{-1, 0.03},
		{0, 0.03},
		{0.5, 0.03},
		{2, 0.04},
		{3, 0.05},
		{10, 0.05},
	}
	for _, tc := range cases {
		if got := crv.ZeroRate(tc.t); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("ZeroRate(%v): got %.12f want %.12f", tc.t, got, tc.want)
		}
	}
}

func TestDiscountFactorProperties(t *testing.T) {
	t.Parallel()

	points := []curve.Point{{Tenor: 0.5, Rate: 0.02}, {Tenor: 2, Rate: 0.035}, {Tenor: 10, Rate: 0.045}}
	rateOnly, err := curve.New("rates", points, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	withDFs, err := curve.FromZeroRates("dfs", points)
	if err != nil {
		t.Fatalf("FromZeroRates error: %v", err)
	}

	for _, crv := range []*curve.ZeroCurve{rateOnly, withDFs} {
		if df := crv.DiscountFactor(0); df != 1 {
			t.Fatalf("%s: DF(0) = %.12f", crv.Name(), df)
		}
		if df := crv.DiscountFactor(-3); df != 1 {
			t.Fatalf("%s: DF(-3) = %.12f", crv.Name(), df)
		}
		prev := 1.0
		for tenor := 0.05; tenor <= 15; tenor += 0.05 {
			df := crv.DiscountFactor(tenor)
			if df > prev+1e-15 {
				t.Fatalf("%s: DF increased at %.2f: %.12f > %.12f", crv.Name(), tenor, df, prev)
			}
			prev = df
		}
	}

	// Nodes are reproduced exactly either way.
	for _, p := range points {
		want := math.Exp(-p.Rate * p.Tenor)
		if got := withDFs.DiscountFactor(p.Tenor); math.Abs(got-want) > 1e-14 {
			t.Fatalf("DF(%v) mismatch: got %.14f want %.14f", p.Tenor, got, want)
		}
	}
}

func TestDiscountFactorLogLinearAndExtrapolation(t *testing.T) {
	t.Parallel()

	crv, err := curve.New("cache", []curve.Point{{Tenor: 1, Rate: 0.03}, {Tenor: 2, Rate: 0.04}},
		[]float64{math.Exp(-0.03), math.Exp(-0.08)})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// Log-linear between nodes: geometric mean at the midpoint.
	want := math.Sqrt(math.Exp(-0.03) * math.Exp(-0.08))
	if got := crv.DiscountFactor(1.5); math.Abs(got-want) > 1e-14 {
		t.Fatalf("DF(1.5): got %.14f want %.14f", got, want)
	}

	// Left of the first node: first zero rate.
	if got, want := crv.DiscountFactor(0.5), math.Exp(-0.03*0.5); math.Abs(got-want) > 1e-14 {
		t.Fatalf("DF(0.5): got %.14f want %.14f", got, want)
	}

	// Right of the last node: extend last DF at the last zero rate.
	if got, want := crv.DiscountFactor(3), math.Exp(-0.08)*math.Exp(-0.04); math.Abs(got-want) > 1e-14 {
		t.Fatalf("DF(3): got %.14f want %.14f", got, want)
	}
}

func TestForwardRate(t *testing.T) {
	t.Parallel()

	crv, err := curve.Flat("flat", 0.04, []float64{1, 5, 10})
	if err != nil {
		t.Fatalf("Flat error: %v", err)
	}
	fwd, err := crv.ForwardRate(1, 3)
	if err != nil {
		t.Fatalf("ForwardRate error: %v", err)
	}
	if math.Abs(fwd-0.04) > 1e-12 {
		t.Fatalf("flat forward: got %.12f", fwd)
	}

	for _, r := range [][2]float64{{2, 2}, {3, 1}} {
		if _, err := crv.ForwardRate(r[0], r[1]); !errors.Is(err, curve.ErrInvalidRange) {
			t.Fatalf("ForwardRate(%v, %v): expected ErrInvalidRange, got %v", r[0], r[1], err)
		}
	}
}

func TestWithNodesLeavesReceiverUntouched(t *testing.T) {
	t.Parallel()

	base, err := curve.FromZeroRates("base", []curve.Point{{Tenor: 1, Rate: 0.03}, {Tenor: 2, Rate: 0.04}})
	if err != nil {
		t.Fatalf("FromZeroRates error: %v", err)
	}
	next, err := base.WithNodes("next", []float64{0.05, 0.06}, nil)
	if err != nil {
		t.Fatalf("WithNodes error: %v", err)
	}
	if base.ZeroRate(1) != 0.03 || next.ZeroRate(1) != 0.05 {
		t.Fatalf("unexpected rates: base %v next %v", base.ZeroRate(1), next.ZeroRate(1))
	}
	if next.HasDiscountFactors() {
		t.Fatalf("expected rates-only curve")
	}
	if _, err := base.WithNodes("bad", []float64{0.05}, nil); !errors.Is(err, curve.ErrInvalidCurve) {
		t.Fatalf("expected ErrInvalidCurve, got %v", err)
	}
}

func TestParseTenor(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"3M":   0.25,
		"18m":  1.5,
		"10Y":  10,
		"1W":   7.0 / 365.0,
		"30D":  30.0 / 365.0,
		"2.5":  2.5,
		" 5Y ": 5,
	}
	for in, want := range cases {
		got, err := curve.ParseTenor(in)
		if err != nil {
			t.Fatalf("ParseTenor(%q) error: %v", in, err)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("ParseTenor(%q): got %v want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "Y", "abc", "1.5Y"} {
		if _, err := curve.ParseTenor(bad); err == nil {
			t.Fatalf("ParseTenor(%q): expected error", bad)
		}
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	linear := make([]curve.Point, 9)
	quadratic := make([]curve.Point, 9)
	for i := range linear {
		tenor := float64(i + 1)
		linear[i] = curve.Point{Tenor: tenor, Rate: 0.03 + 0.002*tenor}
		quadratic[i] = curve.Point{Tenor: tenor, Rate: 0.03 + 0.001*tenor*tenor}
	}

	crv, err := curve.FromZeroRates("linear", linear)
	if err != nil {
		t.Fatalf("FromZeroRates error: %v", err)
	}
	a, err := curve.Analyze(crv)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"1Y1Y", a.Forward1Y1Y, 0.036},
		{"2Y1Y", a.Forward2Y1Y, 0.040},
		{"5Y1Y", a.Forward5Y1Y, 0.052},
		{"min", a.MinRate, 0.032},
		{"max", a.MaxRate, 0.048},
		{"avg", a.AvgRate, 0.040},
		{"slope", a.Slope, 0.002},
		{"convexity", a.Convexity, 0},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Fatalf("%s: got %.12f want %.12f", c.name, c.got, c.want)
		}
	}

	crv, err = curve.FromZeroRates("quadratic", quadratic)
	if err != nil {
		t.Fatalf("FromZeroRates error: %v", err)
	}
	if a, err = curve.Analyze(crv); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if math.Abs(a.Convexity-0.002) > 1e-12 {
		t.Fatalf("convexity: got %.12f want 0.002", a.Convexity)
	}

	single, err := curve.New("single", []curve.Point{{Tenor: 2, Rate: 0.04}}, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if a, err = curve.Analyze(single); err != nil || a.Slope != 0 || a.Convexity != 0 {
		t.Fatalf("single node: %+v %v", a, err)
	}
	if _, err := curve.Analyze(nil); !errors.Is(err, curve.ErrInvalidCurve) {
		t.Fatalf("nil curve: expected ErrInvalidCurve, got %v", err)
	}
}
