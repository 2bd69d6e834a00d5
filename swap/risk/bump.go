package risk

import (
	"fmt"
	"math"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
)

// DefaultBumpBP is the parallel bump behind PV01/DV01.
const DefaultBumpBP = 1.0

const bpToDecimal = 1e-4

// BumpCurve shifts every node's zero rate by bumpBP, applied multiplicatively to the node
// discount factors: DF' = DF * exp(-bump * t). The result carries the bumped discount factors.
func BumpCurve(c *curve.ZeroCurve, bumpBP float64) (*curve.ZeroCurve, error) {
	if c == nil {
		return nil, fmt.Errorf("BumpCurve: %w", swap.ErrNilCurve)
	}
	bump := bumpBP * bpToDecimal
	tenors := c.Tenors()
	rates := make([]float64, len(tenors))
	dfs := make([]float64, len(tenors))
	for i, t := range tenors {
		dfs[i] = c.DiscountFactor(t) * math.Exp(-bump*t)
		rates[i] = -math.Log(dfs[i]) / t
	}
	return c.WithNodes(fmt.Sprintf("%s %+gbp", c.Name(), bumpBP), rates, dfs)
}

// StressCurves applies the same parallel shift to a discount and a forward curve.
func StressCurves(discount, forward *curve.ZeroCurve, shiftBP float64) (*curve.ZeroCurve, *curve.ZeroCurve, error) {
	d, err := BumpCurve(discount, shiftBP)
	if err != nil {
		return nil, nil, fmt.Errorf("StressCurves: discount: %w", err)
	}
	f, err := BumpCurve(forward, shiftBP)
	if err != nil {
		return nil, nil, fmt.Errorf("StressCurves: forward: %w", err)
	}
	return d, f, nil
}

// ratesToDFs returns exp(-r*t) per node.
func ratesToDFs(tenors, rates []float64) []float64 {
	dfs := make([]float64, len(tenors))
	for i, t := range tenors {
		dfs[i] = math.Exp(-rates[i] * t)
	}
	return dfs
}
