// Package risk derives interest-rate sensitivities by re-pricing a swap on perturbed curves.
//
// Every perturbation returns a new curve, so scenarios never share state. PV01 and DV01 are
// the same number here: the NPV change for a parallel bump of both curves.
package risk

import (
	"fmt"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
)

// KeyRateDV01 is the NPV change for a tent shift centred on Tenor.
type KeyRateDV01 struct {
	Tenor float64 `json:"tenor"`
	DV01  float64 `json:"dv01"`
}

// Result holds valuation and first-order risk for one scenario.
type Result struct {
	NPV  float64
	PV01 float64
	DV01 float64

	// NPVChange is set for shifted scenarios: shifted NPV minus base NPV.
	NPVChange *float64
	// KeyRates is set when key-rate buckets were requested.
	KeyRates []KeyRateDV01

	Pricing *swap.PricingResult
}

// PriceWithRisk prices the swap and bumps both curves in parallel by bumpBP to get PV01/DV01.
func PriceWithRisk(def swap.Definition, discount, forward *curve.ZeroCurve, bumpBP float64) (*Result, error) {
	base, err := swap.Price(def, discount, forward)
	if err != nil {
		return nil, fmt.Errorf("PriceWithRisk: %w", err)
	}

	bumpedDisc, bumpedFwd, err := StressCurves(discount, forward, bumpBP)
	if err != nil {
		return nil, fmt.Errorf("PriceWithRisk: %w", err)
	}
	bumped, err := swap.NPV(def, bumpedDisc, bumpedFwd)
	if err != nil {
		return nil, fmt.Errorf("PriceWithRisk: bumped: %w", err)
	}

	pv01 := bumped - base.NPV
	return &Result{
		NPV:     base.NPV,
		PV01:    pv01,
		DV01:    pv01,
		Pricing: base,
	}, nil
}

// SumKeyRates adds up bucket DV01s.
func SumKeyRates(buckets []KeyRateDV01) float64 {
	total := 0.0
	for _, b := range buckets {
		total += b.DV01
	}
	return total
}
