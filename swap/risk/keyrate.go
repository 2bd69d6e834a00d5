package risk

import (
	"fmt"
	"math"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/config"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
)

// DefaultKeyRateWidth is the tent half-width used when none is given: 1y below 1y,
// 2y from 1y to 5y, 3y beyond (per the active config).
func DefaultKeyRateWidth(keyTenor float64) float64 {
	return config.GetConfig().KeyRateWidth(keyTenor)
}

// TentWeight is the triangular weight at t for a tent centred on keyTenor.
func TentWeight(t, keyTenor, width float64) float64 {
	distance := math.Abs(t - keyTenor)
	if distance > width {
		return 0
	}
	return 1.0 - distance/width
}

// ApplyKeyRateShift applies a tent shift peaking at shiftBP on keyTenor and fading to zero
// at keyTenor ± width. A non-positive width selects DefaultKeyRateWidth.
func ApplyKeyRateShift(c *curve.ZeroCurve, keyTenor, shiftBP, width float64) (*curve.ZeroCurve, error) {
	if c == nil {
		return nil, fmt.Errorf("ApplyKeyRateShift: %w", swap.ErrNilCurve)
	}
	if width <= 0 {
		width = DefaultKeyRateWidth(keyTenor)
	}

	shift := shiftBP * bpToDecimal
	tenors := c.Tenors()
	rates := c.ZeroRates()
	for i, t := range tenors {
		rates[i] += shift * TentWeight(t, keyTenor, width)
	}
	return c.WithNodes(fmt.Sprintf("%s KR %gY", c.Name(), keyTenor), rates, ratesToDFs(tenors, rates))
}

// CalculateKeyRateDV01 reprices once per key tenor with both curves tent-shifted by bumpBP.
//
// Buckets are returned in key tenor order. Overlapping or gapped tents mean the bucket sum
// only approximates the parallel DV01; tents tile exactly when neighbouring key tenors sit
// one width apart.
func CalculateKeyRateDV01(def swap.Definition, discount, forward *curve.ZeroCurve, keyTenors []float64, bumpBP float64) ([]KeyRateDV01, error) {
	return keyRateDV01(def, discount, forward, keyTenors, bumpBP, DefaultKeyRateWidth)
}

// WidthFunc maps a key tenor to its tent half-width.
type WidthFunc func(keyTenor float64) float64

// CalculateKeyRateDV01Widths is CalculateKeyRateDV01 with an explicit width policy.
// A nil width selects DefaultKeyRateWidth.
func CalculateKeyRateDV01Widths(def swap.Definition, discount, forward *curve.ZeroCurve, keyTenors []float64, bumpBP float64, width WidthFunc) ([]KeyRateDV01, error) {
	if width == nil {
		width = DefaultKeyRateWidth
	}
	return keyRateDV01(def, discount, forward, keyTenors, bumpBP, width)
}

func keyRateDV01(def swap.Definition, discount, forward *curve.ZeroCurve, keyTenors []float64, bumpBP float64, width WidthFunc) ([]KeyRateDV01, error) {
	baseNPV, err := swap.NPV(def, discount, forward)
	if err != nil {
		return nil, fmt.Errorf("CalculateKeyRateDV01: base: %w", err)
	}

	buckets := make([]KeyRateDV01, 0, len(keyTenors))
	for _, key := range keyTenors {
		w := width(key)
		d, err := ApplyKeyRateShift(discount, key, bumpBP, w)
		if err != nil {
			return nil, fmt.Errorf("CalculateKeyRateDV01: %gY discount: %w", key, err)
		}
		f, err := ApplyKeyRateShift(forward, key, bumpBP, w)
		if err != nil {
			return nil, fmt.Errorf("CalculateKeyRateDV01: %gY forward: %w", key, err)
		}
		npv, err := swap.NPV(def, d, f)
		if err != nil {
			return nil, fmt.Errorf("CalculateKeyRateDV01: %gY: %w", key, err)
		}
		buckets = append(buckets, KeyRateDV01{Tenor: key, DV01: npv - baseNPV})
	}
	return buckets, nil
}
