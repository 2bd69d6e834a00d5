package swap_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

var gridTenors = []float64{0.25, 0.5, 1, 2, 3, 5, 7, 10, 15, 20, 30}

func flatCurve(t *testing.T, name string, rate float64) *curve.ZeroCurve {
	t.Helper()
	crv, err := curve.Flat(name, rate, gridTenors)
	if err != nil {
		t.Fatalf("Flat error: %v", err)
	}
	return crv
}

func vanillaDefinition(payer swap.Payer) swap.Definition {
	return swap.Definition{
		ValuationDate:     time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC),
		EffectiveDate:     time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC),
		MaturityYears:     5.0,
		Notional:          10_000_000,
		FixedRate:         0.035766,
		Payer:             payer,
		FixedFrequency:    2,
		FloatingFrequency: 4,
		FixedDayCount:     utils.Thirty360,
		FloatingDayCount:  utils.Act365,
	}
}

func TestPrice_FlatCurveFixedPayer(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, "disc", 0.04)
	fwd := flatCurve(t, "fwd", 0.04)
	def := vanillaDefinition(swap.PayerFixed)

	res, err := swap.Price(def, disc, fwd)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	if len(res.Cashflows) != 30 {
		t.Fatalf("expected 10 fixed + 20 floating rows, got %d", len(res.Cashflows))
	}
	if res.NPV <= 0 {
		t.Fatalf("fixed payer below par should have positive NPV, got %.2f", res.NPV)
	}
	if res.FixedLegPV >= 0 || res.FloatingLegPV <= 0 {
		t.Fatalf("leg signs: fixed %.2f floating %.2f", res.FixedLegPV, res.FloatingLegPV)
	}
	if math.Abs(res.FixedLegPV+res.FloatingLegPV-res.NPV) > 1e-9 {
		t.Fatalf("NPV is not the sum of leg PVs")
	}

	for i := 1; i < len(res.Cashflows); i++ {
		if res.Cashflows[i].PeriodEnd.Before(res.Cashflows[i-1].PeriodEnd) {
			t.Fatalf("cashflows not sorted by period end at row %d", i)
		}
	}

	var first swap.CashflowRow
	for _, r := range res.Cashflows {
		if r.Leg == swap.LegFixed {
			if !math.IsNaN(r.ForwardRate) {
				t.Fatalf("fixed row forward rate should be NaN, got %v", r.ForwardRate)
			}
			if first.PeriodEnd.IsZero() {
				first = r
			}
			continue
		}
		if math.Abs(r.ForwardRate-0.04) > 1e-12 {
			t.Fatalf("flat forward: got %.12f", r.ForwardRate)
		}
		if r.Cashflow <= 0 {
			t.Fatalf("fixed payer receives floating, got %.2f", r.Cashflow)
		}
	}

	// 2025-11-17 -> 2026-05-17 is half a year on 30/360, paid 185 days after valuation.
	wantCF := -10_000_000 * 0.035766 * 0.5
	if math.Abs(first.Cashflow-wantCF) > 1e-6 {
		t.Fatalf("first fixed cashflow: got %.6f want %.6f", first.Cashflow, wantCF)
	}
	wantT := 185.0 / 365.0
	if math.Abs(first.TimeToPayment-wantT) > 1e-12 {
		t.Fatalf("time to payment: got %.12f want %.12f", first.TimeToPayment, wantT)
	}
	if math.Abs(first.DiscountFactor-math.Exp(-0.04*wantT)) > 1e-12 {
		t.Fatalf("discount factor: got %.12f", first.DiscountFactor)
	}
	if math.Abs(first.PresentValue-wantCF*first.DiscountFactor) > 1e-6 {
		t.Fatalf("present value: got %.6f", first.PresentValue)
	}
}

func TestPrice_PayerSidesAreMirrored(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, "disc", 0.04)
	fwd := flatCurve(t, "fwd", 0.042)

	payFixed, err := swap.PVByLeg(vanillaDefinition(swap.PayerFixed), disc, fwd)
	if err != nil {
		t.Fatalf("PVByLeg error: %v", err)
	}
	payFloat, err := swap.PVByLeg(vanillaDefinition(swap.PayerFloat), disc, fwd)
	if err != nil {
		t.Fatalf("PVByLeg error: %v", err)
	}
	if math.Abs(payFixed.NPV+payFloat.NPV) > 1e-6 {
		t.Fatalf("NPVs should be opposite: %.6f vs %.6f", payFixed.NPV, payFloat.NPV)
	}
	if math.Abs(payFixed.FixedLegPV+payFloat.FixedLegPV) > 1e-6 {
		t.Fatalf("fixed legs should be opposite")
	}
}

func TestPrice_SpreadRaisesFloatingCoupon(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, "disc", 0.04)
	def := vanillaDefinition(swap.PayerFixed)
	base, err := swap.NPV(def, disc, disc)
	if err != nil {
		t.Fatalf("NPV error: %v", err)
	}

	def.Spread = 0.001
	withSpread, err := swap.NPV(def, disc, disc)
	if err != nil {
		t.Fatalf("NPV error: %v", err)
	}
	if withSpread <= base {
		t.Fatalf("receiving a positive spread should add value: base %.2f spread %.2f", base, withSpread)
	}
}

func TestPrice_Deterministic(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, "disc", 0.04)
	def := vanillaDefinition(swap.PayerFixed)
	a, err := swap.Price(def, disc, disc)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	b, err := swap.Price(def, disc, disc)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	if a.NPV != b.NPV || a.FixedLegPV != b.FixedLegPV {
		t.Fatalf("pricing is not deterministic")
	}
}

func TestPrice_Errors(t *testing.T) {
	t.Parallel()

	disc := flatCurve(t, "disc", 0.04)

	if _, err := swap.Price(vanillaDefinition(swap.PayerFixed), nil, disc); !errors.Is(err, swap.ErrNilCurve) {
		t.Fatalf("nil discount: expected ErrNilCurve, got %v", err)
	}
	var nilCurve *curve.ZeroCurve
	if _, err := swap.Price(vanillaDefinition(swap.PayerFixed), disc, nilCurve); !errors.Is(err, swap.ErrNilCurve) {
		t.Fatalf("typed nil forward: expected ErrNilCurve, got %v", err)
	}

	bad := vanillaDefinition("both")
	if _, err := swap.Price(bad, disc, disc); !errors.Is(err, swap.ErrInvalidDefinition) {
		t.Fatalf("bad payer: expected ErrInvalidDefinition, got %v", err)
	}
	bad = vanillaDefinition(swap.PayerFixed)
	bad.Notional = 0
	if _, err := swap.Price(bad, disc, disc); !errors.Is(err, swap.ErrInvalidDefinition) {
		t.Fatalf("zero notional: expected ErrInvalidDefinition, got %v", err)
	}
	bad = vanillaDefinition(swap.PayerFixed)
	bad.FixedDayCount = "ACT/ACT"
	if _, err := swap.Price(bad, disc, disc); !errors.Is(err, utils.ErrUnsupportedConvention) {
		t.Fatalf("bad day count: expected ErrUnsupportedConvention, got %v", err)
	}
	bad = vanillaDefinition(swap.PayerFixed)
	bad.FloatingFrequency = 0
	if _, err := swap.Price(bad, disc, disc); !errors.Is(err, swap.ErrScheduleDegenerate) {
		t.Fatalf("zero frequency: expected ErrScheduleDegenerate, got %v", err)
	}
}
