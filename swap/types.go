package swap

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

var (
	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("nil curve")
	// ErrScheduleDegenerate is returned when a tenor/frequency pair yields no periods.
	ErrScheduleDegenerate = errors.New("degenerate schedule")
	// ErrInvalidDefinition is returned for swap terms that cannot be priced.
	ErrInvalidDefinition = errors.New("invalid swap definition")
)

// DiscountCurve provides discount factors by tenor (years from valuation).
type DiscountCurve interface {
	DiscountFactor(t float64) float64
}

// ProjectionCurve provides forward rates by tenor (years from valuation).
type ProjectionCurve interface {
	ForwardRate(start, end float64) (float64, error)
}

// Payer identifies which leg the swap holder pays.
type Payer string

const (
	PayerFixed Payer = "fixed"
	PayerFloat Payer = "float"
)

// Leg labels a cashflow row.
type Leg string

const (
	LegFixed    Leg = "fixed"
	LegFloating Leg = "floating"
)

// Default leg conventions for a SONIA-style vanilla swap.
const (
	DefaultFixedFrequency    = 2
	DefaultFloatingFrequency = 4
	DefaultFixedDayCount     = utils.Thirty360
	DefaultFloatingDayCount  = utils.Act365
)

// Definition captures the economic terms of a fixed-for-floating swap.
//
// Rates and spreads are decimals (0.035 == 3.5%). Frequencies are payments per year.
type Definition struct {
	ValuationDate     time.Time
	EffectiveDate     time.Time
	MaturityYears     float64
	Notional          float64
	FixedRate         float64
	Payer             Payer
	FixedFrequency    int
	FloatingFrequency int
	FixedDayCount     utils.DayCount
	FloatingDayCount  utils.DayCount
	Spread            float64
}

// Validate checks the terms the pricer relies on.
func (d Definition) Validate() error {
	if !(d.Notional > 0) || math.IsInf(d.Notional, 0) {
		return fmt.Errorf("%w: notional %v must be positive", ErrInvalidDefinition, d.Notional)
	}
	if !(d.MaturityYears > 0) {
		return fmt.Errorf("%w: maturity %v must be positive", ErrInvalidDefinition, d.MaturityYears)
	}
	if d.Payer != PayerFixed && d.Payer != PayerFloat {
		return fmt.Errorf("%w: payer %q must be %q or %q", ErrInvalidDefinition, d.Payer, PayerFixed, PayerFloat)
	}
	if d.ValuationDate.IsZero() || d.EffectiveDate.IsZero() {
		return fmt.Errorf("%w: valuation and effective dates are required", ErrInvalidDefinition)
	}
	return nil
}

// direction returns the sign applied to a leg's cashflows from the holder's view.
func (d Definition) direction(leg Leg) float64 {
	paid := (leg == LegFixed && d.Payer == PayerFixed) || (leg == LegFloating && d.Payer == PayerFloat)
	if paid {
		return -1.0
	}
	return 1.0
}

// CashflowPeriod is one accrual period of a leg.
type CashflowPeriod struct {
	Start         time.Time
	End           time.Time
	AccrualFactor float64
}

// CashflowRow is a projected and discounted leg cashflow.
//
// ForwardRate is NaN on fixed rows. Cashflow and PresentValue carry the holder's sign.
type CashflowRow struct {
	Leg            Leg
	PeriodStart    time.Time
	PeriodEnd      time.Time
	AccrualFactor  float64
	CouponRate     float64
	ForwardRate    float64
	Cashflow       float64
	DiscountFactor float64
	PresentValue   float64
	TimeToPayment  float64
}

// PV contains present values for each leg and the net sum.
type PV struct {
	FixedLegPV    float64
	FloatingLegPV float64
	NPV           float64
}

// PricingResult is the full output of one pricing run.
type PricingResult struct {
	Cashflows     []CashflowRow
	FixedLegPV    float64
	FloatingLegPV float64
	NPV           float64
}

// PV returns the leg summary of the result.
func (r *PricingResult) PV() PV {
	return PV{FixedLegPV: r.FixedLegPV, FloatingLegPV: r.FloatingLegPV, NPV: r.NPV}
}
