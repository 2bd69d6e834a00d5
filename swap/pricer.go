package swap

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func checkInputs(def Definition, discount DiscountCurve, forward ProjectionCurve) error {
	if isNilInterface(discount) {
		return fmt.Errorf("%w: discount curve is required", ErrNilCurve)
	}
	if isNilInterface(forward) {
		return fmt.Errorf("%w: forward curve is required", ErrNilCurve)
	}
	return def.Validate()
}

// FixedLegCashflows projects and discounts the fixed leg.
func FixedLegCashflows(def Definition, discount DiscountCurve) ([]CashflowRow, error) {
	schedule, err := GenerateSchedule(def.EffectiveDate, def.MaturityYears, def.FixedFrequency, def.FixedDayCount)
	if err != nil {
		return nil, fmt.Errorf("fixed leg: %w", err)
	}

	direction := def.direction(LegFixed)
	rows := make([]CashflowRow, 0, len(schedule))
	for _, p := range schedule {
		tPay := utils.Actual365(def.ValuationDate, p.End)
		df := discount.DiscountFactor(tPay)
		cf := direction * def.Notional * def.FixedRate * p.AccrualFactor
		rows = append(rows, CashflowRow{
			Leg:            LegFixed,
			PeriodStart:    p.Start,
			PeriodEnd:      p.End,
			AccrualFactor:  p.AccrualFactor,
			CouponRate:     def.FixedRate,
			ForwardRate:    math.NaN(),
			Cashflow:       cf,
			DiscountFactor: df,
			PresentValue:   cf * df,
			TimeToPayment:  tPay,
		})
	}
	return rows, nil
}

// FloatingLegCashflows projects floating coupons off forward and discounts them on discount.
func FloatingLegCashflows(def Definition, discount DiscountCurve, forward ProjectionCurve) ([]CashflowRow, error) {
	schedule, err := GenerateSchedule(def.EffectiveDate, def.MaturityYears, def.FloatingFrequency, def.FloatingDayCount)
	if err != nil {
		return nil, fmt.Errorf("floating leg: %w", err)
	}

	direction := def.direction(LegFloating)
	rows := make([]CashflowRow, 0, len(schedule))
	for _, p := range schedule {
		tStart := utils.Actual365(def.ValuationDate, p.Start)
		tEnd := utils.Actual365(def.ValuationDate, p.End)
		fwd, err := forward.ForwardRate(tStart, tEnd)
		if err != nil {
			return nil, fmt.Errorf("floating leg %s: %w", p.End.Format(utils.DateLayout), err)
		}
		rate := fwd + def.Spread
		df := discount.DiscountFactor(tEnd)
		cf := direction * def.Notional * rate * p.AccrualFactor
		rows = append(rows, CashflowRow{
			Leg:            LegFloating,
			PeriodStart:    p.Start,
			PeriodEnd:      p.End,
			AccrualFactor:  p.AccrualFactor,
			CouponRate:     rate,
			ForwardRate:    fwd,
			Cashflow:       cf,
			DiscountFactor: df,
			PresentValue:   cf * df,
			TimeToPayment:  tEnd,
		})
	}
	return rows, nil
}

// Cashflows returns both legs, fixed rows first, in schedule order.
func Cashflows(def Definition, discount DiscountCurve, forward ProjectionCurve) ([]CashflowRow, error) {
	if err := checkInputs(def, discount, forward); err != nil {
		return nil, fmt.Errorf("Cashflows: %w", err)
	}
	fixed, err := FixedLegCashflows(def, discount)
	if err != nil {
		return nil, fmt.Errorf("Cashflows: %w", err)
	}
	floating, err := FloatingLegCashflows(def, discount, forward)
	if err != nil {
		return nil, fmt.Errorf("Cashflows: %w", err)
	}
	return append(fixed, floating...), nil
}

// Price values the swap: leg PVs, NPV and the cashflow table sorted by period end.
//
// It is a pure function of its inputs and safe to call concurrently.
func Price(def Definition, discount DiscountCurve, forward ProjectionCurve) (*PricingResult, error) {
	rows, err := Cashflows(def, discount, forward)
	if err != nil {
		return nil, err
	}

	res := &PricingResult{Cashflows: rows}
	for _, r := range rows {
		if r.Leg == LegFixed {
			res.FixedLegPV += r.PresentValue
		} else {
			res.FloatingLegPV += r.PresentValue
		}
	}
	res.NPV = res.FixedLegPV + res.FloatingLegPV

	sort.SliceStable(res.Cashflows, func(i, j int) bool {
		return res.Cashflows[i].PeriodEnd.Before(res.Cashflows[j].PeriodEnd)
	})
	return res, nil
}

// PVByLeg returns leg PVs and net PV.
func PVByLeg(def Definition, discount DiscountCurve, forward ProjectionCurve) (PV, error) {
	res, err := Price(def, discount, forward)
	if err != nil {
		return PV{}, err
	}
	return res.PV(), nil
}

// NPV returns the net present value from the holder's view.
func NPV(def Definition, discount DiscountCurve, forward ProjectionCurve) (float64, error) {
	res, err := Price(def, discount, forward)
	if err != nil {
		return 0, err
	}
	return res.NPV, nil
}
