// Package report turns pricing and risk results into JSON views and text tables.
//
// Money is carried as decimal.Decimal rounded to pence; rates stay float64.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

// MoneyPlaces is the rounding applied to reported amounts.
const MoneyPlaces = 2

// Money rounds an amount to pence.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(MoneyPlaces)
}

// optional maps NaN to nil so JSON renders null.
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// CashflowView is one cashflow row as reported.
type CashflowView struct {
	Leg            string          `json:"leg"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	AccrualFactor  float64         `json:"accrual_factor"`
	CouponRate     float64         `json:"coupon_rate"`
	ForwardRate    *float64        `json:"forward_rate"`
	Cashflow       decimal.Decimal `json:"cashflow"`
	DiscountFactor float64         `json:"discount_factor"`
	PresentValue   decimal.Decimal `json:"present_value"`
	TimeToPayment  float64         `json:"time_to_payment"`
}

// Cashflows converts pricer rows.
func Cashflows(rows []swap.CashflowRow) []CashflowView {
	out := make([]CashflowView, len(rows))
	for i, r := range rows {
		out[i] = CashflowView{
			Leg:            string(r.Leg),
			PeriodStart:    r.PeriodStart.Format(utils.DateLayout),
			PeriodEnd:      r.PeriodEnd.Format(utils.DateLayout),
			AccrualFactor:  r.AccrualFactor,
			CouponRate:     r.CouponRate,
			ForwardRate:    optional(r.ForwardRate),
			Cashflow:       Money(r.Cashflow),
			DiscountFactor: r.DiscountFactor,
			PresentValue:   Money(r.PresentValue),
			TimeToPayment:  r.TimeToPayment,
		}
	}
	return out
}

// CombinedRow aggregates both legs paying on one date.
type CombinedRow struct {
	PeriodEnd        string          `json:"period_end"`
	DiscountFactor   float64         `json:"discount_factor"`
	ForwardRate      *float64        `json:"forward_rate"`
	FixedRate        *float64        `json:"fixed_rate"`
	FloatingRate     *float64        `json:"floating_rate"`
	FixedCashflow    decimal.Decimal `json:"fixed_cashflow"`
	FloatingCashflow decimal.Decimal `json:"floating_cashflow"`
	NetCashflow      decimal.Decimal `json:"net_cashflow"`
	NetPresentValue  decimal.Decimal `json:"net_present_value"`
}

type dateGroup struct {
	dfSum, dfCount          float64
	fwdSum, fwdCount        float64
	fixedSum, fixedCount    float64
	floatSum, floatCount    float64
	fixedCF, floatCF, netPV decimal.Decimal
}

func mean(sum, count float64) *float64 {
	if count == 0 {
		return nil
	}
	v := sum / count
	return &v
}

// CombinedCashflows groups rows by payment date. Rates and discount factors are averaged
// within a date, amounts are summed; dates are ascending.
func CombinedCashflows(rows []swap.CashflowRow) []CombinedRow {
	groups := make(map[time.Time]*dateGroup)
	var dates []time.Time
	for _, r := range rows {
		g, ok := groups[r.PeriodEnd]
		if !ok {
			g = &dateGroup{fixedCF: decimal.Zero, floatCF: decimal.Zero, netPV: decimal.Zero}
			groups[r.PeriodEnd] = g
			dates = append(dates, r.PeriodEnd)
		}
		g.dfSum += r.DiscountFactor
		g.dfCount++
		g.netPV = g.netPV.Add(decimal.NewFromFloat(r.PresentValue))
		switch r.Leg {
		case swap.LegFixed:
			g.fixedSum += r.CouponRate
			g.fixedCount++
			g.fixedCF = g.fixedCF.Add(decimal.NewFromFloat(r.Cashflow))
		case swap.LegFloating:
			g.floatSum += r.CouponRate
			g.floatCount++
			g.fwdSum += r.ForwardRate
			g.fwdCount++
			g.floatCF = g.floatCF.Add(decimal.NewFromFloat(r.Cashflow))
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]CombinedRow, len(dates))
	for i, d := range dates {
		g := groups[d]
		out[i] = CombinedRow{
			PeriodEnd:        d.Format(utils.DateLayout),
			DiscountFactor:   g.dfSum / g.dfCount,
			ForwardRate:      mean(g.fwdSum, g.fwdCount),
			FixedRate:        mean(g.fixedSum, g.fixedCount),
			FloatingRate:     mean(g.floatSum, g.floatCount),
			FixedCashflow:    g.fixedCF.Round(MoneyPlaces),
			FloatingCashflow: g.floatCF.Round(MoneyPlaces),
			NetCashflow:      g.fixedCF.Add(g.floatCF).Round(MoneyPlaces),
			NetPresentValue:  g.netPV.Round(MoneyPlaces),
		}
	}
	return out
}

// RiskView is the JSON shape of a risk result.
type RiskView struct {
	NPV         decimal.Decimal    `json:"npv"`
	PV01        decimal.Decimal    `json:"pv01"`
	DV01        decimal.Decimal    `json:"dv01"`
	NPVChange   *decimal.Decimal   `json:"npv_change,omitempty"`
	KeyRateDV01 []risk.KeyRateDV01 `json:"key_rate_dv01,omitempty"`
	KeyRateSum  *decimal.Decimal   `json:"key_rate_dv01_total,omitempty"`
}

// Risk converts a risk result.
func Risk(r *risk.Result) RiskView {
	v := RiskView{
		NPV:  Money(r.NPV),
		PV01: Money(r.PV01),
		DV01: Money(r.DV01),
	}
	if r.NPVChange != nil {
		change := Money(*r.NPVChange)
		v.NPVChange = &change
	}
	if len(r.KeyRates) > 0 {
		v.KeyRateDV01 = r.KeyRates
		total := Money(risk.SumKeyRates(r.KeyRates))
		v.KeyRateSum = &total
	}
	return v
}

// PricingView is the JSON shape of a pricing result.
type PricingView struct {
	FixedLegPV    decimal.Decimal `json:"fixed_leg_pv"`
	FloatingLegPV decimal.Decimal `json:"floating_leg_pv"`
	NPV           decimal.Decimal `json:"npv"`
	Cashflows     []CashflowView  `json:"cashflows"`
}

// Pricing converts a pricing result.
func Pricing(p *swap.PricingResult) PricingView {
	return PricingView{
		FixedLegPV:    Money(p.FixedLegPV),
		FloatingLegPV: Money(p.FloatingLegPV),
		NPV:           Money(p.NPV),
		Cashflows:     Cashflows(p.Cashflows),
	}
}

// CurveView is the node table of one curve.
type CurveView struct {
	Name  string       `json:"name"`
	Nodes []curve.Node `json:"nodes"`
}

// Curve converts a curve.
func Curve(c *curve.ZeroCurve) CurveView {
	return CurveView{Name: c.Name(), Nodes: c.Nodes()}
}

// AnalysisView is the JSON shape of a full analysis.
type AnalysisView struct {
	Summary       []SummaryRow   `json:"summary"`
	Base          RiskView       `json:"base"`
	Stressed      RiskView       `json:"stressed"`
	StressShiftBP float64        `json:"stress_shift_bp"`
	NonParallel   *RiskView      `json:"non_parallel,omitempty"`
	Cashflows     []CashflowView `json:"cashflows"`
	Combined      []CombinedRow  `json:"combined_cashflows"`
}

// Analysis converts an engine report.
func Analysis(def swap.Definition, r *risk.Report) AnalysisView {
	v := AnalysisView{
		Summary:       Summary(def, r.Base, r.Stressed, r.StressShiftBP),
		Base:          Risk(r.Base),
		Stressed:      Risk(r.Stressed),
		StressShiftBP: r.StressShiftBP,
	}
	if r.Base.Pricing != nil {
		v.Cashflows = Cashflows(r.Base.Pricing.Cashflows)
		v.Combined = CombinedCashflows(r.Base.Pricing.Cashflows)
	}
	if r.NonParallel != nil {
		np := Risk(r.NonParallel)
		v.NonParallel = &np
	}
	return v
}

// ForwardAnalysisView is the curve shape summary of one curve.
type ForwardAnalysisView struct {
	Curve string `json:"curve"`
	curve.ForwardAnalysis
}

// ForwardAnalysis pairs an analysis with its curve name.
func ForwardAnalysis(name string, a curve.ForwardAnalysis) ForwardAnalysisView {
	return ForwardAnalysisView{Curve: name, ForwardAnalysis: a}
}
