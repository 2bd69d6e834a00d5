package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

// CurrencySymbol prefixes formatted amounts.
const CurrencySymbol = "£"

// FormatMoney renders an amount as £1,234,567.89.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(MoneyPlaces)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + CurrencySymbol + b.String() + "." + frac
}

// FormatPercent renders a decimal rate as a percentage with four places.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.4f %%", rate*100)
}

func formatOptionalPercent(rate *float64) string {
	if rate == nil {
		return ""
	}
	return FormatPercent(*rate)
}

// SummaryRow is one attribute of the swap summary.
type SummaryRow struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// Summary lists the swap terms with base and stressed valuation.
func Summary(def swap.Definition, base, stressed *risk.Result, stressBP float64) []SummaryRow {
	swapType := "Fixed Receiver"
	if def.Payer == swap.PayerFixed {
		swapType = "Fixed Payer"
	}
	label := fmt.Sprintf("(%+gbp)", stressBP)

	rows := []SummaryRow{
		{"Notional", FormatMoney(decimal.NewFromFloat(def.Notional).Round(0))},
		{"Currency", "GBP"},
		{"Fixed Rate", FormatPercent(def.FixedRate)},
		{"Swap Type", swapType},
		{"Valuation Date", def.ValuationDate.Format(utils.DateLayout)},
		{"Effective Date", def.EffectiveDate.Format(utils.DateLayout)},
		{"Maturity", fmt.Sprintf("%.1f years", def.MaturityYears)},
		{"Fixed Leg Frequency", fmt.Sprintf("%d per year", def.FixedFrequency)},
		{"Floating Leg Frequency", fmt.Sprintf("%d per year", def.FloatingFrequency)},
		{"Fixed Leg Day Count", string(def.FixedDayCount)},
		{"Floating Leg Day Count", string(def.FloatingDayCount)},
		{"Spread", fmt.Sprintf("%.2f bp", def.Spread*1e4)},
	}
	if base != nil {
		rows = append(rows,
			SummaryRow{"Mark-to-Market", FormatMoney(Money(base.NPV))},
			SummaryRow{"PV01", FormatMoney(Money(base.PV01))},
			SummaryRow{"DV01", FormatMoney(Money(base.DV01))},
		)
	}
	if stressed != nil {
		rows = append(rows,
			SummaryRow{"Stressed MTM " + label, FormatMoney(Money(stressed.NPV))},
			SummaryRow{"Stressed PV01 " + label, FormatMoney(Money(stressed.PV01))},
			SummaryRow{"Stressed DV01 " + label, FormatMoney(Money(stressed.DV01))},
		)
	}
	return rows
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t")+"\t")
	}
	return tw.Flush()
}

// WriteSummaryTable writes the summary as two columns.
func WriteSummaryTable(w io.Writer, rows []SummaryRow) error {
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{r.Attribute, r.Value}
	}
	return writeTable(w, []string{"Attribute", "Value"}, body)
}

// WriteCashflowTable writes per-leg cashflows.
func WriteCashflowTable(w io.Writer, rows []CashflowView) error {
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{
			r.Leg,
			r.PeriodStart,
			r.PeriodEnd,
			fmt.Sprintf("%.6f", r.AccrualFactor),
			FormatPercent(r.CouponRate),
			formatOptionalPercent(r.ForwardRate),
			FormatMoney(r.Cashflow),
			fmt.Sprintf("%.6f", r.DiscountFactor),
			FormatMoney(r.PresentValue),
		}
	}
	header := []string{"leg", "period_start", "period_end", "accrual", "coupon_rate", "forward_rate", "cashflow", "discount_factor", "present_value"}
	return writeTable(w, header, body)
}

// WriteCombinedTable writes cashflows grouped by payment date.
func WriteCombinedTable(w io.Writer, rows []CombinedRow) error {
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{
			r.PeriodEnd,
			fmt.Sprintf("%.6f", r.DiscountFactor),
			formatOptionalPercent(r.ForwardRate),
			formatOptionalPercent(r.FixedRate),
			formatOptionalPercent(r.FloatingRate),
			FormatMoney(r.FixedCashflow),
			FormatMoney(r.FloatingCashflow),
			FormatMoney(r.NetCashflow),
			FormatMoney(r.NetPresentValue),
		}
	}
	header := []string{"period_end", "discount_factor", "forward_rate", "fixed_rate", "floating_rate", "fixed_cashflow", "floating_cashflow", "net_cashflow", "net_present_value"}
	return writeTable(w, header, body)
}

// WriteCurveTable writes curve nodes under the curve name.
func WriteCurveTable(w io.Writer, c CurveView) error {
	nodes := c.Nodes
	body := make([][]string, len(nodes))
	for i, n := range nodes {
		body[i] = []string{
			fmt.Sprintf("%.4f", n.Tenor),
			FormatPercent(n.ZeroRate),
			fmt.Sprintf("%.8f", n.DiscountFactor),
		}
	}
	if _, err := fmt.Fprintln(w, c.Name); err != nil {
		return err
	}
	return writeTable(w, []string{"tenor_years", "zero_rate", "discount_factor"}, body)
}

// WriteKeyRateTable writes key-rate buckets with their total.
func WriteKeyRateTable(w io.Writer, buckets []risk.KeyRateDV01) error {
	body := make([][]string, 0, len(buckets)+1)
	for _, b := range buckets {
		body = append(body, []string{fmt.Sprintf("%gY", b.Tenor), FormatMoney(Money(b.DV01))})
	}
	body = append(body, []string{"Total", FormatMoney(Money(risk.SumKeyRates(buckets)))})
	return writeTable(w, []string{"tenor", "dv01"}, body)
}

// RiskRows lists a risk view as attribute rows.
func RiskRows(v RiskView) []SummaryRow {
	rows := []SummaryRow{
		{"NPV", FormatMoney(v.NPV)},
		{"PV01", FormatMoney(v.PV01)},
		{"DV01", FormatMoney(v.DV01)},
	}
	if v.NPVChange != nil {
		rows = append(rows, SummaryRow{"NPV Change", FormatMoney(*v.NPVChange)})
	}
	return rows
}

// PricingRows lists leg PVs and NPV as attribute rows.
func PricingRows(v PricingView) []SummaryRow {
	return []SummaryRow{
		{"Fixed Leg PV", FormatMoney(v.FixedLegPV)},
		{"Floating Leg PV", FormatMoney(v.FloatingLegPV)},
		{"NPV", FormatMoney(v.NPV)},
	}
}

// ForwardAnalysisRows lists forwards and rate statistics in percent, slope in bp per year and
// convexity in bp per year squared.
func ForwardAnalysisRows(v ForwardAnalysisView) []SummaryRow {
	pct := func(r float64) string { return fmt.Sprintf("%.2f%%", r*100) }
	return []SummaryRow{
		{"1Y1Y Forward", pct(v.Forward1Y1Y)},
		{"2Y1Y Forward", pct(v.Forward2Y1Y)},
		{"5Y1Y Forward", pct(v.Forward5Y1Y)},
		{"Avg Rate", pct(v.AvgRate)},
		{"Min Rate", pct(v.MinRate)},
		{"Max Rate", pct(v.MaxRate)},
		{"Curve Slope", fmt.Sprintf("%.1f bp/yr", v.Slope*1e4)},
		{"Convexity", fmt.Sprintf("%.2f", v.Convexity*1e4)},
	}
}
