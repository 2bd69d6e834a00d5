package main

import (
	"fmt"
	"os"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/marketdata"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

func main() {
	def := swap.Definition{
		ValuationDate:     utils.Date(2025, 11, 13),
		EffectiveDate:     utils.Date(2025, 11, 17),
		MaturityYears:     5,
		Notional:          10_000_000,
		FixedRate:         0.035766,
		Payer:             swap.PayerFixed,
		FixedFrequency:    2,
		FloatingFrequency: 4,
		FixedDayCount:     utils.Thirty360,
		FloatingDayCount:  utils.Act365,
	}

	tenors := make([]float64, 0, 120)
	for i := 1; i <= 120; i++ {
		tenors = append(tenors, float64(i)/4)
	}
	flat, err := curve.Flat("Flat 4%", 0.04, tenors)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	res, err := risk.PriceWithRisk(def, flat, flat, risk.DefaultBumpBP)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("Flat 4% curves")
	fmt.Printf("Fixed PV: %.2f\n", res.Pricing.FixedLegPV)
	fmt.Printf("Floating PV: %.2f\n", res.Pricing.FloatingLegPV)
	fmt.Printf("NPV: %.2f\n", res.NPV)
	fmt.Printf("PV01: %.2f  DV01: %.2f\n", res.PV01, res.DV01)

	curves, err := marketdata.BuildCurves(marketdata.SampleOISSource(), marketdata.SampleForwardSource(), 4)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sample, err := risk.PriceWithRisk(def, curves.Discount, curves.Forward, risk.DefaultBumpBP)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("\nSample SONIA curves")
	fmt.Printf("NPV: %.2f\n", sample.NPV)
	fmt.Printf("PV01: %.2f  DV01: %.2f\n", sample.PV01, sample.DV01)
}
