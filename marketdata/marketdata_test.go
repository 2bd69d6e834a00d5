package marketdata_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/marketdata"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

func TestReadQuotesCSV(t *testing.T) {
	t.Parallel()

	in := "instrument_type,tenor_years,rate\nOIS,5,0.036\nOIS,1,0.037\nOIS,2,0.035\n"
	quotes, err := marketdata.ReadQuotes(strings.NewReader(in), marketdata.FormatCSV)
	if err != nil {
		t.Fatalf("ReadQuotes error: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}
	if quotes[0].Tenor != 1 || quotes[2].Tenor != 5 || quotes[0].InstrumentType != "OIS" {
		t.Fatalf("quotes not sorted: %+v", quotes)
	}
}

func TestReadQuotesCSVTenorLabels(t *testing.T) {
	t.Parallel()

	in := "tenor,rate\n6M,0.04\n18M,0.038\n"
	quotes, err := marketdata.ReadQuotes(strings.NewReader(in), marketdata.FormatCSV)
	if err != nil {
		t.Fatalf("ReadQuotes error: %v", err)
	}
	if quotes[0].Tenor != 0.5 || quotes[1].Tenor != 1.5 {
		t.Fatalf("tenor labels not parsed: %+v", quotes)
	}
}

func TestReadQuotesRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          "",
		"header only":    "tenor_years,rate\n",
		"missing rate":   "tenor_years,yield\n1,0.03\n",
		"bad number":     "tenor_years,rate\n1,abc\n",
		"zero tenor":     "tenor_years,rate\n0,0.03\n",
		"negative tenor": "tenor_years,rate\n-1,0.03\n",
		"rate too high":  "tenor_years,rate\n1,2.5\n",
		"rate too low":   "tenor_years,rate\n1,-0.6\n",
		"nan rate":       "tenor_years,rate\n1,NaN\n",
	}
	for name, in := range cases {
		if _, err := marketdata.ReadQuotes(strings.NewReader(in), marketdata.FormatCSV); !errors.Is(err, marketdata.ErrInvalidQuotes) {
			t.Fatalf("%s: expected ErrInvalidQuotes, got %v", name, err)
		}
	}
}

func TestReadQuotesYAMLAndJSON(t *testing.T) {
	t.Parallel()

	yml := "- {instrument_type: OIS, tenor: 3M, rate: 0.04}\n- {instrument_type: OIS, tenor_years: 2, rate: 0.035}\n"
	quotes, err := marketdata.ReadQuotes(strings.NewReader(yml), marketdata.FormatYAML)
	if err != nil {
		t.Fatalf("YAML ReadQuotes error: %v", err)
	}
	if len(quotes) != 2 || quotes[0].Tenor != 0.25 {
		t.Fatalf("unexpected YAML quotes: %+v", quotes)
	}

	js := `[{"instrument_type":"OIS","tenor_years":10,"rate":0.04},{"tenor":"1Y","rate":0.03}]`
	quotes, err = marketdata.ReadQuotes(strings.NewReader(js), marketdata.FormatJSON)
	if err != nil {
		t.Fatalf("JSON ReadQuotes error: %v", err)
	}
	if len(quotes) != 2 || quotes[0].Tenor != 1 || quotes[1].Tenor != 10 {
		t.Fatalf("unexpected JSON quotes: %+v", quotes)
	}

	if _, err := marketdata.ReadQuotes(strings.NewReader(`[{"tenor":"abc","rate":0.03}]`), marketdata.FormatJSON); !errors.Is(err, marketdata.ErrInvalidQuotes) {
		t.Fatalf("expected ErrInvalidQuotes for bad tenor label, got %v", err)
	}
}

func TestWriteQuotesCSVRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tmpl := marketdata.TemplateQuotes("OIS_MARKET")
	if err := marketdata.WriteQuotesCSV(&buf, tmpl); err != nil {
		t.Fatalf("WriteQuotesCSV error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "instrument_type,tenor_years,rate\n") {
		t.Fatalf("unexpected header: %q", buf.String())
	}
	back, err := marketdata.ReadQuotes(&buf, marketdata.FormatCSV)
	if err != nil {
		t.Fatalf("ReadQuotes error: %v", err)
	}
	if len(back) != len(tmpl) || back[len(back)-1].Tenor != 30 {
		t.Fatalf("round trip lost rows: %d", len(back))
	}
}

func TestLoadQuotesFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "curve.yaml")
	if err := os.WriteFile(path, []byte("- {tenor: 1Y, rate: 0.03}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	quotes, err := marketdata.FileQuoteSource{Path: path}.Quotes()
	if err != nil {
		t.Fatalf("FileQuoteSource error: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Tenor != 1 {
		t.Fatalf("unexpected quotes: %+v", quotes)
	}

	if _, err := marketdata.LoadQuotes(filepath.Join(dir, "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSampleCurves(t *testing.T) {
	t.Parallel()

	ois, err := marketdata.SampleOISQuotes()
	if err != nil {
		t.Fatalf("SampleOISQuotes error: %v", err)
	}
	if ois[len(ois)-1].Tenor != 30 {
		t.Fatalf("sample OIS should run to 30y, got %v", ois[len(ois)-1].Tenor)
	}

	curves, err := marketdata.BuildCurves(marketdata.SampleOISSource(), marketdata.SampleForwardSource(), 4)
	if err != nil {
		t.Fatalf("BuildCurves error: %v", err)
	}
	if curves.Discount.Len() != 120 || curves.Forward.Len() != 120 {
		t.Fatalf("expected 120 quarterly nodes, got %d/%d", curves.Discount.Len(), curves.Forward.Len())
	}
	if curves.Discount.Name() != marketdata.DiscountCurveName {
		t.Fatalf("unexpected discount curve name %q", curves.Discount.Name())
	}
	for _, n := range curves.Discount.Nodes() {
		if n.DiscountFactor <= 0 || n.DiscountFactor >= 1 {
			t.Fatalf("node %v: DF %v outside (0,1)", n.Tenor, n.DiscountFactor)
		}
	}
}

func TestStaticQuoteSource(t *testing.T) {
	t.Parallel()

	src := marketdata.NewStaticQuoteSource([]curve.Quote{{Tenor: 2, Rate: 0.03}, {Tenor: 1, Rate: 0.02}})
	quotes, err := src.Quotes()
	if err != nil {
		t.Fatalf("Quotes error: %v", err)
	}
	if quotes[0].Tenor != 1 {
		t.Fatalf("static quotes not sorted: %+v", quotes)
	}

	if _, err := marketdata.NewStaticQuoteSource(nil).Quotes(); !errors.Is(err, marketdata.ErrInvalidQuotes) {
		t.Fatalf("expected ErrInvalidQuotes, got %v", err)
	}
}

func TestReadTermsDefaults(t *testing.T) {
	t.Parallel()

	def, err := marketdata.ReadTerms(strings.NewReader("notional: 5000000\npayer: FLOAT\n"), marketdata.FormatYAML)
	if err != nil {
		t.Fatalf("ReadTerms error: %v", err)
	}
	if def.Notional != 5_000_000 || def.Payer != swap.PayerFloat {
		t.Fatalf("explicit values lost: %+v", def)
	}
	if def.FixedRate != 0.035766 || def.MaturityYears != 5 || def.FixedFrequency != 2 || def.FloatingFrequency != 4 {
		t.Fatalf("defaults not applied: %+v", def)
	}
	if def.FixedDayCount != utils.Thirty360 || def.FloatingDayCount != utils.Act365 {
		t.Fatalf("default day counts: %v %v", def.FixedDayCount, def.FloatingDayCount)
	}
	if !def.EffectiveDate.Equal(utils.Date(2025, 11, 17)) {
		t.Fatalf("default effective date: %v", def.EffectiveDate)
	}
}

func TestReadTermsZeroFixedRateKept(t *testing.T) {
	t.Parallel()

	def, err := marketdata.ReadTerms(strings.NewReader(`{"fixed_rate": 0, "fixed_day_count": "act/365"}`), marketdata.FormatJSON)
	if err != nil {
		t.Fatalf("ReadTerms error: %v", err)
	}
	if def.FixedRate != 0 {
		t.Fatalf("explicit zero fixed rate replaced: %v", def.FixedRate)
	}
	if def.FixedDayCount != utils.Act365 {
		t.Fatalf("day count not normalized: %v", def.FixedDayCount)
	}
}

func TestReadTermsRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"negative notional": "notional: -1\n",
		"bad payer":         "payer: both\n",
		"bad frequency":     "fixed_frequency: 3\n",
		"bad day count":     "fixed_day_count: ACT/ACT\n",
		"long maturity":     "maturity_years: 80\n",
		"bad date":          "valuation_date: 13/11/2025\n",
		"effective early":   "valuation_date: \"2025-11-13\"\neffective_date: \"2025-11-01\"\n",
	}
	for name, in := range cases {
		if _, err := marketdata.ReadTerms(strings.NewReader(in), marketdata.FormatYAML); !errors.Is(err, swap.ErrInvalidDefinition) {
			t.Fatalf("%s: expected ErrInvalidDefinition, got %v", name, err)
		}
	}
}

func TestSampleTermsMatchDefaults(t *testing.T) {
	t.Parallel()

	b, err := marketdata.SampleTerms()
	if err != nil {
		t.Fatalf("SampleTerms error: %v", err)
	}
	def, err := marketdata.ReadTerms(bytes.NewReader(b), marketdata.FormatYAML)
	if err != nil {
		t.Fatalf("ReadTerms error: %v", err)
	}
	want, err := marketdata.DefaultTerms().Definition()
	if err != nil {
		t.Fatalf("DefaultTerms error: %v", err)
	}
	if def != want {
		t.Fatalf("sample terms %+v differ from defaults %+v", def, want)
	}
}

func TestShifts(t *testing.T) {
	t.Parallel()

	p, err := marketdata.ParseShifts("10Y:-10, 2Y:10, 6M:5")
	if err != nil {
		t.Fatalf("ParseShifts error: %v", err)
	}
	if got := p.At(6); math.Abs(got-0) > 1e-12 {
		t.Fatalf("At(6): got %v want 0", got)
	}
	if got := p.At(0.1); got != 5 {
		t.Fatalf("At(0.1): got %v want 5", got)
	}

	empty, err := marketdata.ParseShifts("  ")
	if err != nil || !empty.IsZero() {
		t.Fatalf("blank scenario should be no shift: %v", err)
	}

	for _, bad := range []string{"2Y", "2Y:x", "0Y:5", "5Y:900"} {
		if _, err := marketdata.ParseShifts(bad); !errors.Is(err, marketdata.ErrInvalidShifts) {
			t.Fatalf("%q: expected ErrInvalidShifts, got %v", bad, err)
		}
	}

	sample, err := marketdata.SampleShiftScenario()
	if err != nil {
		t.Fatalf("SampleShiftScenario error: %v", err)
	}
	if len(sample.Entries()) != 11 || sample.At(7) != -10 || sample.At(30) != 5 {
		t.Fatalf("unexpected sample scenario: %+v", sample.Entries())
	}

	js, err := marketdata.ReadShifts(strings.NewReader(`[{"tenor":5,"shift_bp":12}]`), marketdata.FormatJSON)
	if err != nil || js.At(1) != 12 {
		t.Fatalf("JSON shifts: %v %v", js.Entries(), err)
	}
}
