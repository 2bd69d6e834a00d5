// Package marketdata loads par quote tables, swap terms and shift scenarios, and bundles a
// sample GBP SONIA data set.
package marketdata

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
)

//go:embed data/*
var sampleFS embed.FS

const (
	SampleOISFile      = "data/sonia_ois_quotes.csv"
	SampleForwardFile  = "data/sonia_forward_quotes.csv"
	SampleTermsFile    = "data/swap_terms.yaml"
	SampleScenarioFile = "data/shift_scenario.yaml"
)

// Curve names used for the discount and projection curves.
const (
	DiscountCurveName = "SONIA OIS Discount"
	ForwardCurveName  = "SONIA Forward"
)

// QuoteSource supplies a par quote table.
type QuoteSource interface {
	Quotes() ([]curve.Quote, error)
}

// FileQuoteSource reads quotes from a CSV, JSON or YAML file.
type FileQuoteSource struct {
	Path string
}

func (f FileQuoteSource) Quotes() ([]curve.Quote, error) {
	return LoadQuotes(f.Path)
}

// StaticQuoteSource serves an in-memory table, validated and sorted on each call.
type StaticQuoteSource struct {
	quotes []curve.Quote
}

func NewStaticQuoteSource(quotes []curve.Quote) *StaticQuoteSource {
	return &StaticQuoteSource{quotes: append([]curve.Quote(nil), quotes...)}
}

func (s *StaticQuoteSource) Quotes() ([]curve.Quote, error) {
	if err := ValidateQuotes(s.quotes); err != nil {
		return nil, err
	}
	return curve.SortQuotes(s.quotes), nil
}

// embeddedQuoteSource reads one of the bundled sample files.
type embeddedQuoteSource string

func (e embeddedQuoteSource) Quotes() ([]curve.Quote, error) {
	return readSample(string(e))
}

// SampleOISSource is the bundled SONIA OIS discount quote table.
func SampleOISSource() QuoteSource { return embeddedQuoteSource(SampleOISFile) }

// SampleForwardSource is the bundled SONIA forward quote table.
func SampleForwardSource() QuoteSource { return embeddedQuoteSource(SampleForwardFile) }

// SampleOISQuotes returns the bundled OIS quotes.
func SampleOISQuotes() ([]curve.Quote, error) { return readSample(SampleOISFile) }

// SampleForwardQuotes returns the bundled forward quotes.
func SampleForwardQuotes() ([]curve.Quote, error) { return readSample(SampleForwardFile) }

func readSample(name string) ([]curve.Quote, error) {
	b, err := sampleFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", name, err)
	}
	return ReadQuotes(bytes.NewReader(b), FormatFromPath(name))
}

// SampleTerms returns the bundled swap terms file contents.
func SampleTerms() ([]byte, error) {
	return sampleFS.ReadFile(SampleTermsFile)
}

// SampleShiftScenario is the bundled non-parallel scenario: short end up, belly down,
// long end back up.
func SampleShiftScenario() (risk.ShiftProfile, error) {
	b, err := sampleFS.ReadFile(SampleScenarioFile)
	if err != nil {
		return risk.ShiftProfile{}, fmt.Errorf("sample scenario: %w", err)
	}
	return ReadShifts(bytes.NewReader(b), FormatYAML)
}

// Curves bundles a bootstrapped discount and forward pair.
type Curves struct {
	Discount *curve.ZeroCurve
	Forward  *curve.ZeroCurve
}

// BuildCurves bootstraps the discount and forward curves from their sources at the given
// node frequency.
func BuildCurves(ois, forward QuoteSource, frequency int) (Curves, error) {
	oisQuotes, err := ois.Quotes()
	if err != nil {
		return Curves{}, fmt.Errorf("BuildCurves: discount quotes: %w", err)
	}
	fwdQuotes, err := forward.Quotes()
	if err != nil {
		return Curves{}, fmt.Errorf("BuildCurves: forward quotes: %w", err)
	}

	disc, err := curve.Bootstrap(DiscountCurveName, oisQuotes, frequency)
	if err != nil {
		return Curves{}, fmt.Errorf("BuildCurves: %w", err)
	}
	fwd, err := curve.Bootstrap(ForwardCurveName, fwdQuotes, frequency)
	if err != nil {
		return Curves{}, fmt.Errorf("BuildCurves: %w", err)
	}
	return Curves{Discount: disc, Forward: fwd}, nil
}
