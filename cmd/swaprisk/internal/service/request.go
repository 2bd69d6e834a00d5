package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/marketdata"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
)

// Request bundles everything one pricing operation needs. Omitted quote tables fall back
// to the service's configured sources; omitted terms fall back to the sample swap.
type Request struct {
	Terms          marketdata.SwapTerms     `json:"terms" yaml:"terms"`
	OISQuotes      []marketdata.QuoteRecord `json:"ois_quotes,omitempty" yaml:"ois_quotes,omitempty"`
	ForwardQuotes  []marketdata.QuoteRecord `json:"forward_quotes,omitempty" yaml:"forward_quotes,omitempty"`
	DiscountShifts []risk.TenorShift        `json:"discount_shifts,omitempty" yaml:"discount_shifts,omitempty"`
	ForwardShifts  []risk.TenorShift        `json:"forward_shifts,omitempty" yaml:"forward_shifts,omitempty"`
	KeyTenors      []float64                `json:"key_tenors,omitempty" yaml:"key_tenors,omitempty" validate:"omitempty,dive,gt=0,lte=50"`
	BumpBP         float64                  `json:"bump_bp,omitempty" yaml:"bump_bp,omitempty" validate:"gte=-100,lte=100"`
	StressShiftBP  *float64                 `json:"stress_shift_bp,omitempty" yaml:"stress_shift_bp,omitempty" validate:"omitempty,gte=-200,lte=200"`
	Frequency      int                      `json:"bootstrap_frequency,omitempty" yaml:"bootstrap_frequency,omitempty" validate:"omitempty,oneof=1 2 4 12"`
}

// Normalize fills defaults and validates the request and its terms.
func (r *Request) Normalize() error {
	if err := defaults.Set(r); err != nil {
		return fmt.Errorf("request defaults: %w", err)
	}
	if err := r.Terms.Normalize(); err != nil {
		return err
	}
	if err := marketdata.Validator().Struct(r); err != nil {
		return fmt.Errorf("request: %w", err)
	}
	if err := marketdata.ValidateShifts(r.DiscountShifts); err != nil {
		return fmt.Errorf("discount_shifts: %w", err)
	}
	if err := marketdata.ValidateShifts(r.ForwardShifts); err != nil {
		return fmt.Errorf("forward_shifts: %w", err)
	}
	return nil
}

// HasShifts reports whether any shift entries were supplied.
func (r *Request) HasShifts() bool {
	return len(r.DiscountShifts) > 0 || len(r.ForwardShifts) > 0
}

// ShiftProfiles returns the discount and forward profiles.
func (r *Request) ShiftProfiles() (risk.ShiftProfile, risk.ShiftProfile) {
	return risk.NewShiftProfile(r.DiscountShifts), risk.NewShiftProfile(r.ForwardShifts)
}

func quoteSource(records []marketdata.QuoteRecord, fallback marketdata.QuoteSource) (marketdata.QuoteSource, error) {
	if len(records) == 0 {
		return fallback, nil
	}
	quotes := make([]curve.Quote, len(records))
	for i, rec := range records {
		q, err := rec.Quote()
		if err != nil {
			return nil, err
		}
		quotes[i] = q
	}
	return marketdata.NewStaticQuoteSource(quotes), nil
}

// DecodeRequest reads a request bundle as JSON or YAML. An empty body is an empty request.
func DecodeRequest(r io.Reader, format marketdata.Format) (*Request, error) {
	var req Request
	var err error
	if format == marketdata.FormatJSON {
		err = json.NewDecoder(r).Decode(&req)
	} else {
		err = yaml.NewDecoder(r).Decode(&req)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}

// LoadRequest reads a request bundle from path, or stdin when path is "-".
func LoadRequest(path string, stdin io.Reader) (*Request, error) {
	if path == "-" {
		return DecodeRequest(stdin, marketdata.FormatYAML)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRequest: %w", err)
	}
	defer f.Close()

	format := marketdata.FormatFromPath(path)
	if format == marketdata.FormatCSV {
		format = marketdata.FormatYAML
	}
	return DecodeRequest(f, format)
}
