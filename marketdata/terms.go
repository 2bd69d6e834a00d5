package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

var validate = validator.New()

// Validator returns the validator shared by input DTOs.
func Validator() *validator.Validate {
	return validate
}

// SwapTerms is the file/HTTP shape of a swap definition. Rates and spread are decimals.
type SwapTerms struct {
	Notional          float64  `json:"notional" yaml:"notional" default:"10000000" validate:"gt=0"`
	ValuationDate     string   `json:"valuation_date" yaml:"valuation_date" default:"2025-11-13" validate:"required,datetime=2006-01-02"`
	EffectiveDate     string   `json:"effective_date" yaml:"effective_date" default:"2025-11-17" validate:"required,datetime=2006-01-02"`
	MaturityYears     float64  `json:"maturity_years" yaml:"maturity_years" default:"5" validate:"gte=0.25,lte=50"`
	FixedRate         *float64 `json:"fixed_rate" yaml:"fixed_rate" default:"0.035766" validate:"required,gte=-0.1,lte=0.2"`
	Payer             string   `json:"payer" yaml:"payer" default:"fixed" validate:"oneof=fixed float"`
	FixedFrequency    int      `json:"fixed_frequency" yaml:"fixed_frequency" default:"2" validate:"oneof=1 2 4 12"`
	FloatingFrequency int      `json:"floating_frequency" yaml:"floating_frequency" default:"4" validate:"oneof=1 2 4 12"`
	FixedDayCount     string   `json:"fixed_day_count" yaml:"fixed_day_count" default:"30/360" validate:"oneof=30/360 ACT/365 ACT/365F ACT/360"`
	FloatingDayCount  string   `json:"floating_day_count" yaml:"floating_day_count" default:"ACT/365" validate:"oneof=30/360 ACT/365 ACT/365F ACT/360"`
	Spread            float64  `json:"spread" yaml:"spread" validate:"gte=-0.1,lte=0.1"`
}

// DefaultTerms returns the sample 5y GBP SONIA swap.
func DefaultTerms() SwapTerms {
	var t SwapTerms
	_ = t.Normalize()
	return t
}

// Normalize fills defaults, normalizes case of payer and day counts, then validates.
func (t *SwapTerms) Normalize() error {
	if err := defaults.Set(t); err != nil {
		return fmt.Errorf("terms defaults: %w", err)
	}
	t.Payer = strings.ToLower(strings.TrimSpace(t.Payer))
	t.FixedDayCount = strings.ToUpper(strings.TrimSpace(t.FixedDayCount))
	t.FloatingDayCount = strings.ToUpper(strings.TrimSpace(t.FloatingDayCount))

	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %w", swap.ErrInvalidDefinition, err)
	}
	if t.EffectiveDate < t.ValuationDate {
		return fmt.Errorf("%w: effective_date %s before valuation_date %s", swap.ErrInvalidDefinition, t.EffectiveDate, t.ValuationDate)
	}
	return nil
}

// Definition normalizes the terms and converts them to a swap definition.
func (t SwapTerms) Definition() (swap.Definition, error) {
	if err := t.Normalize(); err != nil {
		return swap.Definition{}, err
	}
	valuation, err := utils.ParseDate(t.ValuationDate)
	if err != nil {
		return swap.Definition{}, fmt.Errorf("%w: valuation_date: %v", swap.ErrInvalidDefinition, err)
	}
	effective, err := utils.ParseDate(t.EffectiveDate)
	if err != nil {
		return swap.Definition{}, fmt.Errorf("%w: effective_date: %v", swap.ErrInvalidDefinition, err)
	}

	def := swap.Definition{
		ValuationDate:     valuation,
		EffectiveDate:     effective,
		MaturityYears:     t.MaturityYears,
		Notional:          t.Notional,
		FixedRate:         *t.FixedRate,
		Payer:             swap.Payer(t.Payer),
		FixedFrequency:    t.FixedFrequency,
		FloatingFrequency: t.FloatingFrequency,
		FixedDayCount:     utils.DayCount(t.FixedDayCount),
		FloatingDayCount:  utils.DayCount(t.FloatingDayCount),
		Spread:            t.Spread,
	}
	return def, def.Validate()
}

// DecodeTerms decodes raw swap terms as JSON or YAML without applying defaults.
func DecodeTerms(r io.Reader, format Format) (SwapTerms, error) {
	var t SwapTerms
	var err error
	if format == FormatJSON {
		err = json.NewDecoder(r).Decode(&t)
	} else {
		err = yaml.NewDecoder(r).Decode(&t)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return SwapTerms{}, fmt.Errorf("%w: decode %s: %v", swap.ErrInvalidDefinition, format, err)
	}
	return t, nil
}

// ReadTerms decodes swap terms as JSON or YAML and returns the validated definition.
func ReadTerms(r io.Reader, format Format) (swap.Definition, error) {
	t, err := DecodeTerms(r, format)
	if err != nil {
		return swap.Definition{}, err
	}
	return t.Definition()
}

// LoadSwapTerms reads raw swap terms from a JSON or YAML file.
func LoadSwapTerms(path string) (SwapTerms, error) {
	f, err := os.Open(path)
	if err != nil {
		return SwapTerms{}, fmt.Errorf("LoadSwapTerms: %w", err)
	}
	defer f.Close()

	format := FormatFromPath(path)
	if format == FormatCSV {
		format = FormatYAML
	}
	t, err := DecodeTerms(f, format)
	if err != nil {
		return SwapTerms{}, fmt.Errorf("LoadSwapTerms %s: %w", path, err)
	}
	return t, nil
}

// LoadTerms reads swap terms from a file and returns the validated definition.
func LoadTerms(path string) (swap.Definition, error) {
	t, err := LoadSwapTerms(path)
	if err != nil {
		return swap.Definition{}, err
	}
	def, err := t.Definition()
	if err != nil {
		return swap.Definition{}, fmt.Errorf("LoadTerms %s: %w", path, err)
	}
	return def, nil
}
