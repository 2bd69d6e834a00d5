package config

import (
	"fmt"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Config holds curve construction and risk parameters.
type Config struct {
	// BootstrapFrequency is the node spacing (nodes per year) of bootstrapped curves.
	BootstrapFrequency int `mapstructure:"bootstrap_frequency" yaml:"bootstrap_frequency" default:"4" validate:"gt=0,lte=12"`

	// BumpBP is the parallel bump used for PV01/DV01.
	BumpBP float64 `mapstructure:"bump_bp" yaml:"bump_bp" default:"1" validate:"ne=0"`

	// StressShiftBP is the parallel stress applied to both curves for the stressed view.
	StressShiftBP float64 `mapstructure:"stress_shift_bp" yaml:"stress_shift_bp" default:"50" validate:"gte=-200,lte=200"`

	// KeyTenors are the key-rate DV01 bucket centres in years.
	KeyTenors []float64 `mapstructure:"key_tenors" yaml:"key_tenors" validate:"min=1,dive,gt=0"`

	// Tent half-widths for key-rate shifts when no width is given:
	// ShortWidth below ShortTenorCutoff, MediumWidth up to LongTenorCutoff, LongWidth above.
	ShortTenorCutoff float64 `mapstructure:"short_tenor_cutoff" yaml:"short_tenor_cutoff" default:"1" validate:"gt=0"`
	LongTenorCutoff  float64 `mapstructure:"long_tenor_cutoff" yaml:"long_tenor_cutoff" default:"5" validate:"gtefield=ShortTenorCutoff"`
	ShortWidth       float64 `mapstructure:"short_width" yaml:"short_width" default:"1" validate:"gt=0"`
	MediumWidth      float64 `mapstructure:"medium_width" yaml:"medium_width" default:"2" validate:"gt=0"`
	LongWidth        float64 `mapstructure:"long_width" yaml:"long_width" default:"3" validate:"gt=0"`
}

// DefaultKeyTenors are the standard key-rate buckets in years.
var DefaultKeyTenors = []float64{0.25, 0.5, 1.0, 2.0, 3.0, 5.0, 7.0, 10.0, 15.0, 20.0, 30.0}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	BootstrapFrequency: 4,
	BumpBP:             1.0,
	StressShiftBP:      50.0,
	KeyTenors:          DefaultKeyTenors,
	ShortTenorCutoff:   1.0,
	LongTenorCutoff:    5.0,
	ShortWidth:         1.0,
	MediumWidth:        2.0,
	LongWidth:          3.0,
}

var validate = validator.New()

// WithDefaults fills zero fields of c from the struct defaults.
func WithDefaults(c Config) (Config, error) {
	if err := defaults.Set(&c); err != nil {
		return Config{}, fmt.Errorf("config defaults: %w", err)
	}
	if len(c.KeyTenors) == 0 {
		c.KeyTenors = append([]float64(nil), DefaultKeyTenors...)
	}
	return c, nil
}

// Validate checks c against its field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

var (
	mu  sync.RWMutex
	cfg = DefaultConfig
)

// SetConfig replaces the active configuration after filling defaults and validating it.
func SetConfig(c Config) error {
	c, err := WithDefaults(c)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	c.KeyTenors = append([]float64(nil), c.KeyTenors...)

	mu.Lock()
	cfg = c
	mu.Unlock()
	return nil
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	c := cfg
	c.KeyTenors = append([]float64(nil), cfg.KeyTenors...)
	return c
}

// KeyRateWidth returns the default tent half-width for a key tenor.
func (c Config) KeyRateWidth(keyTenor float64) float64 {
	switch {
	case keyTenor < c.ShortTenorCutoff:
		return c.ShortWidth
	case keyTenor <= c.LongTenorCutoff:
		return c.MediumWidth
	default:
		return c.LongWidth
	}
}
