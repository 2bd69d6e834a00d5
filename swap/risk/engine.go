package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/config"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
)

// Scenario names reported to observers and logs.
const (
	ScenarioBase        = "base"
	ScenarioStressed    = "stressed"
	ScenarioNonParallel = "non_parallel"
	ScenarioKeyRate     = "key_rate"
	ScenarioShiftedKR   = "shifted_key_rate"
)

// Observer receives one call per scenario an Engine runs.
type Observer interface {
	ObserveScenario(scenario string, elapsed time.Duration, npv float64, err error)
}

// Engine runs the full risk workflow for one swap: base, stressed, non-parallel and key-rate.
type Engine struct {
	log      zerolog.Logger
	cfg      config.Config
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithConfig overrides the active swap/config parameters for this engine.
func WithConfig(c config.Config) Option {
	return func(e *Engine) { e.cfg = c }
}

// WithObserver registers an observer for scenario timings.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine returns an engine using the active config and a no-op logger unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log: zerolog.Nop(),
		cfg: config.GetConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the parameters the engine runs with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// KeyRateDV01 computes key-rate buckets with the engine's tent widths.
func (e *Engine) KeyRateDV01(def swap.Definition, discount, forward *curve.ZeroCurve, keyTenors []float64, bumpBP float64) ([]KeyRateDV01, error) {
	return keyRateDV01(def, discount, forward, keyTenors, bumpBP, e.cfg.KeyRateWidth)
}

// Request selects the scenarios Analyze runs. Zero values fall back to the engine config.
type Request struct {
	BumpBP         float64
	StressShiftBP  *float64
	DiscountShifts ShiftProfile
	ForwardShifts  ShiftProfile
	KeyTenors      []float64
	SkipKeyRates   bool
}

// Report is the output of Analyze.
type Report struct {
	Base     *Result
	Stressed *Result
	// StressShiftBP is the parallel shift behind Stressed.
	StressShiftBP float64
	// NonParallel is nil when both shift profiles are zero.
	NonParallel *Result
	KeyTenors   []float64
}

// HasShift reports whether the request carries a non-zero shift on either curve.
func (r Request) HasShift() bool {
	return !r.DiscountShifts.IsZero() || !r.ForwardShifts.IsZero()
}

// Analyze prices def on the base curves, on curves stressed in parallel, and optionally on
// non-parallel shifted curves, with key-rate buckets for base and shifted views. Scenarios run
// one after another; ctx is checked between them.
func (e *Engine) Analyze(ctx context.Context, def swap.Definition, discount, forward *curve.ZeroCurve, req Request) (*Report, error) {
	bump := req.BumpBP
	if bump == 0 {
		bump = e.cfg.BumpBP
	}
	stress := e.cfg.StressShiftBP
	if req.StressShiftBP != nil {
		stress = *req.StressShiftBP
	}
	keyTenors := req.KeyTenors
	if len(keyTenors) == 0 {
		keyTenors = e.cfg.KeyTenors
	}

	log := e.log.With().
		Float64("notional", def.Notional).
		Float64("fixed_rate", def.FixedRate).
		Str("payer", string(def.Payer)).
		Float64("maturity_years", def.MaturityYears).
		Logger()

	report := &Report{StressShiftBP: stress, KeyTenors: append([]float64(nil), keyTenors...)}

	base, err := e.run(ctx, log, ScenarioBase, func() (*Result, error) {
		return PriceWithRisk(def, discount, forward, bump)
	})
	if err != nil {
		return nil, err
	}
	report.Base = base

	report.Stressed, err = e.run(ctx, log, ScenarioStressed, func() (*Result, error) {
		sd, sf, err := StressCurves(discount, forward, stress)
		if err != nil {
			return nil, err
		}
		return PriceWithRisk(def, sd, sf, bump)
	})
	if err != nil {
		return nil, err
	}

	if !req.SkipKeyRates {
		_, err = e.run(ctx, log, ScenarioKeyRate, func() (*Result, error) {
			buckets, err := e.KeyRateDV01(def, discount, forward, keyTenors, bump)
			if err != nil {
				return nil, err
			}
			base.KeyRates = buckets
			return base, nil
		})
		if err != nil {
			return nil, err
		}
	}

	if !req.HasShift() {
		return report, nil
	}

	shifted, err := e.run(ctx, log, ScenarioNonParallel, func() (*Result, error) {
		return PriceWithNonParallelShift(def, discount, forward, req.DiscountShifts, req.ForwardShifts)
	})
	if err != nil {
		return nil, err
	}
	report.NonParallel = shifted

	if !req.SkipKeyRates {
		_, err = e.run(ctx, log, ScenarioShiftedKR, func() (*Result, error) {
			sd, err := ApplyNonParallelShift(discount, req.DiscountShifts)
			if err != nil {
				return nil, err
			}
			sf, err := ApplyNonParallelShift(forward, req.ForwardShifts)
			if err != nil {
				return nil, err
			}
			buckets, err := e.KeyRateDV01(def, sd, sf, keyTenors, bump)
			if err != nil {
				return nil, err
			}
			shifted.KeyRates = buckets
			return shifted, nil
		})
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (e *Engine) run(ctx context.Context, log zerolog.Logger, scenario string, fn func() (*Result, error)) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Analyze %s: %w", scenario, err)
	}

	start := time.Now()
	res, err := fn()
	elapsed := time.Since(start)

	npv := 0.0
	if res != nil {
		npv = res.NPV
	}
	if e.observer != nil {
		e.observer.ObserveScenario(scenario, elapsed, npv, err)
	}
	if err != nil {
		log.Error().Err(err).Str("scenario", scenario).Msg("scenario failed")
		return nil, fmt.Errorf("Analyze %s: %w", scenario, err)
	}

	log.Debug().
		Str("scenario", scenario).
		Float64("npv", res.NPV).
		Float64("dv01", res.DV01).
		Int("key_rates", len(res.KeyRates)).
		Dur("elapsed", elapsed).
		Msg("scenario priced")
	return res, nil
}
