// Package service runs curve building, pricing and risk for the CLI and the HTTP API.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/marketdata"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/metrics"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/report"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	engineconfig "github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/config"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
)

// Operation names used in logs and metrics.
const (
	OpBootstrap = "bootstrap"
	OpPrice     = "price"
	OpRisk      = "risk"
	OpShift     = "shift"
	OpKeyRate   = "key_rate"
	OpAnalyze   = "analyze"
	OpForwards  = "forwards"
)

// Service holds the defaults every request falls back to.
type Service struct {
	log      zerolog.Logger
	cfg      engineconfig.Config
	recorder *metrics.Recorder
	ois      marketdata.QuoteSource
	forward  marketdata.QuoteSource
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRecorder records operations and engine scenarios to Prometheus.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithQuoteSources replaces the default discount and forward quote tables.
func WithQuoteSources(ois, forward marketdata.QuoteSource) Option {
	return func(s *Service) {
		if ois != nil {
			s.ois = ois
		}
		if forward != nil {
			s.forward = forward
		}
	}
}

// WithEngineConfig overrides the active engine configuration.
func WithEngineConfig(c engineconfig.Config) Option {
	return func(s *Service) { s.cfg = c }
}

// New returns a service on the bundled sample curves and the active engine config.
func New(opts ...Option) *Service {
	s := &Service{
		log:     zerolog.Nop(),
		cfg:     engineconfig.GetConfig(),
		ois:     marketdata.SampleOISSource(),
		forward: marketdata.SampleForwardSource(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SourcesFromPaths returns file sources for non-empty paths and nil otherwise.
func SourcesFromPaths(oisPath, forwardPath string) (marketdata.QuoteSource, marketdata.QuoteSource) {
	var ois, fwd marketdata.QuoteSource
	if oisPath != "" {
		ois = marketdata.FileQuoteSource{Path: oisPath}
	}
	if forwardPath != "" {
		fwd = marketdata.FileQuoteSource{Path: forwardPath}
	}
	return ois, fwd
}

// KeyRateView is the key-rate breakdown alongside the parallel DV01 it approximates.
type KeyRateView struct {
	Buckets      []risk.KeyRateDV01 `json:"key_rate_dv01"`
	Total        float64            `json:"total"`
	ParallelDV01 float64            `json:"parallel_dv01"`
}

// Curves bootstraps the discount and forward curves for req.
func (s *Service) Curves(req *Request) (marketdata.Curves, error) {
	ois, err := quoteSource(req.OISQuotes, s.ois)
	if err != nil {
		return marketdata.Curves{}, fmt.Errorf("ois_quotes: %w", err)
	}
	fwd, err := quoteSource(req.ForwardQuotes, s.forward)
	if err != nil {
		return marketdata.Curves{}, fmt.Errorf("forward_quotes: %w", err)
	}
	freq := req.Frequency
	if freq == 0 {
		freq = s.cfg.BootstrapFrequency
	}
	return marketdata.BuildCurves(ois, fwd, freq)
}

func (s *Service) prepare(req *Request) (swap.Definition, marketdata.Curves, error) {
	if err := req.Normalize(); err != nil {
		return swap.Definition{}, marketdata.Curves{}, err
	}
	def, err := req.Terms.Definition()
	if err != nil {
		return swap.Definition{}, marketdata.Curves{}, err
	}
	curves, err := s.Curves(req)
	if err != nil {
		return swap.Definition{}, marketdata.Curves{}, err
	}
	return def, curves, nil
}

func (s *Service) bump(req *Request) float64 {
	if req.BumpBP != 0 {
		return req.BumpBP
	}
	return s.cfg.BumpBP
}

func (s *Service) keyTenors(req *Request) []float64 {
	if len(req.KeyTenors) > 0 {
		return req.KeyTenors
	}
	return s.cfg.KeyTenors
}

// observe times fn and records the outcome.
func (s *Service) observe(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if s.recorder != nil {
		s.recorder.RecordRun(op, elapsed.Seconds(), err)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("operation", op).Dur("elapsed", elapsed).Msg("operation failed")
		return err
	}
	s.log.Info().Str("operation", op).Dur("elapsed", elapsed).Msg("operation complete")
	return nil
}

// Bootstrap builds both curves and returns their node tables.
func (s *Service) Bootstrap(ctx context.Context, req *Request) ([]report.CurveView, error) {
	var out []report.CurveView
	err := s.observe(ctx, OpBootstrap, func() error {
		if err := req.Normalize(); err != nil {
			return err
		}
		curves, err := s.Curves(req)
		if err != nil {
			return err
		}
		out = []report.CurveView{report.Curve(curves.Discount), report.Curve(curves.Forward)}
		return nil
	})
	return out, err
}

// Forwards analyses the shape of the forward curve, and of the shifted forward curve when
// forward shifts are given.
func (s *Service) Forwards(ctx context.Context, req *Request) ([]report.ForwardAnalysisView, error) {
	var out []report.ForwardAnalysisView
	err := s.observe(ctx, OpForwards, func() error {
		if err := req.Normalize(); err != nil {
			return err
		}
		curves, err := s.Curves(req)
		if err != nil {
			return err
		}
		fwd := []*curve.ZeroCurve{curves.Forward}
		if len(req.ForwardShifts) > 0 {
			_, profile := req.ShiftProfiles()
			shifted, err := risk.ApplyNonParallelShift(curves.Forward, profile)
			if err != nil {
				return err
			}
			fwd = append(fwd, shifted)
		}
		for _, c := range fwd {
			a, err := curve.Analyze(c)
			if err != nil {
				return err
			}
			out = append(out, report.ForwardAnalysis(c.Name(), a))
		}
		return nil
	})
	return out, err
}

// Price values the swap and returns leg PVs with the cashflow table.
func (s *Service) Price(ctx context.Context, req *Request) (report.PricingView, error) {
	var out report.PricingView
	err := s.observe(ctx, OpPrice, func() error {
		def, curves, err := s.prepare(req)
		if err != nil {
			return err
		}
		res, err := swap.Price(def, curves.Discount, curves.Forward)
		if err != nil {
			return err
		}
		out = report.Pricing(res)
		return nil
	})
	return out, err
}

// Risk returns NPV with PV01/DV01 for a parallel bump.
func (s *Service) Risk(ctx context.Context, req *Request) (report.RiskView, error) {
	var out report.RiskView
	err := s.observe(ctx, OpRisk, func() error {
		def, curves, err := s.prepare(req)
		if err != nil {
			return err
		}
		res, err := risk.PriceWithRisk(def, curves.Discount, curves.Forward, s.bump(req))
		if err != nil {
			return err
		}
		out = report.Risk(res)
		return nil
	})
	return out, err
}

// Shift reprices under the request's non-parallel shifts, or the sample scenario on both
// curves when none are given.
func (s *Service) Shift(ctx context.Context, req *Request) (report.RiskView, error) {
	var out report.RiskView
	err := s.observe(ctx, OpShift, func() error {
		def, curves, err := s.prepare(req)
		if err != nil {
			return err
		}
		discShift, fwdShift := req.ShiftProfiles()
		if !req.HasShifts() {
			sample, err := marketdata.SampleShiftScenario()
			if err != nil {
				return err
			}
			discShift, fwdShift = sample, sample
		}
		res, err := risk.PriceWithNonParallelShift(def, curves.Discount, curves.Forward, discShift, fwdShift)
		if err != nil {
			return err
		}
		out = report.Risk(res)
		return nil
	})
	return out, err
}

// KeyRate returns key-rate DV01 buckets and the parallel DV01 for comparison.
func (s *Service) KeyRate(ctx context.Context, req *Request) (KeyRateView, error) {
	var out KeyRateView
	err := s.observe(ctx, OpKeyRate, func() error {
		def, curves, err := s.prepare(req)
		if err != nil {
			return err
		}
		buckets, err := risk.NewEngine(risk.WithConfig(s.cfg)).KeyRateDV01(def, curves.Discount, curves.Forward, s.keyTenors(req), s.bump(req))
		if err != nil {
			return err
		}
		parallel, err := risk.PriceWithRisk(def, curves.Discount, curves.Forward, s.bump(req))
		if err != nil {
			return err
		}
		out = KeyRateView{Buckets: buckets, Total: risk.SumKeyRates(buckets), ParallelDV01: parallel.DV01}
		return nil
	})
	return out, err
}

// Analyze runs the full workflow: base, stressed, non-parallel and key-rate views.
func (s *Service) Analyze(ctx context.Context, req *Request) (report.AnalysisView, error) {
	var out report.AnalysisView
	err := s.observe(ctx, OpAnalyze, func() error {
		def, curves, err := s.prepare(req)
		if err != nil {
			return err
		}

		opts := []risk.Option{risk.WithLogger(s.log), risk.WithConfig(s.cfg)}
		if s.recorder != nil {
			opts = append(opts, risk.WithObserver(s.recorder))
		}
		discShift, fwdShift := req.ShiftProfiles()
		rep, err := risk.NewEngine(opts...).Analyze(ctx, def, curves.Discount, curves.Forward, risk.Request{
			BumpBP:         req.BumpBP,
			StressShiftBP:  req.StressShiftBP,
			DiscountShifts: discShift,
			ForwardShifts:  fwdShift,
			KeyTenors:      req.KeyTenors,
		})
		if err != nil {
			return err
		}
		out = report.Analysis(def, rep)
		return nil
	})
	return out, err
}
