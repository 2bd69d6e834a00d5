package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/cmd/swaprisk/internal/api"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/cmd/swaprisk/internal/service"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/config"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/logger"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/marketdata"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/metrics"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/report"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/risk"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	logLevel   string
	format     string
	input      string
	oisPath    string
	fwdPath    string
	termsPath  string

	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "swaprisk",
		Short:         "GBP SONIA swap pricing and rate risk",
		Long:          "Bootstraps SONIA discount and forward curves from quote tables, prices a fixed/float swap and reports PV01, DV01, stressed, non-parallel and key-rate risk.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file path (default: ./swaprisk.yaml)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&a.format, "format", formatTable, "output format: table or json")
	pf.StringVar(&a.input, "input", "", "request bundle (JSON or YAML); - reads YAML from stdin")
	pf.StringVar(&a.oisPath, "ois", "", "OIS quote file for the discount curve (CSV, JSON or YAML)")
	pf.StringVar(&a.fwdPath, "forward", "", "forward quote file for the projection curve")
	pf.StringVar(&a.termsPath, "terms", "", "swap terms file (JSON or YAML)")

	root.AddCommand(
		newCurveCmd(a),
		newForwardsCmd(a),
		newPriceCmd(a),
		newRiskCmd(a),
		newShiftCmd(a),
		newKeyRateCmd(a),
		newReportCmd(a),
		newServeCmd(a),
		newTemplateCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if a.format != formatTable && a.format != formatJSON {
		return fmt.Errorf("unknown format %q: use %s or %s", a.format, formatTable, formatJSON)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Apply(); err != nil {
		return err
	}
	a.cfg = cfg

	lc := cfg.LoggerConfig()
	if lc.Output == "" || lc.Output == "stderr" {
		level, err := zerolog.ParseLevel(lc.Level)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		a.log = logger.NewWithWriter(a.stderr, lc.Format, lc.TimeFormat).Level(level)
		return nil
	}
	a.log, a.closer, err = logger.New(lc)
	return err
}

func (a *app) service(opts ...service.Option) *service.Service {
	oisPath, fwdPath := a.oisPath, a.fwdPath
	if oisPath == "" {
		oisPath = a.cfg.Data.OISQuotes
	}
	if fwdPath == "" {
		fwdPath = a.cfg.Data.ForwardQuotes
	}
	ois, fwd := service.SourcesFromPaths(oisPath, fwdPath)
	base := []service.Option{
		service.WithLogger(a.log),
		service.WithEngineConfig(a.cfg.Engine),
		service.WithQuoteSources(ois, fwd),
	}
	return service.New(append(base, opts...)...)
}

func (a *app) request() (*service.Request, error) {
	req := &service.Request{}
	if a.input != "" {
		loaded, err := service.LoadRequest(a.input, a.stdin)
		if err != nil {
			return nil, err
		}
		req = loaded
	}
	termsPath := a.termsPath
	if termsPath == "" {
		termsPath = a.cfg.Data.Terms
	}
	if termsPath != "" {
		terms, err := marketdata.LoadSwapTerms(termsPath)
		if err != nil {
			return nil, err
		}
		req.Terms = terms
	}
	return req, nil
}

// emit writes v as JSON, or calls table for table output.
func (a *app) emit(v any, table func(io.Writer) error) error {
	if a.format == formatJSON {
		return report.WriteJSON(a.stdout, v)
	}
	return table(a.stdout)
}

type shiftFlags struct {
	both     string
	discount string
	forward  string
	file     string
}

func (f *shiftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.both, "shifts", "", `shifts for both curves, e.g. "2Y:10,5Y:-5,10Y:-10"`)
	cmd.Flags().StringVar(&f.discount, "discount-shifts", "", "shifts for the discount curve only")
	cmd.Flags().StringVar(&f.forward, "forward-shifts", "", "shifts for the forward curve only")
	cmd.Flags().StringVar(&f.file, "shift-file", "", "shift scenario file applied to both curves")
}

func (f *shiftFlags) apply(req *service.Request) error {
	if f.file != "" {
		p, err := marketdata.LoadShifts(f.file)
		if err != nil {
			return err
		}
		req.DiscountShifts, req.ForwardShifts = p.Entries(), p.Entries()
	}
	if f.both != "" {
		p, err := marketdata.ParseShifts(f.both)
		if err != nil {
			return fmt.Errorf("--shifts: %w", err)
		}
		req.DiscountShifts, req.ForwardShifts = p.Entries(), p.Entries()
	}
	if f.discount != "" {
		p, err := marketdata.ParseShifts(f.discount)
		if err != nil {
			return fmt.Errorf("--discount-shifts: %w", err)
		}
		req.DiscountShifts = p.Entries()
	}
	if f.forward != "" {
		p, err := marketdata.ParseShifts(f.forward)
		if err != nil {
			return fmt.Errorf("--forward-shifts: %w", err)
		}
		req.ForwardShifts = p.Entries()
	}
	return nil
}

func newCurveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Bootstrap and print the discount and forward curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			curves, err := a.service().Bootstrap(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(curves, func(w io.Writer) error {
				for i, c := range curves {
					if i > 0 {
						fmt.Fprintln(w)
					}
					if err := report.WriteCurveTable(w, c); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newForwardsCmd(a *app) *cobra.Command {
	var shifts string
	cmd := &cobra.Command{
		Use:   "forwards",
		Short: "Summarise the forward curve: 1Y forwards, rate range, slope and convexity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			if shifts != "" {
				p, err := marketdata.ParseShifts(shifts)
				if err != nil {
					return fmt.Errorf("--forward-shifts: %w", err)
				}
				req.ForwardShifts = p.Entries()
			}
			out, err := a.service().Forwards(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(out, func(w io.Writer) error {
				for i, v := range out {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintln(w, v.Curve)
					if err := report.WriteSummaryTable(w, report.ForwardAnalysisRows(v)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&shifts, "forward-shifts", "", "also analyse the forward curve under these shifts")
	return cmd
}

func newPriceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Price the swap and list its cashflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			out, err := a.service().Price(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(out, func(w io.Writer) error {
				if err := report.WriteSummaryTable(w, report.PricingRows(out)); err != nil {
					return err
				}
				fmt.Fprintln(w)
				return report.WriteCashflowTable(w, out.Cashflows)
			})
		},
	}
}

func newRiskCmd(a *app) *cobra.Command {
	var bump float64
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Compute NPV, PV01 and DV01 for a parallel bump",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bump-bp") {
				req.BumpBP = bump
			}
			out, err := a.service().Risk(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(out, func(w io.Writer) error {
				return report.WriteSummaryTable(w, report.RiskRows(out))
			})
		},
	}
	cmd.Flags().Float64Var(&bump, "bump-bp", risk.DefaultBumpBP, "parallel bump size in basis points")
	return cmd
}

func newShiftCmd(a *app) *cobra.Command {
	var sf shiftFlags
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Reprice under a non-parallel tenor shift scenario",
		Long:  "Reprice under per-tenor shifts interpolated linearly between tenors and held flat beyond the ends. Without shifts the bundled scenario is applied to both curves.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			if err := sf.apply(req); err != nil {
				return err
			}
			out, err := a.service().Shift(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(out, func(w io.Writer) error {
				return report.WriteSummaryTable(w, report.RiskRows(out))
			})
		},
	}
	sf.register(cmd)
	return cmd
}

func newKeyRateCmd(a *app) *cobra.Command {
	var tenors []float64
	cmd := &cobra.Command{
		Use:   "keyrate",
		Short: "Compute key-rate DV01 buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			if len(tenors) > 0 {
				req.KeyTenors = tenors
			}
			out, err := a.service().KeyRate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(out, func(w io.Writer) error {
				if err := report.WriteKeyRateTable(w, out.Buckets); err != nil {
					return err
				}
				_, err := fmt.Fprintf(w, "\nParallel DV01: %s\n", report.FormatMoney(report.Money(out.ParallelDV01)))
				return err
			})
		},
	}
	cmd.Flags().Float64SliceVar(&tenors, "key-tenors", nil, "key tenors in years, e.g. 1,2,5,10 (default from config)")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		sf     shiftFlags
		stress float64
		tenors []float64
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full analysis: base, stressed, non-parallel and key-rate risk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			if err := sf.apply(req); err != nil {
				return err
			}
			if cmd.Flags().Changed("stress-bp") {
				req.StressShiftBP = &stress
			}
			if len(tenors) > 0 {
				req.KeyTenors = tenors
			}
			out, err := a.service().Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(out, func(w io.Writer) error { return writeAnalysis(w, out) })
		},
	}
	sf.register(cmd)
	cmd.Flags().Float64Var(&stress, "stress-bp", 0, "parallel stress shift in basis points (default from config)")
	cmd.Flags().Float64SliceVar(&tenors, "key-tenors", nil, "key tenors in years (default from config)")
	return cmd
}

func writeAnalysis(w io.Writer, v report.AnalysisView) error {
	if err := report.WriteSummaryTable(w, v.Summary); err != nil {
		return err
	}
	if len(v.Base.KeyRateDV01) > 0 {
		fmt.Fprintln(w, "\nKey-rate DV01")
		if err := report.WriteKeyRateTable(w, v.Base.KeyRateDV01); err != nil {
			return err
		}
	}
	if v.NonParallel != nil {
		fmt.Fprintln(w, "\nNon-parallel shift")
		if err := report.WriteSummaryTable(w, report.RiskRows(*v.NonParallel)); err != nil {
			return err
		}
		if len(v.NonParallel.KeyRateDV01) > 0 {
			fmt.Fprintln(w, "\nKey-rate DV01 (shifted)")
			if err := report.WriteKeyRateTable(w, v.NonParallel.KeyRateDV01); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(w, "\nCashflows by payment date")
	return report.WriteCombinedTable(w, v.Combined)
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricing API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := a.cfg.Server
			if addr == "" {
				addr = srv.Addr()
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			svc := a.service(service.WithRecorder(metrics.New(reg)))

			server := api.NewServer(
				api.NewHandler(svc, a.log, reg),
				api.WithAddr(addr),
				api.WithTimeouts(srv.ReadTimeout, srv.WriteTimeout, srv.ShutdownTimeout),
				api.WithBodyLimit(srv.BodyLimit),
				api.WithLogger(a.log),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config server.host:server.port)")
	return cmd
}

func newTemplateCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a starter input file",
		Long:  "Print a starter input file: ois or forward (CSV quote tables), terms (YAML swap terms) or shifts (YAML scenario).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "ois":
				return marketdata.WriteQuotesCSV(a.stdout, marketdata.TemplateQuotes("OIS"))
			case "forward":
				return marketdata.WriteQuotesCSV(a.stdout, marketdata.TemplateQuotes("SONIA_FWD"))
			case "terms":
				b, err := marketdata.SampleTerms()
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(b)
				return err
			case "shifts":
				p, err := marketdata.SampleShiftScenario()
				if err != nil {
					return err
				}
				enc := yaml.NewEncoder(a.stdout)
				defer enc.Close()
				return enc.Encode(p.Entries())
			default:
				return fmt.Errorf("unknown template %q: use ois, forward, terms or shifts", kind)
			}
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "ois", "template kind: ois, forward, terms or shifts")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "swaprisk %s\n", version)
			fmt.Fprintf(a.stdout, "  commit:  %s\n", commit)
			fmt.Fprintf(a.stdout, "  built:   %s\n", date)
		},
	}
}
