// Package main provides the zombiecheck CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lukemcguire/zombiecheck/checker"
	"github.com/lukemcguire/zombiecheck/config"
	"github.com/lukemcguire/zombiecheck/input"
	"github.com/lukemcguire/zombiecheck/logging"
	"github.com/lukemcguire/zombiecheck/metrics"
	"github.com/lukemcguire/zombiecheck/result"
	"github.com/lukemcguire/zombiecheck/tui"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK       = 0
	exitProblems = 1
	exitFailure  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	cmd, err := newRootCmd(a)
	if err != nil {
		fmt.Fprintf(stderr, "zombiecheck: %v\n", err)
		return exitFailure
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "zombiecheck: %v\n", err)
		return exitFailure
	}
	return a.exitCode
}

// app carries the output streams and outcome of one invocation.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	exitCode int
}

func newRootCmd(a *app) (*cobra.Command, error) {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "zombiecheck [flags] [FILE...]",
		Short: "Find dead links in text files",
		Long: `zombiecheck extracts http and https links from plain text, Markdown,
HTML or any other prose, checks each one over the network, and reports the
links that are broken or permanently redirected.

With no FILE, or when FILE is -, standard input is read.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.check(cmd.Context(), v, cfgFile, args)
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return err
	})

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	config.RegisterFlags(cmd.Flags())
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (a *app) check(ctx context.Context, v *viper.Viper, cfgFile string, sources []string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logging.WithRunID(logger)

	enc, err := input.ResolveEncoding(cfg.Encoding)
	if err != nil {
		return err
	}

	var registry *prometheus.Registry
	var collector *metrics.Collector
	if cfg.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		if collector, err = metrics.New(registry); err != nil {
			return err
		}
	}

	checkCfg := checker.Config{
		Workers:        cfg.Workers,
		RedirectLimit:  cfg.RedirectLimit,
		RequestTimeout: cfg.Timeout,
		UserAgent:      cfg.UserAgent,
		Insecure:       cfg.Insecure,
		ListOnly:       cfg.List,
		Verbose:        cfg.Verbose,
		Unique:         cfg.Unique,
		RespectRobots:  cfg.RespectRobots,
		RateLimit:      cfg.RateLimit,
		AdaptiveRate:   cfg.AdaptiveRate,
		Encoding:       enc,
		OnSourceError: func(_ string, err error) {
			fmt.Fprintf(a.stderr, "zombiecheck: %v\n", err)
		},
		Logger:  logger,
		Metrics: collector,
	}
	logger.Debug("starting run",
		zap.Strings("sources", sources),
		zap.Int("workers", cfg.Workers),
		zap.String("format", cfg.Format),
	)

	var stats *result.Stats
	if cfg.Progress {
		stats, err = a.runInteractive(ctx, checkCfg, sources)
	} else {
		stats, err = a.runPlain(ctx, cfg.Format, checkCfg, sources)
	}

	if registry != nil {
		if writeErr := metrics.WriteTextfile(cfg.MetricsFile, registry); writeErr != nil {
			logger.Error("metrics export failed", zap.Error(writeErr))
		}
	}
	if cfg.Verbose && !cfg.Progress && stats != nil {
		result.PrintSummary(a.stderr, stats)
	}
	if err != nil {
		return err
	}

	switch {
	case stats.SourceErrors > 0:
		a.exitCode = exitFailure
	case !cfg.List && stats.HasProblems():
		a.exitCode = exitProblems
	default:
		a.exitCode = exitOK
	}
	return nil
}

func (a *app) runPlain(ctx context.Context, format string, cfg checker.Config, sources []string) (*result.Stats, error) {
	sink, err := result.NewSink(format, a.stdout)
	if err != nil {
		return nil, err
	}
	stats, err := checker.New(cfg, nil).Run(ctx, sources, sink)
	if closeErr := sink.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("write output: %w", closeErr)
	}
	return stats, err
}

func (a *app) runInteractive(ctx context.Context, cfg checker.Config, sources []string) (*result.Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithOutput(a.stdout)}
	if len(sources) == 0 || slices.Contains(sources, input.Stdin) {
		// Links are being read from stdin; keys cannot be.
		opts = append(opts, tea.WithInput(nil))
	}

	final, err := tea.NewProgram(tui.NewModel(ctx, cancel, cfg, sources), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("run progress view: %w", err)
	}
	model := final.(tui.Model)
	return model.Stats(), model.Err()
}
