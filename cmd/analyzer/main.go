package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alejandrodnm/leaguemarket/config"
	"github.com/alejandrodnm/leaguemarket/internal/adapters/csvfile"
	"github.com/alejandrodnm/leaguemarket/internal/adapters/notify"
	"github.com/alejandrodnm/leaguemarket/internal/adapters/storage"
	"github.com/alejandrodnm/leaguemarket/internal/analysis"
	"github.com/alejandrodnm/leaguemarket/internal/pipeline"
	"github.com/alejandrodnm/leaguemarket/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file (empty: defaults only)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	skipInvalid := flag.Bool("skip-invalid", false, "skip malformed rows instead of aborting")
	start := flag.String("start", "", "window start YYYY-MM-DD (overrides config)")
	end := flag.String("end", "", "window end YYYY-MM-DD (overrides config)")
	capital := flag.String("capital", "", "starting capital (overrides config)")
	modes := flag.String("modes", "", "comma-separated strategy modes (overrides config)")
	quiet := flag.Bool("quiet", false, "do not print the console report")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *skipInvalid {
		cfg.Data.SkipInvalid = true
	}
	if *start != "" {
		cfg.Window.Start = *start
	}
	if *end != "" {
		cfg.Window.End = *end
	}
	if *modes != "" {
		cfg.Strategy.Modes = strings.Split(*modes, ",")
	}
	if *capital != "" {
		if err := applyCapital(cfg, *capital); err != nil {
			slog.Error("invalid -capital", "err", err, "value", *capital)
			os.Exit(2)
		}
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	runCfg, err := pipelineConfig(cfg)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	slog.Info("leaguemarket starting",
		"config", *configPath,
		"league", runCfg.League,
		"window", runCfg.Window.String(),
		"output", cfg.Output.Dir,
		"skip_invalid", cfg.Data.SkipInvalid,
	)

	exporters := []ports.Exporter{csvfile.NewExporter(cfg.Output.Dir)}
	if cfg.Output.SQLitePath != "" {
		db, err := storage.NewSQLiteExporter(cfg.Output.SQLitePath)
		if err != nil {
			slog.Error("failed to open sqlite export", "err", err, "path", cfg.Output.SQLitePath)
			os.Exit(1)
		}
		defer db.Close()
		exporters = append(exporters, db)
	}

	var reporter ports.Reporter
	if !*quiet {
		reporter = notify.NewConsole(cfg.Output.ConsoleTop)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := pipeline.New(runCfg, csvfile.NewSource(cfg.Data.CurrencyCSV, cfg.Data.ItemsCSV), exporters, reporter)
	rep, err := p.Run(ctx)
	if err != nil {
		slog.Error("run failed", "err", err, "run_id", rep.RunID)
		cancel()
		os.Exit(1)
	}
	for _, w := range rep.Warnings {
		slog.Warn("run warning", "warning", w)
	}

	slog.Info("leaguemarket finished", "run_id", rep.RunID, "output", cfg.Output.Dir)
}

// pipelineConfig maps the file configuration to the parameters of one run.
func pipelineConfig(cfg *config.Config) (pipeline.Config, error) {
	w, err := cfg.AnalysisWindow()
	if err != nil {
		return pipeline.Config{}, err
	}
	modes, err := cfg.StrategyModes()
	if err != nil {
		return pipeline.Config{}, err
	}

	policy := csvfile.Abort
	if cfg.Data.SkipInvalid {
		policy = csvfile.Skip
	}

	return pipeline.Config{
		League:            cfg.Data.League,
		PayCurrency:       cfg.Data.PayCurrency,
		ExcludeTypes:      cfg.Data.ExcludeTypes,
		Window:            w,
		Policy:            policy,
		MovingAverageDays: cfg.Analysis.MovingAverageDays,
		Filter: analysis.TradeFilter{
			MinGain:    cfg.Analysis.MinGain,
			MinGainPct: cfg.Analysis.MinGainPct,
		},
		TopPerType:      cfg.Analysis.TopPerType,
		StartingCapital: cfg.Strategy.StartingCapital,
		Modes:           modes,
	}, nil
}
