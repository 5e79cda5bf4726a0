package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/adapters/csvfile"
	"github.com/alejandrodnm/leaguemarket/internal/analysis"
	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/alejandrodnm/leaguemarket/internal/ports"
	"github.com/alejandrodnm/leaguemarket/internal/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Config holds the parameters of one run. The window is always passed in
// explicitly, no stage has a default of its own.
type Config struct {
	League            string
	PayCurrency       string
	ExcludeTypes      []string
	Window            domain.Window
	Policy            csvfile.Policy
	MovingAverageDays int
	Filter            analysis.TradeFilter
	TopPerType        int
	StartingCapital   decimal.Decimal
	Modes             []domain.Mode
}

// DefaultConfig returns the settings of the reference week.
func DefaultConfig() Config {
	return Config{
		League:      "Phrecia",
		PayCurrency: "Chaos Orb",
		Window: domain.Window{
			Start: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC),
		},
		Policy:            csvfile.Abort,
		MovingAverageDays: 3,
		TopPerType:        3,
		StartingCapital:   decimal.NewFromInt(100),
		Modes:             []domain.Mode{domain.ModeAllIn, domain.ModeEqualSplit, domain.ModeGreedyOneUnit},
	}
}

// Report describes a finished run.
type Report struct {
	RunID           uuid.UUID
	Result          domain.RunResult
	SkippedCurrency int
	SkippedItems    int
	// Warnings holds soft conditions such as domain.ErrEmptyResult.
	Warnings []error
	Duration time.Duration
}

// Pipeline runs load → filter → aggregate → trades → strategies → export.
type Pipeline struct {
	cfg       Config
	source    ports.RowSource
	exporters []ports.Exporter
	reporter  ports.Reporter
}

// New creates a pipeline with every dependency injected. reporter may be nil.
func New(cfg Config, source ports.RowSource, exporters []ports.Exporter, reporter ports.Reporter) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		source:    source,
		exporters: exporters,
		reporter:  reporter,
	}
}

// Run executes one full analysis. Export failures abort the run, reporter
// failures are only logged.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	rep := Report{RunID: uuid.New()}
	log := slog.With("run_id", rep.RunID, "league", p.cfg.League)

	if err := p.cfg.Window.Validate(); err != nil {
		return rep, fmt.Errorf("pipeline.Run: %w", err)
	}
	log.Info("run starting", "window", p.cfg.Window.String(), "modes", len(p.cfg.Modes))

	currency, skipped, err := csvfile.Collect(p.source.CurrencyRows(), p.cfg.Policy)
	if err != nil {
		return rep, fmt.Errorf("pipeline.Run: load currency: %w", err)
	}
	rep.SkippedCurrency = skipped

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	items, skipped, err := csvfile.Collect(p.source.ItemRows(), p.cfg.Policy)
	if err != nil {
		return rep, fmt.Errorf("pipeline.Run: load items: %w", err)
	}
	rep.SkippedItems = skipped

	log.Info("exports loaded",
		"currency_rows", len(currency),
		"item_rows", len(items),
		"skipped_currency", rep.SkippedCurrency,
		"skipped_items", rep.SkippedItems,
	)

	result, err := p.analyse(ctx, currency, items, &rep)
	if err != nil {
		return rep, err
	}
	result.RunID = rep.RunID
	rep.Result = result

	for _, e := range p.exporters {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := e.Export(ctx, result); err != nil {
			return rep, fmt.Errorf("pipeline.Run: export: %w", err)
		}
	}

	if p.reporter != nil {
		if err := p.reporter.Report(ctx, result); err != nil {
			log.Warn("reporter error", "err", err)
		}
	}

	rep.Duration = time.Since(start)
	log.Info("run complete",
		"strategies", len(result.Strategies),
		"warnings", len(rep.Warnings),
		"duration", rep.Duration.Round(time.Millisecond),
	)
	return rep, nil
}

func (p *Pipeline) analyse(ctx context.Context, currency []domain.CurrencyRow, items []domain.ItemRow, rep *Report) (domain.RunResult, error) {
	w := p.cfg.Window
	result := domain.RunResult{
		League:       p.cfg.League,
		Window:       w,
		CurrencyRows: analysis.FilterWindow(currency, w),
		ItemRows:     analysis.FilterWindow(items, w),
	}
	if len(result.CurrencyRows) == 0 && len(result.ItemRows) == 0 {
		rep.Warnings = append(rep.Warnings, fmt.Errorf("no listings in window %s: %w", w, domain.ErrEmptyResult))
		slog.Warn("window has no listings", "window", w.String())
	}

	cObs := analysis.CurrencyObservations(analysis.QuotedIn(result.CurrencyRows, p.cfg.PayCurrency))
	iObs := analysis.ItemObservations(analysis.ExcludeTypes(result.ItemRows, p.cfg.ExcludeTypes))

	var err error
	if result.CurrencyAverages, err = analysis.MovingAverage(cObs, p.cfg.MovingAverageDays); err != nil {
		return result, fmt.Errorf("pipeline.analyse: %w", err)
	}
	if result.ItemAverages, err = analysis.MovingAverage(iObs, p.cfg.MovingAverageDays); err != nil {
		return result, fmt.Errorf("pipeline.analyse: %w", err)
	}

	result.CurrencyTrades = analysis.FindTrades(cObs, p.cfg.Filter)
	result.ItemTrades = analysis.FindTrades(iObs, p.cfg.Filter)
	result.BestDaily = analysis.BestDaily(analysis.Qualify(cObs, iObs), w)
	result.TypeRanking = analysis.RankTypes(result.ItemTrades, p.cfg.TopPerType)

	slog.Debug("analysis complete",
		"currency_entities", len(result.CurrencyTrades),
		"item_entities", len(result.ItemTrades),
		"ranked_types", len(result.TypeRanking),
	)

	universe := analysis.Merge(result.CurrencyTrades, result.ItemTrades)
	for _, mode := range p.cfg.Modes {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		ledger, err := strategy.Simulate(universe, p.cfg.StartingCapital, mode, w)
		if err != nil {
			return result, fmt.Errorf("pipeline.analyse: simulate %s: %w", mode, err)
		}
		slog.Debug("strategy simulated",
			"mode", mode,
			"final_capital", ledger.Summary.FinalCapital.StringFixed(2),
			"trades", ledger.Summary.NumTrades,
		)
		result.Strategies = append(result.Strategies, ledger)
	}
	return result, nil
}
