package csvfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
)

// Output layout under the exporter directory.
const (
	FilteredDir  = "filtered"
	MovingAvgDir = "moving_avg"
	TradesDir    = "trades"
	StrategyDir  = "strategy"
)

// Exporter implements ports.Exporter by writing every table of a run as CSV
// files under one directory. Files are rewritten on each run.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

type table struct {
	path  string
	write func(io.Writer) error
}

// Export writes the filtered rows, moving averages, trades and strategy tables.
func (e *Exporter) Export(ctx context.Context, r domain.RunResult) error {
	tables := []table{
		{filepath.Join(FilteredDir, r.League+".currency.filtered.csv"), func(w io.Writer) error {
			return WriteCurrencyRows(w, r.CurrencyRows)
		}},
		{filepath.Join(FilteredDir, r.League+".items.filtered.csv"), func(w io.Writer) error {
			return WriteItemRows(w, r.ItemRows)
		}},
		{filepath.Join(MovingAvgDir, "currency_daily_ma.csv"), func(w io.Writer) error {
			return WriteAverages(w, r.CurrencyAverages)
		}},
		{filepath.Join(MovingAvgDir, "items_daily_ma.csv"), func(w io.Writer) error {
			return WriteAverages(w, r.ItemAverages)
		}},
		{filepath.Join(TradesDir, "currency_best_trades.csv"), func(w io.Writer) error {
			return WriteTrades(w, domain.BestTrades(r.CurrencyTrades))
		}},
		{filepath.Join(TradesDir, "items_best_trades.csv"), func(w io.Writer) error {
			return WriteTrades(w, domain.BestTrades(r.ItemTrades))
		}},
		{filepath.Join(TradesDir, "currency_profitable_trades.csv"), func(w io.Writer) error {
			return WriteTrades(w, domain.ProfitableTrades(r.CurrencyTrades))
		}},
		{filepath.Join(TradesDir, "items_profitable_trades.csv"), func(w io.Writer) error {
			return WriteTrades(w, domain.ProfitableTrades(r.ItemTrades))
		}},
		{filepath.Join(StrategyDir, "best_daily.csv"), func(w io.Writer) error {
			return WriteBestDaily(w, r.BestDaily)
		}},
		{filepath.Join(StrategyDir, "type_ranking.csv"), func(w io.Writer) error {
			return WriteTypeRanking(w, r.TypeRanking)
		}},
	}

	summaries := make([]domain.StrategySummary, 0, len(r.Strategies))
	for _, l := range r.Strategies {
		entries := l.Entries
		tables = append(tables, table{
			filepath.Join(StrategyDir, "strategy_"+string(l.Mode)+".csv"),
			func(w io.Writer) error { return WriteLedger(w, entries) },
		})
		summaries = append(summaries, l.Summary)
	}
	tables = append(tables, table{
		filepath.Join(StrategyDir, "strategy_summary.csv"),
		func(w io.Writer) error { return WriteSummaries(w, summaries) },
	})

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.writeFile(t.path, t.write); err != nil {
			return fmt.Errorf("csvfile.Export: %w", err)
		}
	}

	slog.Debug("csv export complete", "dir", e.dir, "files", len(tables))
	return nil
}

// writeFile creates dir/rel and its parents, then writes through a buffer.
func (e *Exporter) writeFile(rel string, write func(io.Writer) error) (err error) {
	path := filepath.Join(e.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %q: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
