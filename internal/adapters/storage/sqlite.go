package storage

// sqlite.go: single-file export of a run.
//
// The database is an output artefact like the CSV tables, not a store the
// analysis reads from. Every Export replaces the previous content inside one
// transaction, so the file always holds exactly one run:
//   - `runs`: one row with the run id, league, window and row counts.
//   - `trades`: every profitable candidate, flagged when it is the entity's best.
//   - `ledger`: the entries of every simulated mode, in ledger order.
//   - `summaries`: one row per mode.
//
// Money columns are TEXT with six fixed decimals, the same rendering as the
// CSV tables, so both exports agree to the digit.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id        TEXT PRIMARY KEY,
    league        TEXT    NOT NULL,
    window_start  TEXT    NOT NULL,
    window_end    TEXT    NOT NULL,
    currency_rows INTEGER NOT NULL DEFAULT 0,
    item_rows     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS trades (
    kind         TEXT    NOT NULL,
    entity_id    TEXT    NOT NULL,
    entity_type  TEXT    NOT NULL,
    buy_date     TEXT    NOT NULL,
    buy_price    TEXT    NOT NULL,
    sell_date    TEXT    NOT NULL,
    sell_price   TEXT    NOT NULL,
    profit       TEXT    NOT NULL,
    profit_ratio TEXT    NOT NULL,
    is_best      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ledger (
    mode              TEXT    NOT NULL,
    seq               INTEGER NOT NULL,
    date              TEXT    NOT NULL,
    entity_id         TEXT    NOT NULL,
    capital_allocated TEXT    NOT NULL,
    units_held        TEXT    NOT NULL,
    realized_profit   TEXT    NOT NULL,
    running_capital   TEXT    NOT NULL,
    PRIMARY KEY (mode, seq)
);

CREATE TABLE IF NOT EXISTS summaries (
    mode             TEXT PRIMARY KEY,
    starting_capital TEXT    NOT NULL,
    final_capital    TEXT    NOT NULL,
    total_profit     TEXT    NOT NULL,
    num_trades       INTEGER NOT NULL DEFAULT 0,
    return_pct       TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_entity ON trades(kind, entity_id);
`

const places = 6

func num(d decimal.Decimal) string { return d.StringFixed(places) }

// SQLiteExporter implements ports.Exporter using SQLite (pure Go, no CGo).
type SQLiteExporter struct {
	db *sql.DB
}

// NewSQLiteExporter opens (or creates) the export file at path and applies the schema.
func NewSQLiteExporter(path string) (*SQLiteExporter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteExporter: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer, and :memory: must stay on one connection
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteExporter: apply schema: %w", err)
	}
	return &SQLiteExporter{db: db}, nil
}

// Export replaces the content of the file with the given run.
func (s *SQLiteExporter) Export(ctx context.Context, r domain.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Export: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"runs", "trades", "ledger", "summaries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("storage.Export: clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, league, window_start, window_end, currency_rows, item_rows) VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID.String(),
		r.League,
		r.Window.Start.Format(domain.DateLayout),
		r.Window.End.Format(domain.DateLayout),
		len(r.CurrencyRows),
		len(r.ItemRows),
	); err != nil {
		return fmt.Errorf("storage.Export: insert run: %w", err)
	}

	if err := insertTrades(ctx, tx, r.CurrencyTrades, r.ItemTrades); err != nil {
		return err
	}
	if err := insertLedgers(ctx, tx, r.Strategies); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Export: commit: %w", err)
	}
	return nil
}

func insertTrades(ctx context.Context, tx *sql.Tx, groups ...map[string]domain.TradeSet) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
			(kind, entity_id, entity_type, buy_date, buy_price, sell_date,
			 sell_price, profit, profit_ratio, is_best)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Export: prepare trades: %w", err)
	}
	defer stmt.Close()

	for _, sets := range groups {
		for _, id := range domain.SortedKeys(sets) {
			set := sets[id]
			for i, c := range set.AllProfitable {
				if _, err := stmt.ExecContext(ctx,
					string(set.Kind),
					c.EntityID,
					set.Type,
					c.BuyDate.Format(domain.DateLayout),
					num(c.BuyPrice),
					c.SellDate.Format(domain.DateLayout),
					num(c.SellPrice),
					num(c.Profit),
					num(c.ProfitRatio),
					i == 0, // AllProfitable is ranked
				); err != nil {
					return fmt.Errorf("storage.Export: insert trade %s: %w", c.EntityID, err)
				}
			}
		}
	}
	return nil
}

func insertLedgers(ctx context.Context, tx *sql.Tx, ledgers []domain.StrategyLedger) error {
	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger
			(mode, seq, date, entity_id, capital_allocated, units_held, realized_profit, running_capital)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Export: prepare ledger: %w", err)
	}
	defer entryStmt.Close()

	summaryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO summaries
			(mode, starting_capital, final_capital, total_profit, num_trades, return_pct)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Export: prepare summaries: %w", err)
	}
	defer summaryStmt.Close()

	for _, l := range ledgers {
		for seq, e := range l.Entries {
			if _, err := entryStmt.ExecContext(ctx,
				string(l.Mode),
				seq,
				e.Date.Format(domain.DateLayout),
				e.EntityID,
				num(e.CapitalAllocated),
				num(e.UnitsHeld),
				num(e.RealizedProfit),
				num(e.RunningCapital),
			); err != nil {
				return fmt.Errorf("storage.Export: insert ledger %s/%d: %w", l.Mode, seq, err)
			}
		}

		s := l.Summary
		if _, err := summaryStmt.ExecContext(ctx,
			string(s.Mode),
			num(s.StartingCapital),
			num(s.FinalCapital),
			num(s.TotalProfit),
			s.NumTrades,
			num(s.ReturnPct()),
		); err != nil {
			return fmt.Errorf("storage.Export: insert summary %s: %w", s.Mode, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteExporter) Close() error {
	return s.db.Close()
}
