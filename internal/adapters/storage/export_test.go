package storage

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// Read-back helpers for tests. The exporter itself never reads the file.

// RunID returns the id of the run currently held in the file.
func (s *SQLiteExporter) RunID(ctx context.Context) (string, error) {
	var id string
	if err := s.db.QueryRowContext(ctx, `SELECT run_id FROM runs`).Scan(&id); err != nil {
		return "", fmt.Errorf("storage.RunID: %w", err)
	}
	return id, nil
}

// Summaries returns the exported strategy summaries ordered by mode.
func (s *SQLiteExporter) Summaries(ctx context.Context) ([]domain.StrategySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mode, starting_capital, final_capital, total_profit, num_trades
		FROM summaries
		ORDER BY mode
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Summaries: query: %w", err)
	}
	defer rows.Close()

	var out []domain.StrategySummary
	for rows.Next() {
		var (
			sum                     domain.StrategySummary
			mode, start, final, tot string
		)
		if err := rows.Scan(&mode, &start, &final, &tot, &sum.NumTrades); err != nil {
			return nil, fmt.Errorf("storage.Summaries: scan row: %w", err)
		}
		sum.Mode = domain.Mode(mode)
		if sum.StartingCapital, err = decimal.NewFromString(start); err != nil {
			return nil, fmt.Errorf("storage.Summaries: starting_capital: %w", err)
		}
		if sum.FinalCapital, err = decimal.NewFromString(final); err != nil {
			return nil, fmt.Errorf("storage.Summaries: final_capital: %w", err)
		}
		if sum.TotalProfit, err = decimal.NewFromString(tot); err != nil {
			return nil, fmt.Errorf("storage.Summaries: total_profit: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// CountTrades returns how many trade rows, and how many best trades, are stored.
func (s *SQLiteExporter) CountTrades(ctx context.Context) (all, best int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_best), 0) FROM trades`,
	).Scan(&all, &best)
	if err != nil {
		return 0, 0, fmt.Errorf("storage.CountTrades: %w", err)
	}
	return all, best, nil
}
