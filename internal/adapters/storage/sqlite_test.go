package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/adapters/storage"
	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := domain.ParseDate(s)
	return d
}

func makeResult(capital string) domain.RunResult {
	buy := domain.DailyPrice{EntityID: "Chaos", Date: day("2025-02-22"), Price: decimal.RequireFromString("0.8")}
	sell := domain.DailyPrice{EntityID: "Chaos", Date: day("2025-02-25"), Price: decimal.RequireFromString("1.3")}
	early := domain.DailyPrice{EntityID: "Chaos", Date: day("2025-02-20"), Price: decimal.RequireFromString("1.0")}

	start := decimal.RequireFromString(capital)
	final := start.Mul(decimal.RequireFromString("1.625"))
	return domain.RunResult{
		RunID:  uuid.New(),
		League: "Phrecia",
		Window: domain.Window{Start: day("2025-02-20"), End: day("2025-02-26")},
		CurrencyTrades: map[string]domain.TradeSet{
			"Chaos": {
				EntityID: "Chaos",
				Kind:     domain.KindCurrency,
				Type:     domain.CurrencyType,
				AllProfitable: []domain.TradeCandidate{
					domain.NewTradeCandidate("Chaos", buy, sell),
					domain.NewTradeCandidate("Chaos", early, sell),
				},
			},
		},
		Strategies: []domain.StrategyLedger{{
			Mode: domain.ModeAllIn,
			Entries: []domain.LedgerEntry{
				{Date: day("2025-02-22"), EntityID: "Chaos", CapitalAllocated: start, RunningCapital: decimal.Zero},
				{Date: day("2025-02-25"), EntityID: "Chaos", RealizedProfit: final.Sub(start), RunningCapital: final},
			},
			Summary: domain.StrategySummary{
				Mode:            domain.ModeAllIn,
				StartingCapital: start,
				FinalCapital:    final,
				TotalProfit:     final.Sub(start),
				NumTrades:       1,
			},
		}},
	}
}

func TestSQLiteExporter_Export(t *testing.T) {
	db, err := storage.NewSQLiteExporter(":memory:")
	require.NoError(t, err)
	defer db.Close()

	res := makeResult("100")
	require.NoError(t, db.Export(context.Background(), res))

	id, err := db.RunID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.RunID.String(), id)

	all, best, err := db.CountTrades(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, all)
	assert.Equal(t, 1, best)

	sums, err := db.Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, domain.ModeAllIn, sums[0].Mode)
	assert.True(t, sums[0].FinalCapital.Equal(decimal.RequireFromString("162.5")))
	assert.Equal(t, 1, sums[0].NumTrades)
}

func TestSQLiteExporter_ReplacesPreviousRun(t *testing.T) {
	db, err := storage.NewSQLiteExporter(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Export(context.Background(), makeResult("100")))
	second := makeResult("200")
	require.NoError(t, db.Export(context.Background(), second))

	id, err := db.RunID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.RunID.String(), id)

	all, _, err := db.CountTrades(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, all)

	sums, err := db.Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.True(t, sums[0].FinalCapital.Equal(decimal.RequireFromString("325")))
}

func TestSQLiteExporter_EmptyRun(t *testing.T) {
	db, err := storage.NewSQLiteExporter(":memory:")
	require.NoError(t, err)
	defer db.Close()

	res := domain.RunResult{RunID: uuid.New(), League: "Phrecia"}
	require.NoError(t, db.Export(context.Background(), res))

	all, best, err := db.CountTrades(context.Background())
	require.NoError(t, err)
	assert.Zero(t, all)
	assert.Zero(t, best)
}

func TestSQLiteExporter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	db, err := storage.NewSQLiteExporter(path)
	require.NoError(t, err)
	require.NoError(t, db.Export(context.Background(), makeResult("100")))
	require.NoError(t, db.Close())

	reopened, err := storage.NewSQLiteExporter(path)
	require.NoError(t, err)
	defer reopened.Close()

	sums, err := reopened.Summaries(context.Background())
	require.NoError(t, err)
	assert.Len(t, sums, 1)
}
