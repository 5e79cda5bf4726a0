package csvfile

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// places is the number of decimals written for every computed number.
const places = 6

// Output table headers.
var (
	AverageHeader   = []string{"entity_id", "date", "avg_price"}
	TradeHeader     = []string{"entity_id", "buy_date", "buy_price", "sell_date", "sell_price", "profit", "profit_ratio"}
	LedgerHeader    = []string{"date", "entity_id", "capital_allocated", "units_held", "realized_profit", "running_capital"}
	SummaryHeader   = []string{"mode", "starting_capital", "final_capital", "total_profit", "num_trades_executed", "return_pct"}
	BestDailyHeader = []string{"date", "entity_id", "buy_price", "sell_price", "factor"}
	RankingHeader   = []string{"type", "avg_profit_ratio", "count"}
)

func num(d decimal.Decimal) string { return d.StringFixed(places) }

// writeAll writes a header and records, then flushes and reports any write error.
func writeAll(w io.Writer, comma rune, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurrencyRows writes rows back in the export schema. Values keep their
// original precision so the file reloads to the same records.
func WriteCurrencyRows(w io.Writer, rows []domain.CurrencyRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.League,
			r.Date.Format(domain.DateLayout),
			r.Get,
			r.Pay,
			r.Value.String(),
			string(r.Confidence),
		})
	}
	return writeAll(w, Delimiter, CurrencySchema.Columns, records)
}

// WriteItemRows writes rows back in the export schema. The Quantity column is
// written when any row carries a quantity.
func WriteItemRows(w io.Writer, rows []domain.ItemRow) error {
	withQuantity := slices.ContainsFunc(rows, func(r domain.ItemRow) bool { return r.HasQuantity })

	header := ItemSchema.Columns
	if withQuantity {
		header = slices.Concat(ItemSchema.Columns, ItemSchema.Optional)
	}

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := []string{
			r.League,
			r.Date.Format(domain.DateLayout),
			strconv.FormatInt(r.ID, 10),
			r.Type,
			r.Name,
			r.BaseType,
			r.Variant,
			string(r.Links),
			r.Value.String(),
			string(r.Confidence),
		}
		if withQuantity {
			q := ""
			if r.HasQuantity {
				q = strconv.Itoa(r.Quantity)
			}
			rec = append(rec, q)
		}
		records = append(records, rec)
	}
	return writeAll(w, Delimiter, header, records)
}

// WriteAverages writes moving averages, entities in sorted order.
func WriteAverages(w io.Writer, series map[string][]domain.AveragePoint) error {
	var records [][]string
	for _, id := range domain.SortedKeys(series) {
		for _, p := range series[id] {
			records = append(records, []string{
				p.EntityID,
				p.Date.Format(domain.DateLayout),
				num(p.AvgPrice),
			})
		}
	}
	return writeAll(w, ',', AverageHeader, records)
}

// WriteTrades writes candidates in the given order.
func WriteTrades(w io.Writer, trades []domain.TradeCandidate) error {
	records := make([][]string, 0, len(trades))
	for _, t := range trades {
		records = append(records, []string{
			t.EntityID,
			t.BuyDate.Format(domain.DateLayout),
			num(t.BuyPrice),
			t.SellDate.Format(domain.DateLayout),
			num(t.SellPrice),
			num(t.Profit),
			num(t.ProfitRatio),
		})
	}
	return writeAll(w, ',', TradeHeader, records)
}

// WriteLedger writes the entries of one strategy mode.
func WriteLedger(w io.Writer, entries []domain.LedgerEntry) error {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			e.Date.Format(domain.DateLayout),
			e.EntityID,
			num(e.CapitalAllocated),
			num(e.UnitsHeld),
			num(e.RealizedProfit),
			num(e.RunningCapital),
		})
	}
	return writeAll(w, ',', LedgerHeader, records)
}

// WriteSummaries writes one line per simulated mode.
func WriteSummaries(w io.Writer, summaries []domain.StrategySummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			string(s.Mode),
			num(s.StartingCapital),
			num(s.FinalCapital),
			num(s.TotalProfit),
			strconv.Itoa(s.NumTrades),
			num(s.ReturnPct()),
		})
	}
	return writeAll(w, ',', SummaryHeader, records)
}

// WriteBestDaily writes the best next-day choice of each day. Days without a
// rising entity keep empty entity and price cells.
func WriteBestDaily(w io.Writer, choices []domain.DailyChoice) error {
	records := make([][]string, 0, len(choices))
	for _, c := range choices {
		buy, sell := "", ""
		if c.EntityID != "" {
			buy, sell = num(c.BuyPrice), num(c.SellPrice)
		}
		records = append(records, []string{c.Date.Format(domain.DateLayout), c.EntityID, buy, sell, num(c.Factor)})
	}
	return writeAll(w, ',', BestDailyHeader, records)
}

// WriteTypeRanking writes type scores in ranking order.
func WriteTypeRanking(w io.Writer, scores []domain.TypeScore) error {
	records := make([][]string, 0, len(scores))
	for _, s := range scores {
		records = append(records, []string{s.Type, num(s.AvgProfitRatio), strconv.Itoa(s.Count)})
	}
	return writeAll(w, ',', RankingHeader, records)
}
