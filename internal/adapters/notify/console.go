package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// Console implements ports.Reporter with plain tables on a terminal.
type Console struct {
	out io.Writer
	top int
}

// NewConsole creates a reporter that writes to stdout, showing at most top
// rows per ranking table.
func NewConsole(top int) *Console {
	return &Console{out: os.Stdout, top: top}
}

// NewConsoleWriter creates a reporter for tests.
func NewConsoleWriter(w io.Writer, top int) *Console {
	return &Console{out: w, top: top}
}

// Report prints the strategy summaries, the best trades, the type ranking
// and the daily picks of a run.
func (c *Console) Report(_ context.Context, r domain.RunResult) error {
	fmt.Fprintf(c.out, "\n%s %s | run %s | %d currency rows, %d item rows\n",
		r.League, r.Window, shortID(r.RunID.String()), len(r.CurrencyRows), len(r.ItemRows))

	if len(r.CurrencyRows) == 0 && len(r.ItemRows) == 0 {
		fmt.Fprintln(c.out, "  no listings in window")
		return nil
	}

	c.printStrategies(r.Strategies)
	c.printTrades(r)
	c.printRanking(r.TypeRanking)
	c.printBestDaily(r.BestDaily)
	return nil
}

func (c *Console) printStrategies(ledgers []domain.StrategyLedger) {
	if len(ledgers) == 0 {
		return
	}
	fmt.Fprintln(c.out, "\n  --- STRATEGIES ---")
	table := tablewriter.NewWriter(c.out)
	table.Header("Mode", "Start", "Final", "Profit", "Trades", "Return")
	for _, l := range ledgers {
		s := l.Summary
		table.Append(
			string(s.Mode),
			s.StartingCapital.StringFixed(2),
			s.FinalCapital.StringFixed(2),
			s.TotalProfit.StringFixed(2),
			fmt.Sprintf("%d", s.NumTrades),
			percent(s.ReturnPct()),
		)
	}
	table.Render()
}

func (c *Console) printTrades(r domain.RunResult) {
	best := slices.Concat(domain.BestTrades(r.CurrencyTrades), domain.BestTrades(r.ItemTrades))
	if len(best) == 0 {
		fmt.Fprintln(c.out, "\n  no profitable trades in window")
		return
	}
	slices.SortFunc(best, domain.CompareCandidates)

	fmt.Fprintf(c.out, "\n  --- TOP TRADES (%d of %d entities) ---\n", min(c.top, len(best)), len(best))
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Entity", "Buy", "@", "Sell", "@", "Days", "Gain")
	for i, t := range best[:min(c.top, len(best))] {
		table.Append(
			fmt.Sprintf("%d", i+1),
			compactName(t.EntityID, 40),
			t.BuyDate.Format(domain.DateLayout),
			t.BuyPrice.StringFixed(2),
			t.SellDate.Format(domain.DateLayout),
			t.SellPrice.StringFixed(2),
			fmt.Sprintf("%d", t.HoldingDays()),
			percent(t.ProfitRatio),
		)
	}
	table.Render()
}

func (c *Console) printRanking(scores []domain.TypeScore) {
	if len(scores) == 0 {
		return
	}
	fmt.Fprintln(c.out, "\n  --- ITEM TYPES ---")
	table := tablewriter.NewWriter(c.out)
	table.Header("Type", "Avg gain", "Trades")
	for _, s := range scores[:min(c.top, len(scores))] {
		table.Append(s.Type, percent(s.AvgProfitRatio), fmt.Sprintf("%d", s.Count))
	}
	table.Render()
}

func (c *Console) printBestDaily(choices []domain.DailyChoice) {
	if len(choices) == 0 {
		return
	}
	fmt.Fprintln(c.out, "\n  --- BEST NEXT-DAY PICK ---")
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Entity", "Factor")
	for _, d := range choices {
		entity := d.EntityID
		if entity == "" {
			entity = "-"
		}
		table.Append(d.Date.Format(domain.DateLayout), compactName(entity, 40), "x"+d.Factor.StringFixed(3))
	}
	table.Render()
}

func percent(ratio decimal.Decimal) string {
	return ratio.Shift(2).StringFixed(1) + "%"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// compactName shortens s to at most maxLen runes, preferring a word boundary.
func compactName(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	cut := string(runes[:maxLen])
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
