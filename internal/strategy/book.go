package strategy

import (
	"slices"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

type position struct {
	trade domain.TradeCandidate
	cost  decimal.Decimal
	units decimal.Decimal
}

// Book tracks cash and open positions of one simulation and records every
// event in the ledger. Cash never goes below zero: a buy that costs more than
// the available cash is rejected.
type Book struct {
	cash    decimal.Decimal
	open    map[string]position
	entries []domain.LedgerEntry
	trades  int
}

func newBook(capital decimal.Decimal) *Book {
	return &Book{cash: capital, open: make(map[string]position)}
}

// Cash returns the uninvested capital.
func (b *Book) Cash() decimal.Decimal { return b.cash }

// Holding reports whether the entity has an open position.
func (b *Book) Holding(entity string) bool {
	_, ok := b.open[entity]
	return ok
}

// BuyAmount spends amount on fractional units of the candidate.
func (b *Book) BuyAmount(day time.Time, c domain.TradeCandidate, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	return b.buy(day, c, amount, amount.Div(c.BuyPrice))
}

// BuyUnits buys n whole units of the candidate.
func (b *Book) BuyUnits(day time.Time, c domain.TradeCandidate, n int64) bool {
	if n <= 0 {
		return false
	}
	units := decimal.NewFromInt(n)
	return b.buy(day, c, units.Mul(c.BuyPrice), units)
}

func (b *Book) buy(day time.Time, c domain.TradeCandidate, cost, units decimal.Decimal) bool {
	if cost.GreaterThan(b.cash) || b.Holding(c.EntityID) {
		return false
	}
	b.cash = b.cash.Sub(cost)
	b.open[c.EntityID] = position{trade: c, cost: cost, units: units}
	b.trades++
	b.entries = append(b.entries, domain.LedgerEntry{
		Date:             day,
		EntityID:         c.EntityID,
		CapitalAllocated: cost,
		UnitsHeld:        units,
		RealizedProfit:   decimal.Zero,
		RunningCapital:   b.cash,
	})
	return true
}

// Skip records an opportunity that could not be afforded.
func (b *Book) Skip(day time.Time, entity string) {
	b.entries = append(b.entries, domain.LedgerEntry{
		Date:             day,
		EntityID:         entity,
		CapitalAllocated: decimal.Zero,
		UnitsHeld:        decimal.Zero,
		RealizedProfit:   decimal.Zero,
		RunningCapital:   b.cash,
	})
}

// closeDue sells every position whose sell date is day, in entity order.
func (b *Book) closeDue(day time.Time) {
	var due []string
	for id, p := range b.open {
		if p.trade.SellDate.Equal(day) {
			due = append(due, id)
		}
	}
	slices.Sort(due)

	for _, id := range due {
		p := b.open[id]
		delete(b.open, id)
		proceeds := p.cost.Mul(p.trade.SellPrice).Div(p.trade.BuyPrice)
		b.cash = b.cash.Add(proceeds)
		b.entries = append(b.entries, domain.LedgerEntry{
			Date:             day,
			EntityID:         id,
			CapitalAllocated: decimal.Zero,
			UnitsHeld:        decimal.Zero,
			RealizedProfit:   proceeds.Sub(p.cost),
			RunningCapital:   b.cash,
		})
	}
}

// idle records a day without any event.
func (b *Book) idle(day time.Time) {
	b.entries = append(b.entries, domain.LedgerEntry{
		Date:             day,
		CapitalAllocated: decimal.Zero,
		UnitsHeld:        decimal.Zero,
		RealizedProfit:   decimal.Zero,
		RunningCapital:   b.cash,
	})
}
