package domain

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TradeCandidate is a buy on one day and a sell on a later day of the same entity.
type TradeCandidate struct {
	EntityID    string
	BuyDate     time.Time
	BuyPrice    decimal.Decimal
	SellDate    time.Time
	SellPrice   decimal.Decimal
	Profit      decimal.Decimal // SellPrice - BuyPrice
	ProfitRatio decimal.Decimal // Profit / BuyPrice

	// MaxUnits caps how many units can be bought, taken from the listing
	// count on the buy date. Zero means the export did not report one.
	MaxUnits int
}

// NewTradeCandidate derives profit and ratio. buyPrice must be positive.
func NewTradeCandidate(entityID string, buy, sell DailyPrice) TradeCandidate {
	profit := sell.Price.Sub(buy.Price)
	c := TradeCandidate{
		EntityID:    entityID,
		BuyDate:     buy.Date,
		BuyPrice:    buy.Price,
		SellDate:    sell.Date,
		SellPrice:   sell.Price,
		Profit:      profit,
		ProfitRatio: profit.Div(buy.Price),
	}
	if buy.HasListings {
		c.MaxUnits = buy.Listings
	}
	return c
}

// HoldingDays is the number of calendar days between buy and sell.
func (c TradeCandidate) HoldingDays() int {
	return int(c.SellDate.Sub(c.BuyDate).Hours() / 24)
}

// CompareCandidates orders candidates by profit ratio descending, then earliest
// buy date, earliest sell date and entity id. It is the single ranking used by
// the trade finder and every strategy mode.
func CompareCandidates(a, b TradeCandidate) int {
	if c := b.ProfitRatio.Cmp(a.ProfitRatio); c != 0 {
		return c
	}
	if c := a.BuyDate.Compare(b.BuyDate); c != 0 {
		return c
	}
	if c := a.SellDate.Compare(b.SellDate); c != 0 {
		return c
	}
	return strings.Compare(a.EntityID, b.EntityID)
}

// TradeSet holds the profitable candidates of one entity, best first.
type TradeSet struct {
	EntityID      string
	Kind          Kind
	Type          string
	AllProfitable []TradeCandidate
}

// Best returns the highest-ranked candidate, if any.
func (s TradeSet) Best() (TradeCandidate, bool) {
	if len(s.AllProfitable) == 0 {
		return TradeCandidate{}, false
	}
	return s.AllProfitable[0], true
}

// BestTrades returns the best candidate of every entity that has one, by entity id.
func BestTrades(sets map[string]TradeSet) []TradeCandidate {
	var out []TradeCandidate
	for _, id := range SortedKeys(sets) {
		if best, ok := sets[id].Best(); ok {
			out = append(out, best)
		}
	}
	return out
}

// ProfitableTrades returns every profitable candidate, grouped by entity id
// and ranked within each entity.
func ProfitableTrades(sets map[string]TradeSet) []TradeCandidate {
	var out []TradeCandidate
	for _, id := range SortedKeys(sets) {
		out = append(out, sets[id].AllProfitable...)
	}
	return out
}

// SortedKeys returns map keys in ascending order so that tables built from
// entity maps are reproducible.
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
