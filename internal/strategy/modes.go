package strategy

import (
	"slices"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// allIn puts all capital into the single best trade of the universe.
type allIn struct {
	pick *domain.TradeCandidate
}

func (a *allIn) Mode() domain.Mode { return domain.ModeAllIn }

func (a *allIn) Plan(universe map[string][]domain.TradeCandidate, _ decimal.Decimal) {
	if best := bestOf(universe); len(best) > 0 {
		a.pick = &best[0]
	}
}

func (a *allIn) Open(day time.Time, b *Book) {
	if a.pick != nil && a.pick.BuyDate.Equal(day) {
		b.BuyAmount(day, *a.pick, b.Cash())
	}
}

// equalSplit gives every entity with a trade the same share of the starting
// capital and follows each entity's best trade.
type equalSplit struct {
	legs  []domain.TradeCandidate
	share decimal.Decimal
}

func (e *equalSplit) Mode() domain.Mode { return domain.ModeEqualSplit }

func (e *equalSplit) Plan(universe map[string][]domain.TradeCandidate, capital decimal.Decimal) {
	e.legs = bestOf(universe)
	if len(e.legs) == 0 {
		return
	}
	n := decimal.NewFromInt(int64(len(e.legs)))
	e.share = capital.Div(n).Truncate(16)
	// shares must never add up to more than the capital
	if e.share.Mul(n).GreaterThan(capital) {
		e.share = e.share.Sub(decimal.New(1, -16))
	}
}

func (e *equalSplit) Open(day time.Time, b *Book) {
	for _, c := range e.legs {
		if c.BuyDate.Equal(day) {
			b.BuyAmount(day, c, e.share)
		}
	}
}

// greedyOneUnit buys whole units of the best opportunities opening each day
// until cash or listings run out.
type greedyOneUnit struct {
	universe map[string][]domain.TradeCandidate
}

func (g *greedyOneUnit) Mode() domain.Mode { return domain.ModeGreedyOneUnit }

func (g *greedyOneUnit) Plan(universe map[string][]domain.TradeCandidate, _ decimal.Decimal) {
	g.universe = universe
}

func (g *greedyOneUnit) Open(day time.Time, b *Book) {
	var opps []domain.TradeCandidate
	for _, id := range domain.SortedKeys(g.universe) {
		if b.Holding(id) {
			continue
		}
		// candidates are ranked, the first one buying today is the entity's best
		if i := slices.IndexFunc(g.universe[id], func(c domain.TradeCandidate) bool {
			return c.BuyDate.Equal(day)
		}); i >= 0 {
			opps = append(opps, g.universe[id][i])
		}
	}
	slices.SortFunc(opps, domain.CompareCandidates)

	for _, c := range opps {
		n := affordableUnits(b.Cash(), c)
		if !b.BuyUnits(day, c, n) {
			b.Skip(day, c.EntityID)
		}
	}
}

// affordableUnits is the number of whole units cash can buy, capped by the
// listings available on the buy date.
func affordableUnits(cash decimal.Decimal, c domain.TradeCandidate) int64 {
	n := cash.Div(c.BuyPrice).Floor()
	if n.Mul(c.BuyPrice).GreaterThan(cash) {
		n = n.Sub(decimal.NewFromInt(1))
	}
	units := n.IntPart()
	if c.MaxUnits > 0 && units > int64(c.MaxUnits) {
		units = int64(c.MaxUnits)
	}
	return max(units, 0)
}
