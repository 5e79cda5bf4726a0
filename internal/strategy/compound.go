package strategy

import (
	"slices"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// compound chains non-overlapping trades, reinvesting all capital each time,
// along the path that ends the horizon with the most capital.
type compound struct {
	path map[time.Time]domain.TradeCandidate
}

func (c *compound) Mode() domain.Mode { return domain.ModeCompound }

// step is how the best capital of a day was reached: by holding cash since
// the previous day, or by a trade that sold on it.
type step struct {
	from  time.Time
	trade *domain.TradeCandidate
}

func (c *compound) Plan(universe map[string][]domain.TradeCandidate, capital decimal.Decimal) {
	c.path = make(map[time.Time]domain.TradeCandidate)

	byBuy := make(map[time.Time][]domain.TradeCandidate)
	var first, last time.Time
	for _, cands := range universe {
		for _, t := range cands {
			byBuy[t.BuyDate] = append(byBuy[t.BuyDate], t)
			if first.IsZero() || t.BuyDate.Before(first) {
				first = t.BuyDate
			}
			if t.SellDate.After(last) {
				last = t.SellDate
			}
		}
	}
	if first.IsZero() {
		return
	}
	for _, ts := range byBuy {
		slices.SortFunc(ts, domain.CompareCandidates)
	}

	days := domain.Window{Start: first, End: last}.Days()
	best := map[time.Time]decimal.Decimal{first: capital}
	prev := map[time.Time]step{first: {from: first}}

	for i, day := range days {
		cash, ok := best[day]
		if !ok {
			cash = best[days[i-1]]
			best[day] = cash
			prev[day] = step{from: days[i-1]}
		}

		for _, t := range byBuy[day] {
			end := cash.Mul(t.SellPrice).Div(t.BuyPrice)
			if cur, ok := best[t.SellDate]; !ok || end.GreaterThan(cur) {
				best[t.SellDate] = end
				prev[t.SellDate] = step{from: day, trade: &t}
			}
		}

		if i+1 < len(days) {
			next := days[i+1]
			if cur, ok := best[next]; !ok || cash.GreaterThan(cur) {
				best[next] = cash
				prev[next] = step{from: day}
			}
		}
	}

	for day := last; !day.Equal(first); {
		s := prev[day]
		if s.trade != nil {
			c.path[s.trade.BuyDate] = *s.trade
		}
		day = s.from
	}
}

func (c *compound) Open(day time.Time, b *Book) {
	if t, ok := c.path[day]; ok {
		b.BuyAmount(day, t, b.Cash())
	}
}
