package analysis

import (
	"maps"
	"slices"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// series is the daily price history of one entity, oldest first.
type series struct {
	entity string
	kind   domain.Kind
	typ    string
	days   []domain.DailyPrice
}

type dayAccumulator struct {
	sum         decimal.Decimal
	count       int64
	listings    int
	hasListings bool
}

// groupDaily groups observations by entity and averages duplicate listings of
// the same day into one price. Series come back sorted by entity id.
func groupDaily(obs []domain.Observation) []series {
	type group struct {
		kind domain.Kind
		typ  string
		days map[time.Time]*dayAccumulator
	}
	groups := make(map[string]*group)

	for _, o := range obs {
		g, ok := groups[o.EntityID]
		if !ok {
			g = &group{kind: o.Kind, typ: o.Type, days: make(map[time.Time]*dayAccumulator)}
			groups[o.EntityID] = g
		}
		acc, ok := g.days[o.Date]
		if !ok {
			acc = &dayAccumulator{sum: decimal.Zero}
			g.days[o.Date] = acc
		}
		acc.sum = acc.sum.Add(o.Price)
		acc.count++
		if o.HasQuantity {
			acc.listings += o.Quantity
			acc.hasListings = true
		}
	}

	out := make([]series, 0, len(groups))
	for _, id := range domain.SortedKeys(groups) {
		g := groups[id]
		s := series{entity: id, kind: g.kind, typ: g.typ}
		for _, d := range slices.SortedFunc(maps.Keys(g.days), time.Time.Compare) {
			acc := g.days[d]
			s.days = append(s.days, domain.DailyPrice{
				EntityID:    id,
				Date:        d,
				Price:       acc.sum.Div(decimal.NewFromInt(acc.count)),
				Listings:    acc.listings,
				HasListings: acc.hasListings,
			})
		}
		out = append(out, s)
	}
	return out
}
