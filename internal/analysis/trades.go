package analysis

import (
	"slices"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// TradeFilter sets the minimum gain a buy/sell pair needs to be kept.
// The zero value keeps every pair with a positive profit.
type TradeFilter struct {
	MinGain    decimal.Decimal // absolute profit must exceed this
	MinGainPct decimal.Decimal // profit ratio must reach this
}

func (f TradeFilter) passes(c domain.TradeCandidate) bool {
	if !c.Profit.IsPositive() || !c.Profit.GreaterThan(f.MinGain) {
		return false
	}
	return c.ProfitRatio.GreaterThanOrEqual(f.MinGainPct)
}

// FindTrades pairs every buy day with every later sell day of the same entity
// and keeps the profitable pairs, ranked by CompareCandidates.
//
// Buy days with a zero price or zero reported listings cannot be bought and
// are skipped. Entities with fewer than two days are still present with an
// empty set.
func FindTrades(obs []domain.Observation, f TradeFilter) map[string]domain.TradeSet {
	out := make(map[string]domain.TradeSet)
	for _, s := range groupDaily(obs) {
		set := domain.TradeSet{EntityID: s.entity, Kind: s.kind, Type: s.typ}
		for i, buy := range s.days {
			if !buy.Price.IsPositive() || (buy.HasListings && buy.Listings == 0) {
				continue
			}
			for _, sell := range s.days[i+1:] {
				c := domain.NewTradeCandidate(s.entity, buy, sell)
				if f.passes(c) {
					set.AllProfitable = append(set.AllProfitable, c)
				}
			}
		}
		slices.SortFunc(set.AllProfitable, domain.CompareCandidates)
		out[s.entity] = set
	}
	return out
}

// Merge combines trade sets of both kinds into one universe. Ids are
// prefixed with the kind so a currency and an item with the same name stay
// distinct trading units.
func Merge(groups ...map[string]domain.TradeSet) map[string]domain.TradeSet {
	out := make(map[string]domain.TradeSet)
	for _, sets := range groups {
		for id, set := range sets {
			key := domain.AssetID(set.Kind, id)
			merged := domain.TradeSet{EntityID: key, Kind: set.Kind, Type: set.Type}
			for _, c := range set.AllProfitable {
				c.EntityID = key
				merged.AllProfitable = append(merged.AllProfitable, c)
			}
			out[key] = merged
		}
	}
	return out
}
