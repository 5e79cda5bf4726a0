package analysis

import (
	"slices"
	"strings"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// RankTypes scores each item type by the mean profit ratio of its topN best
// trades, one trade per entity. Types without a profitable trade are left
// out. Scores are sorted by average descending, then type name.
func RankTypes(sets map[string]domain.TradeSet, topN int) []domain.TypeScore {
	if topN <= 0 {
		return nil
	}

	byType := make(map[string][]domain.TradeCandidate)
	for _, id := range domain.SortedKeys(sets) {
		set := sets[id]
		if set.Kind != domain.KindItem {
			continue
		}
		if best, ok := set.Best(); ok {
			byType[set.Type] = append(byType[set.Type], best)
		}
	}

	scores := make([]domain.TypeScore, 0, len(byType))
	for typ, best := range byType {
		slices.SortFunc(best, domain.CompareCandidates)
		top := best[:min(topN, len(best))]
		sum := decimal.Zero
		for _, c := range top {
			sum = sum.Add(c.ProfitRatio)
		}
		scores = append(scores, domain.TypeScore{
			Type:           typ,
			AvgProfitRatio: sum.Div(decimal.NewFromInt(int64(len(top)))),
			Count:          len(top),
		})
	}

	slices.SortFunc(scores, func(a, b domain.TypeScore) int {
		if c := b.AvgProfitRatio.Cmp(a.AvgProfitRatio); c != 0 {
			return c
		}
		return strings.Compare(a.Type, b.Type)
	})
	return scores
}
