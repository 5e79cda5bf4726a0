package analysis

import (
	"fmt"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// MovingAverage computes a rolling mean of daily prices per entity.
//
// Duplicate listings of the same day are averaged first. For each observed
// day d the result is the mean of the daily prices dated in
// (d - windowDays, d]. Days without observations neither contribute nor get a
// point of their own.
func MovingAverage(obs []domain.Observation, windowDays int) (map[string][]domain.AveragePoint, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("analysis.MovingAverage: window must be positive, got %d days", windowDays)
	}

	out := make(map[string][]domain.AveragePoint)
	for _, s := range groupDaily(obs) {
		points := make([]domain.AveragePoint, 0, len(s.days))
		sum := decimal.Zero
		lo := 0
		for hi, day := range s.days {
			sum = sum.Add(day.Price)
			floor := day.Date.AddDate(0, 0, -windowDays)
			for !s.days[lo].Date.After(floor) {
				sum = sum.Sub(s.days[lo].Price)
				lo++
			}
			points = append(points, domain.AveragePoint{
				EntityID: s.entity,
				Date:     day.Date,
				AvgPrice: sum.Div(decimal.NewFromInt(int64(hi - lo + 1))),
			})
		}
		out[s.entity] = points
	}
	return out, nil
}
