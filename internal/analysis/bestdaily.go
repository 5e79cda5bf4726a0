package analysis

import (
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// BestDaily picks, for every day of the window except the last, the entity
// whose price rises the most by the next day. Only entities observed on both
// days compete; ties go to the lowest entity id. A day where nothing rose
// gets a choice with no entity and a factor of one.
func BestDaily(obs []domain.Observation, w domain.Window) []domain.DailyChoice {
	prices := make([]map[time.Time]domain.DailyPrice, 0)
	for _, s := range groupDaily(obs) {
		byDay := make(map[time.Time]domain.DailyPrice, len(s.days))
		for _, d := range s.days {
			byDay[d.Date] = d
		}
		prices = append(prices, byDay)
	}

	days := w.Days()
	if len(days) < 2 {
		return nil
	}

	one := decimal.NewFromInt(1)
	out := make([]domain.DailyChoice, 0, len(days)-1)
	for _, day := range days[:len(days)-1] {
		next := day.AddDate(0, 0, 1)
		best := domain.DailyChoice{Date: day, Factor: one}
		for _, byDay := range prices {
			buy, ok := byDay[day]
			if !ok || !buy.Price.IsPositive() {
				continue
			}
			sell, ok := byDay[next]
			if !ok {
				continue
			}
			factor := sell.Price.Div(buy.Price)
			// series come sorted by entity, so strict comparison keeps the lowest id on ties
			if factor.GreaterThan(best.Factor) {
				best = domain.DailyChoice{
					Date:      day,
					EntityID:  buy.EntityID,
					BuyPrice:  buy.Price,
					SellPrice: sell.Price,
					Factor:    factor,
				}
			}
		}
		out = append(out, best)
	}
	return out
}
