package analysis

import (
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
)

// Dated is any record that belongs to a calendar day.
type Dated interface {
	Day() time.Time
}

// FilterWindow returns the rows dated inside w, both ends included, in input
// order. An empty result is valid.
func FilterWindow[T Dated](rows []T, w domain.Window) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if w.Contains(r.Day()) {
			out = append(out, r)
		}
	}
	return out
}

// QuotedIn keeps currency rows priced in the given pay currency. Rates quoted
// in different currencies are not comparable, so only one quote currency is
// analysed per run.
func QuotedIn(rows []domain.CurrencyRow, pay string) []domain.CurrencyRow {
	out := make([]domain.CurrencyRow, 0, len(rows))
	for _, r := range rows {
		if r.Pay == pay {
			out = append(out, r)
		}
	}
	return out
}

// ExcludeTypes drops item rows whose type is listed.
func ExcludeTypes(rows []domain.ItemRow, types []string) []domain.ItemRow {
	if len(types) == 0 {
		return rows
	}
	skip := make(map[string]bool, len(types))
	for _, t := range types {
		skip[t] = true
	}
	out := make([]domain.ItemRow, 0, len(rows))
	for _, r := range rows {
		if !skip[r.Type] {
			out = append(out, r)
		}
	}
	return out
}

// CurrencyObservations converts currency rows to observations.
func CurrencyObservations(rows []domain.CurrencyRow) []domain.Observation {
	obs := make([]domain.Observation, len(rows))
	for i, r := range rows {
		obs[i] = r.Observation()
	}
	return obs
}

// ItemObservations converts item rows to observations.
func ItemObservations(rows []domain.ItemRow) []domain.Observation {
	obs := make([]domain.Observation, len(rows))
	for i, r := range rows {
		obs[i] = r.Observation()
	}
	return obs
}

// Qualify concatenates observations of both kinds and replaces every entity
// id with its asset id, so a currency and an item with the same name never
// share a series.
func Qualify(groups ...[]domain.Observation) []domain.Observation {
	var out []domain.Observation
	for _, obs := range groups {
		for _, o := range obs {
			out = append(out, o.Qualified())
		}
	}
	return out
}
