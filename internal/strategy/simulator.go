package strategy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNonPositiveCapital is returned when a simulation starts without capital.
var ErrNonPositiveCapital = errors.New("starting capital must be positive")

// Simulator runs allocation modes over a fixed horizon.
type Simulator struct {
	registry Registry
}

// NewSimulator creates a simulator backed by the given registry.
func NewSimulator(r Registry) *Simulator {
	return &Simulator{registry: r}
}

// Simulate runs one mode with the built-in allocators.
func Simulate(sets map[string]domain.TradeSet, capital decimal.Decimal, mode domain.Mode, horizon domain.Window) (domain.StrategyLedger, error) {
	return NewSimulator(NewRegistry()).Run(sets, capital, mode, horizon)
}

// Run ticks once per calendar day of the horizon. Each day first closes the
// positions selling that day, then lets the allocator open new ones. Trades
// that do not fit inside the horizon are ignored, so every position is
// closed by the last day.
func (s *Simulator) Run(sets map[string]domain.TradeSet, capital decimal.Decimal, mode domain.Mode, horizon domain.Window) (domain.StrategyLedger, error) {
	if !capital.IsPositive() {
		return domain.StrategyLedger{}, fmt.Errorf("strategy.Run: %w: %s", ErrNonPositiveCapital, capital)
	}
	if err := horizon.Validate(); err != nil {
		return domain.StrategyLedger{}, fmt.Errorf("strategy.Run: %w", err)
	}
	alloc, ok := s.registry.Get(mode)
	if !ok {
		return domain.StrategyLedger{}, fmt.Errorf("strategy.Run: unknown mode %q", mode)
	}

	alloc.Plan(universe(sets, horizon), capital)

	b := newBook(capital)
	for _, day := range horizon.Days() {
		before := len(b.entries)
		b.closeDue(day)
		alloc.Open(day, b)
		if len(b.entries) == before {
			b.idle(day)
		}
	}

	return domain.StrategyLedger{
		Mode:    mode,
		Entries: b.entries,
		Summary: domain.StrategySummary{
			Mode:            mode,
			StartingCapital: capital,
			FinalCapital:    b.cash,
			TotalProfit:     b.cash.Sub(capital),
			NumTrades:       b.trades,
		},
	}, nil
}

// universe keeps the candidates that buy and sell inside the horizon, ranked.
// Entities left without candidates are dropped.
func universe(sets map[string]domain.TradeSet, horizon domain.Window) map[string][]domain.TradeCandidate {
	out := make(map[string][]domain.TradeCandidate)
	for id, set := range sets {
		var in []domain.TradeCandidate
		for _, c := range set.AllProfitable {
			if horizon.Contains(c.BuyDate) && horizon.Contains(c.SellDate) && c.BuyPrice.IsPositive() {
				in = append(in, c)
			}
		}
		if len(in) == 0 {
			continue
		}
		slices.SortFunc(in, domain.CompareCandidates)
		out[id] = in
	}
	return out
}

// bestOf returns the top-ranked first candidate of each entity, ranked.
func bestOf(universe map[string][]domain.TradeCandidate) []domain.TradeCandidate {
	best := make([]domain.TradeCandidate, 0, len(universe))
	for _, id := range domain.SortedKeys(universe) {
		best = append(best, universe[id][0])
	}
	slices.SortFunc(best, domain.CompareCandidates)
	return best
}
