package strategy

import (
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// Allocator decides which trades a mode opens on each day of a simulation.
// Allocators keep per-run state, so a fresh one is built for every run.
type Allocator interface {
	// Mode returns the identifier of the allocation policy.
	Mode() domain.Mode

	// Plan is called once before the first tick with the candidates that fit
	// inside the horizon, keyed by entity and ranked.
	Plan(universe map[string][]domain.TradeCandidate, capital decimal.Decimal)

	// Open executes the buys of one day against the book. Positions selling
	// that day have already been closed.
	Open(day time.Time, b *Book)
}

// Registry holds the available allocators indexed by mode.
type Registry map[domain.Mode]func() Allocator

// NewRegistry returns a registry with every built-in mode.
func NewRegistry() Registry {
	r := make(Registry)
	r.Register(domain.ModeAllIn, func() Allocator { return &allIn{} })
	r.Register(domain.ModeEqualSplit, func() Allocator { return &equalSplit{} })
	r.Register(domain.ModeGreedyOneUnit, func() Allocator { return &greedyOneUnit{} })
	r.Register(domain.ModeCompound, func() Allocator { return &compound{} })
	return r
}

// Register adds or replaces the allocator factory of a mode.
func (r Registry) Register(m domain.Mode, build func() Allocator) {
	r[m] = build
}

// Get builds a fresh allocator for the mode.
func (r Registry) Get(m domain.Mode) (Allocator, bool) {
	build, ok := r[m]
	if !ok {
		return nil, false
	}
	return build(), true
}
