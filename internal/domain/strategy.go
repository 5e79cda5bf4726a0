package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mode is a capital allocation policy of the strategy simulator.
type Mode string

const (
	// ModeAllIn puts all capital into the single best trade.
	ModeAllIn Mode = "all_in"
	// ModeEqualSplit splits capital evenly across entities with a profitable trade.
	ModeEqualSplit Mode = "equal_split"
	// ModeGreedyOneUnit buys whole units of the best opportunities of each day.
	ModeGreedyOneUnit Mode = "greedy_one_unit"
	// ModeCompound chains trades to maximise capital at the end of the horizon.
	ModeCompound Mode = "compound"
)

// AllModes lists every mode in output order.
var AllModes = []Mode{ModeAllIn, ModeEqualSplit, ModeGreedyOneUnit, ModeCompound}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range AllModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown strategy mode %q", s)
}

// LedgerEntry is one event of a simulation day.
//
// A buy carries the allocated capital and units bought, a sell carries the
// realized profit with both allocation and units back at zero. Days without
// any event get a single entry with an empty EntityID. RunningCapital is the
// uninvested cash after the entry.
type LedgerEntry struct {
	Date             time.Time
	EntityID         string
	CapitalAllocated decimal.Decimal
	UnitsHeld        decimal.Decimal
	RealizedProfit   decimal.Decimal
	RunningCapital   decimal.Decimal
}

// StrategySummary is the outcome of one simulated mode.
type StrategySummary struct {
	Mode            Mode
	StartingCapital decimal.Decimal
	FinalCapital    decimal.Decimal
	TotalProfit     decimal.Decimal
	NumTrades       int
}

// ReturnPct is TotalProfit relative to the starting capital.
func (s StrategySummary) ReturnPct() decimal.Decimal {
	if !s.StartingCapital.IsPositive() {
		return decimal.Zero
	}
	return s.TotalProfit.Div(s.StartingCapital)
}

// StrategyLedger is the day-by-day record of one mode plus its summary.
type StrategyLedger struct {
	Mode    Mode
	Entries []LedgerEntry
	Summary StrategySummary
}

// DailyChoice is the entity with the best next-day price factor on a day.
// EntityID is empty when nothing rose, in which case Factor is one.
type DailyChoice struct {
	Date      time.Time
	EntityID  string
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Factor    decimal.Decimal
}

// TypeScore ranks an item type by the average profit ratio of its top trades.
type TypeScore struct {
	Type           string
	AvgProfitRatio decimal.Decimal
	Count          int
}

// RunResult bundles every table produced by one analysis run.
type RunResult struct {
	RunID  uuid.UUID
	League string
	Window Window

	CurrencyRows []CurrencyRow
	ItemRows     []ItemRow

	CurrencyAverages map[string][]AveragePoint
	ItemAverages     map[string][]AveragePoint

	CurrencyTrades map[string]TradeSet
	ItemTrades     map[string]TradeSet

	BestDaily   []DailyChoice
	TypeRanking []TypeScore
	Strategies  []StrategyLedger
}
