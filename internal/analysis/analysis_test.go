package analysis

import (
	"testing"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func currencyObs(entity, date, price string) domain.Observation {
	return domain.Observation{
		EntityID: entity,
		Kind:     domain.KindCurrency,
		Type:     domain.CurrencyType,
		Date:     day(date),
		Price:    dec(price),
	}
}

func itemObs(entity, typ, date, price string) domain.Observation {
	return domain.Observation{
		EntityID: entity,
		Kind:     domain.KindItem,
		Type:     typ,
		Date:     day(date),
		Price:    dec(price),
	}
}

func chaosScenario() []domain.Observation {
	return []domain.Observation{
		currencyObs("Chaos", "2025-02-20", "1.0"),
		currencyObs("Chaos", "2025-02-22", "0.8"),
		currencyObs("Chaos", "2025-02-25", "1.3"),
	}
}

// --- FilterWindow ---

func TestFilterWindow_InclusiveBounds(t *testing.T) {
	rows := []domain.CurrencyRow{
		{Get: "a", Date: day("2025-02-19")},
		{Get: "b", Date: day("2025-02-20")},
		{Get: "c", Date: day("2025-02-23")},
		{Get: "d", Date: day("2025-02-26")},
		{Get: "e", Date: day("2025-02-27")},
	}
	w := domain.Window{Start: day("2025-02-20"), End: day("2025-02-26")}

	got := FilterWindow(rows, w)

	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Get)
	assert.Equal(t, "c", got[1].Get)
	assert.Equal(t, "d", got[2].Get)
}

func TestFilterWindow_Empty(t *testing.T) {
	rows := []domain.ItemRow{{Name: "x", Date: day("2025-01-01")}}
	w := domain.Window{Start: day("2025-02-20"), End: day("2025-02-26")}

	got := FilterWindow(rows, w)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuotedIn(t *testing.T) {
	rows := []domain.CurrencyRow{
		{Get: "Divine Orb", Pay: "Chaos Orb"},
		{Get: "Chaos Orb", Pay: "Divine Orb"},
	}
	got := QuotedIn(rows, "Chaos Orb")
	require.Len(t, got, 1)
	assert.Equal(t, "Divine Orb", got[0].Get)
}

func TestExcludeTypes(t *testing.T) {
	rows := []domain.ItemRow{{Name: "a", Type: "Map"}, {Name: "b", Type: "UniqueWeapon"}}
	got := ExcludeTypes(rows, []string{"Map"})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)
	assert.Len(t, ExcludeTypes(rows, nil), 2)
}

// --- groupDaily ---

func TestGroupDaily_AveragesSameDay(t *testing.T) {
	obs := []domain.Observation{
		currencyObs("b", "2025-02-21", "3"),
		currencyObs("a", "2025-02-21", "2"),
		currencyObs("a", "2025-02-20", "1"),
		currencyObs("a", "2025-02-21", "4"),
	}

	got := groupDaily(obs)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].entity)
	require.Len(t, got[0].days, 2)
	assert.Equal(t, day("2025-02-20"), got[0].days[0].Date)
	assert.True(t, got[0].days[1].Price.Equal(dec("3")))
	assert.Equal(t, "b", got[1].entity)
}

func TestGroupDaily_SumsListings(t *testing.T) {
	a := itemObs("Ring", "UniqueAccessory", "2025-02-20", "10")
	a.Quantity, a.HasQuantity = 3, true
	b := itemObs("Ring", "UniqueAccessory", "2025-02-20", "12")
	b.Quantity, b.HasQuantity = 2, true

	got := groupDaily([]domain.Observation{a, b})

	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].days[0].Listings)
	assert.True(t, got[0].days[0].HasListings)
	assert.True(t, got[0].days[0].Price.Equal(dec("11")))
}

// --- MovingAverage ---

func TestMovingAverage_CalendarWindow(t *testing.T) {
	obs := []domain.Observation{
		currencyObs("Chaos", "2025-02-20", "1"),
		currencyObs("Chaos", "2025-02-21", "2"),
		currencyObs("Chaos", "2025-02-21", "4"),
		currencyObs("Chaos", "2025-02-24", "6"),
	}

	got, err := MovingAverage(obs, 3)
	require.NoError(t, err)

	points := got["Chaos"]
	require.Len(t, points, 3)
	// 02-20: [1] / 02-21: [1, 3] / 02-24: (02-21, 02-24] only [6]
	assert.True(t, points[0].AvgPrice.Equal(dec("1")))
	assert.True(t, points[1].AvgPrice.Equal(dec("2")))
	assert.True(t, points[2].AvgPrice.Equal(dec("6")))
	assert.Equal(t, day("2025-02-24"), points[2].Date)
}

func TestMovingAverage_BoundedByDailyPrices(t *testing.T) {
	obs := chaosScenario()
	got, err := MovingAverage(obs, 7)
	require.NoError(t, err)

	for _, p := range got["Chaos"] {
		assert.True(t, p.AvgPrice.GreaterThanOrEqual(dec("0.8")))
		assert.True(t, p.AvgPrice.LessThanOrEqual(dec("1.3")))
	}
	// only observed dates are emitted
	assert.Len(t, got["Chaos"], 3)
}

func TestMovingAverage_InvalidWindow(t *testing.T) {
	_, err := MovingAverage(chaosScenario(), 0)
	assert.Error(t, err)
}

// --- FindTrades ---

func TestFindTrades_ChaosScenario(t *testing.T) {
	sets := FindTrades(chaosScenario(), TradeFilter{})

	set, ok := sets["Chaos"]
	require.True(t, ok)
	best, ok := set.Best()
	require.True(t, ok)

	assert.Equal(t, day("2025-02-22"), best.BuyDate)
	assert.Equal(t, day("2025-02-25"), best.SellDate)
	assert.True(t, best.BuyPrice.Equal(dec("0.8")))
	assert.True(t, best.SellPrice.Equal(dec("1.3")))
	assert.True(t, best.Profit.Equal(dec("0.5")))
	assert.True(t, best.ProfitRatio.Equal(dec("0.625")))

	// 02-20 → 02-25 is the only other profitable pair
	assert.Len(t, set.AllProfitable, 2)
}

func TestFindTrades_Invariants(t *testing.T) {
	obs := append(chaosScenario(),
		currencyObs("Divine", "2025-02-20", "150"),
		currencyObs("Divine", "2025-02-21", "160"),
		currencyObs("Divine", "2025-02-22", "155"),
		currencyObs("Divine", "2025-02-23", "170"),
	)

	for _, set := range FindTrades(obs, TradeFilter{}) {
		best, ok := set.Best()
		require.True(t, ok)
		for _, c := range set.AllProfitable {
			assert.True(t, c.Profit.IsPositive())
			assert.True(t, c.SellDate.After(c.BuyDate))
			assert.True(t, best.ProfitRatio.GreaterThanOrEqual(c.ProfitRatio))
		}
	}
}

func TestFindTrades_SingleDayEntityPresent(t *testing.T) {
	sets := FindTrades([]domain.Observation{currencyObs("Exalted", "2025-02-20", "10")}, TradeFilter{})

	set, ok := sets["Exalted"]
	require.True(t, ok)
	_, ok = set.Best()
	assert.False(t, ok)
	assert.Empty(t, set.AllProfitable)
}

func TestFindTrades_SkipsUnbuyableDays(t *testing.T) {
	free := currencyObs("Scrap", "2025-02-20", "0")
	soldOut := itemObs("Ring", "UniqueAccessory", "2025-02-20", "5")
	soldOut.HasQuantity = true
	later := itemObs("Ring", "UniqueAccessory", "2025-02-21", "9")

	sets := FindTrades([]domain.Observation{free, currencyObs("Scrap", "2025-02-21", "1"), soldOut, later}, TradeFilter{})

	assert.Empty(t, sets["Scrap"].AllProfitable)
	assert.Empty(t, sets["Ring"].AllProfitable)
}

func TestFindTrades_MinGainFilters(t *testing.T) {
	obs := chaosScenario()

	sets := FindTrades(obs, TradeFilter{MinGainPct: dec("0.5")})
	require.Len(t, sets["Chaos"].AllProfitable, 1)

	sets = FindTrades(obs, TradeFilter{MinGain: dec("0.5")})
	assert.Empty(t, sets["Chaos"].AllProfitable)
}

func TestFindTrades_TieBreakByBuyDate(t *testing.T) {
	obs := []domain.Observation{
		currencyObs("x", "2025-02-20", "1"),
		currencyObs("x", "2025-02-21", "2"),
		currencyObs("x", "2025-02-22", "1"),
		currencyObs("x", "2025-02-23", "2"),
	}
	set := FindTrades(obs, TradeFilter{})["x"]

	require.GreaterOrEqual(t, len(set.AllProfitable), 2)
	assert.Equal(t, day("2025-02-20"), set.AllProfitable[0].BuyDate)
	assert.Equal(t, day("2025-02-21"), set.AllProfitable[0].SellDate)
	assert.Equal(t, day("2025-02-20"), set.AllProfitable[1].BuyDate)
	assert.Equal(t, day("2025-02-23"), set.AllProfitable[1].SellDate)
}

func TestFindTrades_MaxUnitsFromListings(t *testing.T) {
	buy := itemObs("Ring", "UniqueAccessory", "2025-02-20", "5")
	buy.Quantity, buy.HasQuantity = 4, true
	sell := itemObs("Ring", "UniqueAccessory", "2025-02-22", "8")

	set := FindTrades([]domain.Observation{buy, sell}, TradeFilter{})["Ring"]
	best, ok := set.Best()
	require.True(t, ok)
	assert.Equal(t, 4, best.MaxUnits)
	assert.Equal(t, 2, best.HoldingDays())
}

func TestFindTrades_SameNameDifferentItemIDs(t *testing.T) {
	rows := []domain.ItemRow{
		{ID: 1, Type: "UniqueArmour", Name: "Atziri's Splendour", BaseType: "Sacrificial Garb", Date: day("2025-02-20"), Value: dec("10")},
		{ID: 1, Type: "UniqueArmour", Name: "Atziri's Splendour", BaseType: "Sacrificial Garb", Date: day("2025-02-21"), Value: dec("20")},
		{ID: 2, Type: "UniqueArmour", Name: "Atziri's Splendour", BaseType: "Sacrificial Garb", Date: day("2025-02-20"), Value: dec("100")},
		{ID: 2, Type: "UniqueArmour", Name: "Atziri's Splendour", BaseType: "Sacrificial Garb", Date: day("2025-02-21"), Value: dec("100")},
	}

	sets := FindTrades(ItemObservations(rows), TradeFilter{})

	require.Len(t, sets, 2)
	best, ok := sets[rows[0].EntityID()].Best()
	require.True(t, ok)
	assert.True(t, best.BuyPrice.Equal(dec("10")))
	assert.True(t, best.SellPrice.Equal(dec("20")))
	assert.True(t, best.ProfitRatio.Equal(dec("1")))
	assert.Empty(t, sets[rows[2].EntityID()].AllProfitable)
}

func TestMerge_KindQualifiedIDs(t *testing.T) {
	currency := FindTrades(chaosScenario(), TradeFilter{})
	items := FindTrades([]domain.Observation{
		itemObs("Chaos", "Card", "2025-02-20", "1"),
		itemObs("Chaos", "Card", "2025-02-21", "2"),
	}, TradeFilter{})

	merged := Merge(currency, items)

	require.Len(t, merged, 2)
	set := merged["currency|Chaos"]
	best, ok := set.Best()
	require.True(t, ok)
	assert.Equal(t, "currency|Chaos", best.EntityID)
	assert.Equal(t, domain.KindItem, merged["item|Chaos"].Kind)
	// inputs are left untouched
	assert.Equal(t, "Chaos", currency["Chaos"].AllProfitable[0].EntityID)
}

// --- BestDaily ---

func TestBestDaily(t *testing.T) {
	obs := []domain.Observation{
		currencyObs("a", "2025-02-20", "1"),
		currencyObs("a", "2025-02-21", "2"),
		currencyObs("b", "2025-02-20", "1"),
		currencyObs("b", "2025-02-21", "2"),
		currencyObs("b", "2025-02-22", "1"),
	}
	w := domain.Window{Start: day("2025-02-20"), End: day("2025-02-23")}

	got := BestDaily(obs, w)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].EntityID, "ties go to the lowest entity id")
	assert.True(t, got[0].Factor.Equal(dec("2")))
	assert.Empty(t, got[1].EntityID, "nothing rose on 02-21")
	assert.True(t, got[1].Factor.Equal(dec("1")))
	assert.Empty(t, got[2].EntityID)
}

func TestBestDaily_SingleDayWindow(t *testing.T) {
	w := domain.Window{Start: day("2025-02-20"), End: day("2025-02-20")}
	assert.Empty(t, BestDaily(chaosScenario(), w))
}

func TestBestDaily_CurrencyAndItemWithSameName(t *testing.T) {
	currency := []domain.Observation{
		currencyObs("Mirror Shard", "2025-02-20", "10"),
		currencyObs("Mirror Shard", "2025-02-21", "10"),
	}
	items := []domain.Observation{
		itemObs("Mirror Shard", "Currency", "2025-02-20", "1"),
		itemObs("Mirror Shard", "Currency", "2025-02-21", "2"),
	}
	w := domain.Window{Start: day("2025-02-20"), End: day("2025-02-21")}

	got := BestDaily(Qualify(currency, items), w)

	require.Len(t, got, 1)
	assert.Equal(t, "item|Mirror Shard", got[0].EntityID)
	assert.True(t, got[0].BuyPrice.Equal(dec("1")))
	assert.True(t, got[0].SellPrice.Equal(dec("2")))
	assert.True(t, got[0].Factor.Equal(dec("2")))
}

func TestQualify(t *testing.T) {
	got := Qualify(chaosScenario()[:1], []domain.Observation{itemObs("Chaos", "Card", "2025-02-20", "1")})

	require.Len(t, got, 2)
	assert.Equal(t, "currency|Chaos", got[0].EntityID)
	assert.Equal(t, "item|Chaos", got[1].EntityID)
}

// --- RankTypes ---

func TestRankTypes(t *testing.T) {
	obs := []domain.Observation{
		itemObs("Ring A", "UniqueAccessory", "2025-02-20", "10"),
		itemObs("Ring A", "UniqueAccessory", "2025-02-21", "20"),
		itemObs("Ring B", "UniqueAccessory", "2025-02-20", "10"),
		itemObs("Ring B", "UniqueAccessory", "2025-02-21", "12"),
		itemObs("Map A", "Map", "2025-02-20", "1"),
		itemObs("Map A", "Map", "2025-02-21", "1.5"),
		itemObs("Flat", "Gem", "2025-02-20", "3"),
		itemObs("Flat", "Gem", "2025-02-21", "3"),
	}
	sets := FindTrades(append(obs, chaosScenario()...), TradeFilter{})

	got := RankTypes(sets, 3)

	require.Len(t, got, 2, "currency and flat types are left out")
	assert.Equal(t, "UniqueAccessory", got[0].Type)
	assert.True(t, got[0].AvgProfitRatio.Equal(dec("0.6")))
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "Map", got[1].Type)

	top1 := RankTypes(sets, 1)
	assert.True(t, top1[0].AvgProfitRatio.Equal(dec("1")))
	assert.Equal(t, 1, top1[0].Count)
}
