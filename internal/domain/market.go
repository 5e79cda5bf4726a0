package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by the league exports and every output table.
const DateLayout = "2006-01-02"

// Kind separates the two exports. Currency and items live in different files
// but share one trading universe in the strategy simulator.
type Kind string

const (
	KindCurrency Kind = "currency"
	KindItem     Kind = "item"
)

// AssetID qualifies an entity id with its kind. Ids are only unique within
// one export, so anything mixing both kinds keys on the asset id.
func AssetID(kind Kind, entityID string) string {
	return string(kind) + "|" + entityID
}

// CurrencyType is the grouping used for currency entities in type rankings.
const CurrencyType = "Currency"

// Confidence is the price confidence reported by the export for a listing.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ParseConfidence accepts only the three levels the export emits.
func ParseConfidence(s string) (Confidence, error) {
	switch c := Confidence(s); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c, nil
	}
	return "", fmt.Errorf("unknown confidence %q", s)
}

// Links is the socket link category of an item listing. Empty for items without sockets.
type Links string

const (
	LinksNone      Links = ""
	LinksOneToFour Links = "1-4 links"
	LinksFive      Links = "5 links"
	LinksSix       Links = "6 links"
)

// ParseLinks maps an empty cell to LinksNone and rejects unknown categories.
func ParseLinks(s string) (Links, error) {
	switch l := Links(s); l {
	case LinksNone, LinksOneToFour, LinksFive, LinksSix:
		return l, nil
	}
	return "", fmt.Errorf("unknown links category %q", s)
}

// CurrencyRow is one validated line of the currency export.
// Get is the currency being priced, Pay the currency the Value is quoted in.
type CurrencyRow struct {
	League     string
	Date       time.Time
	Get        string
	Pay        string
	Value      decimal.Decimal
	Confidence Confidence
}

// Day returns the calendar date of the listing.
func (r CurrencyRow) Day() time.Time { return r.Date }

// EntityID identifies the traded currency.
func (r CurrencyRow) EntityID() string { return r.Get }

// Observation converts the row to the common analysis shape.
func (r CurrencyRow) Observation() Observation {
	return Observation{
		EntityID: r.EntityID(),
		Kind:     KindCurrency,
		Type:     CurrencyType,
		Date:     r.Date,
		Price:    r.Value,
	}
}

// ItemRow is one validated line of the items export.
type ItemRow struct {
	League     string
	Date       time.Time
	ID         int64
	Type       string
	Name       string
	BaseType   string
	Variant    string // empty when the item has no variant
	Links      Links
	Value      decimal.Decimal
	Confidence Confidence

	// Quantity is the listing count, only present in exports with a Quantity column.
	Quantity    int
	HasQuantity bool
}

// Day returns the calendar date of the listing.
func (r ItemRow) Day() time.Time { return r.Date }

// EntityID identifies the traded item as name#id. Listings that share a
// name but not an export id, and variants or link categories of the same
// item, are priced independently and are distinct entities.
func (r ItemRow) EntityID() string {
	id := r.Name + "#" + strconv.FormatInt(r.ID, 10)
	if r.Variant != "" {
		id += " (" + r.Variant + ")"
	}
	if r.Links != LinksNone {
		id += " [" + string(r.Links) + "]"
	}
	return id
}

// Observation converts the row to the common analysis shape.
func (r ItemRow) Observation() Observation {
	return Observation{
		EntityID:    r.EntityID(),
		Kind:        KindItem,
		Type:        r.Type,
		Date:        r.Date,
		Price:       r.Value,
		Quantity:    r.Quantity,
		HasQuantity: r.HasQuantity,
	}
}

// Observation is a single priced listing of an entity on a day.
// Duplicate observations for the same entity and day are expected.
type Observation struct {
	EntityID    string
	Kind        Kind
	Type        string
	Date        time.Time
	Price       decimal.Decimal
	Quantity    int
	HasQuantity bool
}

// Day returns the calendar date of the observation.
func (o Observation) Day() time.Time { return o.Date }

// Qualified returns a copy whose entity id is the asset id.
func (o Observation) Qualified() Observation {
	o.EntityID = AssetID(o.Kind, o.EntityID)
	return o
}

// DailyPrice is the mean of all observations of an entity on one day.
type DailyPrice struct {
	EntityID    string
	Date        time.Time
	Price       decimal.Decimal
	Listings    int  // summed quantity of the day's observations
	HasListings bool // at least one observation reported a quantity
}

// AveragePoint is one moving-average value for an entity.
type AveragePoint struct {
	EntityID string
	Date     time.Time
	AvgPrice decimal.Decimal
}
