package csvfile

import (
	"fmt"
	"slices"
	"strings"
)

// Delimiter is the field separator of the league exports. Output tables use ','.
const Delimiter = ';'

// Schema is the expected header of an export.
type Schema struct {
	Name     string
	Columns  []string
	Optional []string // trailing columns that may be absent, in order
}

// CurrencySchema is the header of <league>.currency.csv.
var CurrencySchema = Schema{
	Name:    "currency",
	Columns: []string{"League", "Date", "Get", "Pay", "Value", "Confidence"},
}

// ItemSchema is the header of <league>.items.csv. Newer exports append a Quantity column.
var ItemSchema = Schema{
	Name: "items",
	Columns: []string{
		"League", "Date", "Id", "Type", "Name", "BaseType",
		"Variant", "Links", "Value", "Confidence",
	},
	Optional: []string{"Quantity"},
}

// width checks the header and returns the number of fields every row must have.
// Names are compared exactly, case included.
func (s Schema) width(header []string) (int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for n := 0; n <= len(s.Optional); n++ {
		want := slices.Concat(s.Columns, s.Optional[:n])
		if slices.Equal(header, want) {
			return len(want), nil
		}
	}
	return 0, fmt.Errorf("%s header mismatch: got %q, want %q", s.Name, header, s.Columns)
}

// index returns the position of a column. Columns are fixed once the header is checked.
func (s Schema) index(column string) int {
	if i := slices.Index(s.Columns, column); i >= 0 {
		return i
	}
	if i := slices.Index(s.Optional, column); i >= 0 {
		return len(s.Columns) + i
	}
	return -1
}
