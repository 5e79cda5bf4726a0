package csvfile

import (
	"iter"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
)

// Source implements ports.RowSource over a pair of export files.
type Source struct {
	currencyPath string
	itemsPath    string
}

// NewSource creates a source reading the given currency and items exports.
func NewSource(currencyPath, itemsPath string) *Source {
	return &Source{currencyPath: currencyPath, itemsPath: itemsPath}
}

// CurrencyRows implements ports.RowSource.
func (s *Source) CurrencyRows() iter.Seq2[domain.CurrencyRow, error] {
	return ReadCurrencyRows(s.currencyPath)
}

// ItemRows implements ports.RowSource.
func (s *Source) ItemRows() iter.Seq2[domain.ItemRow, error] {
	return ReadItemRows(s.itemsPath)
}
