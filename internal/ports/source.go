package ports

import (
	"iter"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
)

// RowSource supplies the rows of the league exports.
type RowSource interface {
	// CurrencyRows streams validated currency rows. Invalid rows are yielded
	// as errors so the caller can decide whether to stop or skip them.
	CurrencyRows() iter.Seq2[domain.CurrencyRow, error]

	// ItemRows streams validated item rows, with the same error contract.
	ItemRows() iter.Seq2[domain.ItemRow, error]
}
