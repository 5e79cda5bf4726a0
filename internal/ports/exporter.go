package ports

import (
	"context"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
)

// Exporter persists the tables of a finished run.
type Exporter interface {
	// Export writes every table of the run. Previous output of the same
	// destination is replaced, so repeated runs on the same input are idempotent.
	Export(ctx context.Context, result domain.RunResult) error
}
