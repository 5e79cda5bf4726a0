package ports

import (
	"context"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
)

// Reporter presents a finished run to the user.
type Reporter interface {
	// Report prints the strategy summaries and the top trades.
	// The console implementation renders formatted tables.
	Report(ctx context.Context, result domain.RunResult) error
}
