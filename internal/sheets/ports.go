package sheets

import (
	"context"
	"time"

	"fournipay/internal/analytics"
)

// Ports for outbound adapters.
type (
	// RankingWriter replaces the contents of a ranking sheet with the
	// given supplier ranking.
	RankingWriter interface {
		WriteRanking(ctx context.Context, generatedAt time.Time, ranking []analytics.RankedGroup) (ref string, err error)
	}
)
