// Package memory provides an in-memory RankingWriter for tests and
// local runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fournipay/internal/analytics"
	ports "fournipay/internal/sheets"
)

type Writer struct {
	mu       sync.Mutex
	writes   int
	Last     []analytics.RankedGroup
	LastTime time.Time
}

var _ ports.RankingWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteRanking(ctx context.Context, generatedAt time.Time, ranking []analytics.RankedGroup) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.writes++
	w.Last = append([]analytics.RankedGroup(nil), ranking...)
	w.LastTime = generatedAt
	return fmt.Sprintf("mem:%d", w.writes), nil
}
