package memory

import (
	"context"
	"testing"
	"time"

	"fournipay/internal/analytics"
	"fournipay/internal/core"
)

func TestWriteRanking(t *testing.T) {
	w := New()
	ranking := []analytics.RankedGroup{
		{GroupSummary: core.GroupSummary{Key: "s1", Name: "A", Total: core.Money{Cents: 100}}, Rank: 1},
	}

	ref, err := w.WriteRanking(context.Background(), time.Now(), ranking)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q", ref)
	}
	if len(w.Last) != 1 || w.Last[0].Name != "A" {
		t.Errorf("stored ranking = %+v", w.Last)
	}

	ref2, _ := w.WriteRanking(context.Background(), time.Now(), nil)
	if ref2 != "mem:2" {
		t.Errorf("second ref = %q", ref2)
	}
	if len(w.Last) != 0 {
		t.Errorf("second write should replace the first")
	}
}

func TestWriteRankingCancelled(t *testing.T) {
	w := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.WriteRanking(ctx, time.Now(), nil); err == nil {
		t.Error("cancelled context should fail")
	}
}
