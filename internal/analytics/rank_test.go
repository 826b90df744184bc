package analytics

import (
	"testing"

	"fournipay/internal/core"
)

func rankedKeys(rs []RankedGroup) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Key
	}
	return out
}

func TestRankOrdersByTotalDescending(t *testing.T) {
	groups := []core.GroupSummary{
		{Key: "a", Name: "A", Total: core.Money{Cents: 100}},
		{Key: "b", Name: "B", Total: core.Money{Cents: 300}},
		{Key: "c", Name: "C", Total: core.Money{Cents: 200}},
	}
	got := rankedKeys(Rank(groups, 10))
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRankTieBreaksByName(t *testing.T) {
	groups := []core.GroupSummary{
		{Key: "z", Name: "Zeta", Total: core.Money{Cents: 50000}},
		{Key: "a", Name: "Alpha", Total: core.Money{Cents: 50000}},
	}
	got := Rank(groups, 10)
	if got[0].Name != "Alpha" || got[1].Name != "Zeta" {
		t.Errorf("tie order = [%s %s], want [Alpha Zeta]", got[0].Name, got[1].Name)
	}
}

func TestRankTruncatesAndAnnotates(t *testing.T) {
	var groups []core.GroupSummary
	for i := 0; i < 15; i++ {
		groups = append(groups, core.GroupSummary{
			Key:   string(rune('a' + i)),
			Name:  string(rune('a' + i)),
			Total: core.Money{Cents: int64(1000 * (15 - i))},
		})
	}

	got := Rank(groups, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if got[0].Badge != BadgeLeader {
		t.Errorf("rank 1 badge = %q, want leader", got[0].Badge)
	}
	for _, i := range []int{1, 2} {
		if got[i].Badge != BadgeRunnerUp {
			t.Errorf("rank %d badge = %q, want runner_up", i+1, got[i].Badge)
		}
	}
	for i := 3; i < len(got); i++ {
		if got[i].Badge != BadgeNone {
			t.Errorf("rank %d badge = %q, want none", i+1, got[i].Badge)
		}
		if got[i].Rank != i+1 {
			t.Errorf("rank field = %d, want %d", got[i].Rank, i+1)
		}
	}
}

func TestRankIsIdempotent(t *testing.T) {
	groups := []core.GroupSummary{
		{Key: "a", Name: "Alpha", Total: core.Money{Cents: 200}},
		{Key: "b", Name: "Beta", Total: core.Money{Cents: 200}},
		{Key: "c", Name: "Gamma", Total: core.Money{Cents: 900}},
	}

	first := Rank(groups, 10)

	// Re-rank the already-ranked sequence.
	regrouped := make([]core.GroupSummary, len(first))
	for i, r := range first {
		regrouped[i] = r.GroupSummary
	}
	second := Rank(regrouped, 10)

	for i := range first {
		if first[i].Key != second[i].Key || first[i].Rank != second[i].Rank {
			t.Fatalf("re-ranking changed order at %d: %v vs %v", i, rankedKeys(first), rankedKeys(second))
		}
	}
}

func TestRankEmptyInput(t *testing.T) {
	if got := Rank(nil, 5); len(got) != 0 {
		t.Errorf("expected empty ranking, got %v", got)
	}
}

func TestRankByCount(t *testing.T) {
	groups := []core.GroupSummary{
		{Key: "a", Name: "A", Total: core.Money{Cents: 900}, Count: 1},
		{Key: "b", Name: "B", Total: core.Money{Cents: 100}, Count: 7},
	}
	got := RankBy(groups, MetricCount, 10)
	if got[0].Key != "b" {
		t.Errorf("count ranking should put b first, got %v", rankedKeys(got))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	groups := []core.GroupSummary{
		{Key: "a", Name: "A", Total: core.Money{Cents: 100}},
		{Key: "b", Name: "B", Total: core.Money{Cents: 300}},
	}
	_ = Rank(groups, 10)
	if groups[0].Key != "a" || groups[1].Key != "b" {
		t.Errorf("input slice was reordered: %v", groups)
	}
}
