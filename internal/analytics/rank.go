package analytics

import (
	"sort"

	"fournipay/internal/core"
)

// Badge is a presentation-only annotation on ranked entries.
type Badge string

const (
	BadgeNone     Badge = ""
	BadgeLeader   Badge = "leader"
	BadgeRunnerUp Badge = "runner_up"
)

// Metric selects the value groups are ranked by.
type Metric int

const (
	MetricTotal Metric = iota
	MetricCount
)

// RankedGroup is a group summary with its rank position and badge.
type RankedGroup struct {
	core.GroupSummary
	Rank  int
	Badge Badge
}

// Rank orders groups descending by total amount and truncates to limit.
// The dashboard uses limit 10, the printable report limit 5.
func Rank(groups []core.GroupSummary, limit int) []RankedGroup {
	return RankBy(groups, MetricTotal, limit)
}

// RankBy orders groups descending by the chosen metric. Equal values are
// broken by ascending name so the output is reproducible across runs.
// The input slice is not modified.
func RankBy(groups []core.GroupSummary, metric Metric, limit int) []RankedGroup {
	sorted := append([]core.GroupSummary(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := metricValue(sorted[i], metric), metricValue(sorted[j], metric)
		if a != b {
			return a > b
		}
		return sorted[i].Name < sorted[j].Name
	})

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	ranked := make([]RankedGroup, len(sorted))
	for i, g := range sorted {
		ranked[i] = RankedGroup{GroupSummary: g, Rank: i + 1, Badge: badgeFor(i + 1)}
	}
	return ranked
}

func metricValue(g core.GroupSummary, m Metric) int64 {
	if m == MetricCount {
		return int64(g.Count)
	}
	return g.Total.Cents
}

func badgeFor(rank int) Badge {
	switch {
	case rank == 1:
		return BadgeLeader
	case rank <= 3:
		return BadgeRunnerUp
	}
	return BadgeNone
}
