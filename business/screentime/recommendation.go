package screentime

import (
	"context"
	"sort"

	"screenBreak/domain"
)

// RecommendationRepository returns stored overrides for the break texts.
type RecommendationRepository interface {
	ListTiers(ctx context.Context) ([]domain.RecommendationTier, error)
}

// RecommendationTable maps a cluster id to its break schedule.
type RecommendationTable map[int]domain.RecommendationTier

// DefaultRecommendationTable assumes canonical labels: 0 is the lightest
// usage cluster and 2 the heaviest.
func DefaultRecommendationTable() RecommendationTable {
	return RecommendationTable{
		0: {
			ClusterID: 0,
			Level:     "low",
			Text:      "Low usage. Take a break every 60-90 minutes to keep your focus and protect your eyes.",
		},
		1: {
			ClusterID: 1,
			Level:     "medium",
			Text:      "Moderate usage. A break every 40-60 minutes is recommended to prevent fatigue.",
		},
		2: {
			ClusterID: 2,
			Level:     "high",
			Text:      "High usage. Take a micro-break every 20-30 minutes to prevent eye strain and neck tension.",
		},
	}
}

func (t RecommendationTable) Lookup(clusterID int) (domain.RecommendationTier, error) {
	tier, ok := t[clusterID]
	if !ok {
		return domain.RecommendationTier{}, &UnknownClusterError{ClusterID: clusterID}
	}
	return tier, nil
}

// Tiers returns the entries ordered by cluster id.
func (t RecommendationTable) Tiers() []domain.RecommendationTier {
	out := make([]domain.RecommendationTier, 0, len(t))
	for _, tier := range t {
		out = append(out, tier)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClusterID < out[j].ClusterID })
	return out
}

// missing returns the lowest id in [0, k) without an entry.
func (t RecommendationTable) missing(k int) (int, bool) {
	for id := range k {
		if _, ok := t[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
