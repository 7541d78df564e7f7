package screentime

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenBreak/business/clustering"
	"screenBreak/domain"
)

func mustObservation(t *testing.T, minutes float64, unlocks, notifications int) domain.Observation {
	t.Helper()
	obs, err := domain.NewObservation(minutes, unlocks, notifications)
	require.NoError(t, err)
	return obs
}

func mustService(t *testing.T, ref *domain.ReferenceDataset, table RecommendationTable, cfg Config) *ScreenTimeService {
	t.Helper()
	svc, err := NewScreenTimeService(ref, table, cfg)
	require.NoError(t, err)
	return svc
}

// populationReference has three usage groups (light, moderate, heavy) with
// perGroup rows each.
func populationReference(perGroup int, seed int64) *domain.ReferenceDataset {
	rng := rand.New(rand.NewSource(seed))
	groups := []domain.UsageRecord{
		{ScreenTimeHours: 1.5, UnlocksPerDay: 25, NotificationsPerDay: 40},
		{ScreenTimeHours: 5, UnlocksPerDay: 80, NotificationsPerDay: 150},
		{ScreenTimeHours: 9.5, UnlocksPerDay: 150, NotificationsPerDay: 290},
	}

	rows := make([]domain.UsageRecord, 0, perGroup*len(groups))
	for _, g := range groups {
		for range perGroup {
			rows = append(rows, domain.UsageRecord{
				ScreenTimeHours:     g.ScreenTimeHours + (rng.Float64()-0.5)*0.8,
				UnlocksPerDay:       g.UnlocksPerDay + rng.Intn(11) - 5,
				NotificationsPerDay: g.NotificationsPerDay + rng.Intn(21) - 10,
			})
		}
	}
	return domain.NewReferenceDataset("population", rows)
}

func TestEvaluate_WorkedExample(t *testing.T) {
	ref := domain.NewReferenceDataset("example", []domain.UsageRecord{
		{ScreenTimeHours: 1, UnlocksPerDay: 10, NotificationsPerDay: 20},
		{ScreenTimeHours: 5, UnlocksPerDay: 80, NotificationsPerDay: 150},
		{ScreenTimeHours: 10, UnlocksPerDay: 150, NotificationsPerDay: 300},
	})
	table := DefaultRecommendationTable()
	svc := mustService(t, ref, table, DefaultConfig())
	obs := mustObservation(t, 120, 50, 90)

	ev, err := svc.Evaluate(context.Background(), obs)
	require.NoError(t, err)

	assert.Equal(t, 2.0, ev.Observation.ScreenTimeHours)
	assert.Equal(t, 50, ev.Observation.Unlocks)
	assert.Equal(t, 90, ev.Observation.Notifications)

	assert.InDelta(t, 0.111, ev.Normalized.ScreenTimeHours, 1e-3)
	assert.InDelta(t, 0.286, ev.Normalized.Unlocks, 1e-3)
	assert.InDelta(t, 0.25, ev.Normalized.Notifications, 1e-3)

	tier, ok := table[ev.ClusterID]
	require.True(t, ok)
	assert.Equal(t, tier.Text, ev.Recommendation)
	assert.Equal(t, tier.Level, ev.Tier)
	assert.Equal(t, 3, ev.ReferenceRows)
	assert.Equal(t, ModeRecompute, ev.Mode)

	for range 3 {
		again, err := svc.Evaluate(context.Background(), obs)
		require.NoError(t, err)
		assert.Equal(t, ev, again)
	}
}

func TestEvaluate_DeterministicAcrossServices(t *testing.T) {
	ref := populationReference(30, 5)
	obs := mustObservation(t, 300, 90, 160)

	a, err := mustService(t, ref, nil, DefaultConfig()).Evaluate(context.Background(), obs)
	require.NoError(t, err)
	b, err := mustService(t, ref, nil, DefaultConfig()).Evaluate(context.Background(), obs)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEvaluate_EmptyReference(t *testing.T) {
	svc := mustService(t, domain.NewReferenceDataset("empty.csv", nil), nil, DefaultConfig())

	_, err := svc.Evaluate(context.Background(), mustObservation(t, 60, 1, 1))
	var emptyErr *EmptyReferenceError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, "empty.csv", emptyErr.Source)
	assert.Equal(t, "empty_reference", ErrorKind(err))
}

func TestEvaluate_SingleReferenceRow(t *testing.T) {
	ref := domain.NewReferenceDataset("one", []domain.UsageRecord{
		{ScreenTimeHours: 5, UnlocksPerDay: 80, NotificationsPerDay: 150},
	})
	svc := mustService(t, ref, nil, DefaultConfig())

	// two rows, each its own cluster; the observation uses less screen time
	ev, err := svc.Evaluate(context.Background(), mustObservation(t, 120, 50, 90))
	require.NoError(t, err)
	assert.Equal(t, 0, ev.ClusterID)
	assert.Equal(t, "low", ev.Tier)

	ev, err = svc.Evaluate(context.Background(), mustObservation(t, 480, 50, 90))
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ClusterID)
	assert.Equal(t, "medium", ev.Tier)
}

func TestEvaluate_LastRowInvariantLargeReference(t *testing.T) {
	ref := populationReference(334, 9)
	require.Equal(t, 1002, ref.Len())
	obs := mustObservation(t, 45, 12, 30)

	ev, err := mustService(t, ref, nil, DefaultConfig()).Evaluate(context.Background(), obs)
	require.NoError(t, err)

	combined := make([][]float64, 0, ref.Len()+1)
	for _, r := range ref.Rows() {
		combined = append(combined, r.Features())
	}
	combined = append(combined, obs.Record().Features())

	m, _, err := clustering.Normalize(combined, domain.FeatureCount)
	require.NoError(t, err)
	res, err := clustering.KMeans(m, clustering.DefaultConfig())
	require.NoError(t, err)
	res = clustering.CanonicalizeLabels(res, 0)

	last := len(combined) - 1
	assert.Equal(t, res.Labels[last], ev.ClusterID)
	assert.Equal(t, m[last][0], ev.Normalized.ScreenTimeHours)
	assert.Equal(t, m[last][1], ev.Normalized.Unlocks)
	assert.Equal(t, m[last][2], ev.Normalized.Notifications)
}

func TestEvaluate_ExtremeObservationsSeparate(t *testing.T) {
	svc := mustService(t, populationReference(50, 21), nil, DefaultConfig())

	low, err := svc.Evaluate(context.Background(), mustObservation(t, 0, 0, 0))
	require.NoError(t, err)
	high, err := svc.Evaluate(context.Background(), mustObservation(t, 600, 500, 1000))
	require.NoError(t, err)

	assert.NotEqual(t, low.ClusterID, high.ClusterID)
	assert.Equal(t, "low", low.Tier)
	assert.Equal(t, "high", high.Tier)
}

func TestEvaluate_ZeroVarianceColumn(t *testing.T) {
	rows := make([]domain.UsageRecord, 0, 12)
	for i := range 12 {
		rows = append(rows, domain.UsageRecord{
			ScreenTimeHours:     float64(i),
			UnlocksPerDay:       10 * i,
			NotificationsPerDay: 40,
		})
	}
	svc := mustService(t, domain.NewReferenceDataset("flat", rows), nil, DefaultConfig())

	ev, err := svc.Evaluate(context.Background(), mustObservation(t, 180, 35, 40))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ev.Normalized.Notifications)
	for _, c := range ev.Centroids {
		assert.Equal(t, 0.0, c[2])
	}
}

func TestNewScreenTimeService_TableMustCoverClusters(t *testing.T) {
	ref := domain.NewReferenceDataset("one", []domain.UsageRecord{
		{ScreenTimeHours: 1, UnlocksPerDay: 10, NotificationsPerDay: 20},
	})

	t.Run("table missing ids", func(t *testing.T) {
		table := RecommendationTable{0: DefaultRecommendationTable()[0]}

		_, err := NewScreenTimeService(ref, table, DefaultConfig())
		var unknown *UnknownClusterError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, 1, unknown.ClusterID)
		assert.Equal(t, "unknown_cluster", ErrorKind(err))
	})

	t.Run("more clusters than the default table", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Clustering.K = 4

		_, err := NewScreenTimeService(ref, nil, cfg)
		var unknown *UnknownClusterError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, 3, unknown.ClusterID)
	})
}

func TestEvaluate_InvalidObservation(t *testing.T) {
	svc := mustService(t, populationReference(5, 1), nil, DefaultConfig())

	cases := map[string]domain.Observation{
		"negative screen time":   {ScreenTimeHours: -1},
		"negative unlocks":       {ScreenTimeHours: 1, Unlocks: -1},
		"negative notifications": {ScreenTimeHours: 1, Notifications: -1},
		"NaN screen time":        {ScreenTimeHours: math.NaN(), Unlocks: 50, Notifications: 90},
		"infinite screen time":   {ScreenTimeHours: math.Inf(1), Unlocks: 50, Notifications: 90},
		"negative infinity":      {ScreenTimeHours: math.Inf(-1), Unlocks: 50, Notifications: 90},
	}
	for name, obs := range cases {
		t.Run(name, func(t *testing.T) {
			ev, err := svc.Evaluate(context.Background(), obs)
			assert.ErrorIs(t, err, domain.ErrInvalidUsage)
			assert.Equal(t, "invalid_observation", ErrorKind(err))
			assert.Equal(t, domain.Evaluation{}, ev)
		})
	}
}

func TestEvaluate_CancelledContext(t *testing.T) {
	svc := mustService(t, populationReference(5, 1), nil, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Evaluate(ctx, mustObservation(t, 60, 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_DoesNotMutateReference(t *testing.T) {
	ref := populationReference(10, 4)
	before := ref.Rows()

	_, err := mustService(t, ref, nil, DefaultConfig()).Evaluate(context.Background(), mustObservation(t, 999, 999, 999))
	require.NoError(t, err)
	assert.Equal(t, before, ref.Rows())
}

func TestEvaluate_FittedMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeFitted
	svc := mustService(t, populationReference(40, 13), nil, cfg)

	low, err := svc.Evaluate(context.Background(), mustObservation(t, 60, 20, 30))
	require.NoError(t, err)
	assert.Equal(t, 0, low.ClusterID)
	assert.Equal(t, ModeFitted, low.Mode)
	assert.Equal(t, 120, low.ReferenceRows)

	high, err := svc.Evaluate(context.Background(), mustObservation(t, 600, 160, 300))
	require.NoError(t, err)
	assert.Equal(t, 2, high.ClusterID)
	// values beyond the fitted range clamp to 1
	assert.Equal(t, 1.0, high.Normalized.ScreenTimeHours)
}

func TestEvaluate_FittedModeEmptyReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeFitted
	svc := mustService(t, domain.NewReferenceDataset("", nil), nil, cfg)

	_, err := svc.Evaluate(context.Background(), mustObservation(t, 60, 1, 1))
	var emptyErr *EmptyReferenceError
	assert.True(t, errors.As(err, &emptyErr))
}

func TestEvaluate_Cache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 16
	svc := mustService(t, populationReference(10, 2), nil, cfg)
	obs := mustObservation(t, 200, 60, 100)

	first, err := svc.Evaluate(context.Background(), obs)
	require.NoError(t, err)
	first.Centroids[0][0] = -42

	hits := testutil.ToFloat64(EvaluationCacheHitsTotal)
	second, err := svc.Evaluate(context.Background(), obs)
	require.NoError(t, err)

	assert.Equal(t, hits+1, testutil.ToFloat64(EvaluationCacheHitsTotal))
	assert.NotEqual(t, -42.0, second.Centroids[0][0])
	assert.Equal(t, first.ClusterID, second.ClusterID)
}

func TestNewScreenTimeService_UnknownMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "online"
	_, err := NewScreenTimeService(populationReference(2, 1), nil, cfg)
	assert.Error(t, err)
}

func TestRecommendationTable(t *testing.T) {
	table := DefaultRecommendationTable()

	tiers := table.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, []string{"low", "medium", "high"}, []string{tiers[0].Level, tiers[1].Level, tiers[2].Level})

	_, err := table.Lookup(3)
	var unknown *UnknownClusterError
	assert.True(t, errors.As(err, &unknown))
	_, missing := table.missing(3)
	assert.False(t, missing)
	id, missing := table.missing(4)
	assert.True(t, missing)
	assert.Equal(t, 3, id)
}
