package screentime

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"screenBreak/business/clustering"
	"screenBreak/domain"
	"screenBreak/pkg/logger"
)

// fittedModel is the reference-only clustering kept by ModeFitted.
type fittedModel struct {
	ranges    []clustering.ColumnRange
	centroids clustering.Matrix
}

type ScreenTimeService struct {
	ref   *domain.ReferenceDataset
	table RecommendationTable
	cfg   Config
	cache *evaluationCache
	model *fittedModel
}

// NewScreenTimeService wires the shared reference dataset into the evaluator.
// The dataset is only ever read. In ModeFitted the reference set is clustered
// here, once.
func NewScreenTimeService(
	ref *domain.ReferenceDataset,
	table RecommendationTable,
	cfg Config,
) (*ScreenTimeService, error) {
	if table == nil {
		table = DefaultRecommendationTable()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeRecompute
	}
	if cfg.Mode != ModeRecompute && cfg.Mode != ModeFitted {
		return nil, fmt.Errorf("unknown evaluation mode %q", cfg.Mode)
	}

	s := &ScreenTimeService{
		ref:   ref,
		table: table,
		cfg:   cfg,
		cache: newEvaluationCache(cfg.CacheSize, cfg.CacheTTL),
	}

	k := cfg.Clustering.K
	if k <= 0 {
		k = clustering.DefaultConfig().K
	}
	if id, ok := table.missing(k); ok {
		return nil, fmt.Errorf("recommendation table covers %d of %d clusters: %w",
			len(table), k, &UnknownClusterError{ClusterID: id})
	}

	if cfg.Mode == ModeFitted && ref.Len() > 0 {
		model, err := s.fit()
		if err != nil {
			return nil, fmt.Errorf("fit reference clustering: %w", err)
		}
		s.model = model
	}

	logger.Info("screen time evaluator ready",
		"mode", cfg.Mode,
		"reference_rows", ref.Len(),
		"reference_source", ref.Source(),
		"clusters", k,
		"seed", cfg.Clustering.Seed,
		"canonical_labels", cfg.CanonicalLabels,
		"cache_size", cfg.CacheSize,
	)

	return s, nil
}

// Evaluate assigns obs to a usage cluster and returns the matching break
// recommendation.
func (s *ScreenTimeService) Evaluate(ctx context.Context, obs domain.Observation) (domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Evaluation{}, fmt.Errorf("context error: %w", err)
	}
	tid := TraceIDFromContext(ctx)

	if err := obs.Validate(); err != nil {
		EvaluationErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
		return domain.Evaluation{}, err
	}

	if s.cache != nil {
		if ev, ok := s.cache.Get(obs); ok {
			EvaluationCacheHitsTotal.Inc()
			logger.Debug("screentime_evaluate_cache_hit", "trace_id", tid, "cluster_id", ev.ClusterID)
			return ev, nil
		}
	}

	start := time.Now()

	var (
		ev  domain.Evaluation
		err error
	)
	switch s.cfg.Mode {
	case ModeFitted:
		ev, err = s.evaluateFitted(obs)
	default:
		ev, err = s.evaluateRecompute(obs)
	}
	if err != nil {
		kind := ErrorKind(err)
		EvaluationErrorsTotal.WithLabelValues(kind).Inc()
		logger.Error("screentime_evaluate_failed",
			"trace_id", tid,
			"kind", kind,
			"error", err,
		)
		return domain.Evaluation{}, err
	}

	EvaluationsTotal.WithLabelValues(strconv.Itoa(ev.ClusterID), ev.Mode).Inc()
	logger.Debug("screentime_evaluate",
		"trace_id", tid,
		"mode", ev.Mode,
		"reference_rows", ev.ReferenceRows,
		"screen_time_hours", obs.ScreenTimeHours,
		"unlocks", obs.Unlocks,
		"notifications", obs.Notifications,
		"cluster_id", ev.ClusterID,
		"tier", ev.Tier,
		"elapsed", time.Since(start),
	)

	if s.cache != nil {
		s.cache.Set(obs, ev)
	}

	return ev, nil
}

// evaluateRecompute clusters reference rows plus the observation from
// scratch. The observation is always the last row; its label is read from
// index N-1 and nothing in between may reorder rows.
func (s *ScreenTimeService) evaluateRecompute(obs domain.Observation) (domain.Evaluation, error) {
	n := s.ref.Len()
	if n == 0 {
		return domain.Evaluation{}, &EmptyReferenceError{Source: s.ref.Source()}
	}

	combined := make([][]float64, 0, n+1)
	for i := range n {
		combined = append(combined, s.ref.At(i).Features())
	}
	combined = append(combined, obs.Record().Features())
	last := len(combined) - 1

	normalized, _, err := clustering.Normalize(combined, domain.FeatureCount)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("normalize: %w", err)
	}

	res, err := clustering.KMeans(normalized, s.cfg.Clustering)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("cluster: %w", err)
	}
	if s.cfg.CanonicalLabels {
		res = clustering.CanonicalizeLabels(res, rankFeature)
	}

	return s.buildEvaluation(obs, normalized[last], res.Labels[last], res.Centroids, n, ModeRecompute)
}

// evaluateFitted projects obs onto the reference-only clustering with the
// stored column ranges, without touching the other rows.
func (s *ScreenTimeService) evaluateFitted(obs domain.Observation) (domain.Evaluation, error) {
	if s.model == nil {
		return domain.Evaluation{}, &EmptyReferenceError{Source: s.ref.Source()}
	}

	features := obs.Record().Features()
	point := make([]float64, len(features))
	for j, v := range features {
		point[j] = s.model.ranges[j].Scale(v)
	}

	clusterID := clustering.Nearest(s.model.centroids, point)
	return s.buildEvaluation(obs, point, clusterID, s.model.centroids, s.ref.Len(), ModeFitted)
}

func (s *ScreenTimeService) fit() (*fittedModel, error) {
	rows := make([][]float64, 0, s.ref.Len())
	for i := range s.ref.Len() {
		rows = append(rows, s.ref.At(i).Features())
	}

	normalized, ranges, err := clustering.Normalize(rows, domain.FeatureCount)
	if err != nil {
		return nil, err
	}
	res, err := clustering.KMeans(normalized, s.cfg.Clustering)
	if err != nil {
		return nil, err
	}
	if s.cfg.CanonicalLabels {
		res = clustering.CanonicalizeLabels(res, rankFeature)
	}

	return &fittedModel{ranges: ranges, centroids: res.Centroids}, nil
}

func (s *ScreenTimeService) buildEvaluation(
	obs domain.Observation,
	normalized []float64,
	clusterID int,
	centroids clustering.Matrix,
	referenceRows int,
	mode string,
) (domain.Evaluation, error) {
	tier, err := s.table.Lookup(clusterID)
	if err != nil {
		return domain.Evaluation{}, err
	}

	return domain.Evaluation{
		ClusterID:      clusterID,
		Tier:           tier.Level,
		Recommendation: tier.Text,
		Observation:    obs,
		Normalized: domain.NormalizedObservation{
			ScreenTimeHours: normalized[0],
			Unlocks:         normalized[1],
			Notifications:   normalized[2],
		},
		Centroids:     cloneCentroids(centroids),
		ReferenceRows: referenceRows,
		Mode:          mode,
	}, nil
}

func (s *ScreenTimeService) Tiers() []domain.RecommendationTier {
	return s.table.Tiers()
}

func (s *ScreenTimeService) ReferenceSummary() domain.ReferenceSummary {
	return s.ref.Summary()
}
