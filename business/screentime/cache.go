package screentime

import (
	"time"

	"github.com/maypok86/otter/v2"

	"screenBreak/domain"
)

// evaluationCache memoizes evaluations per observation. Results are a pure
// function of the observation while the reference dataset is immutable, so
// a hit is always identical to a recomputation.
type evaluationCache struct {
	cache *otter.Cache[domain.Observation, domain.Evaluation]
}

func newEvaluationCache(size int, ttl time.Duration) *evaluationCache {
	if size <= 0 {
		return nil
	}

	opts := &otter.Options[domain.Observation, domain.Evaluation]{
		MaximumSize: size,
	}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[domain.Observation, domain.Evaluation](ttl)
	}

	return &evaluationCache{cache: otter.Must(opts)}
}

func (c *evaluationCache) Get(obs domain.Observation) (domain.Evaluation, bool) {
	ev, ok := c.cache.GetIfPresent(obs)
	if !ok {
		return domain.Evaluation{}, false
	}
	ev.Centroids = cloneCentroids(ev.Centroids)
	return ev, true
}

func (c *evaluationCache) Set(obs domain.Observation, ev domain.Evaluation) {
	ev.Centroids = cloneCentroids(ev.Centroids)
	c.cache.Set(obs, ev)
}

func cloneCentroids(in [][]float64) [][]float64 {
	out := make([][]float64, len(in))
	for i, row := range in {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
