package screentime

import (
	"time"

	"screenBreak/business/clustering"
)

const (
	// ModeRecompute normalizes and clusters reference + observation on every
	// request.
	ModeRecompute = "recompute"
	// ModeFitted clusters the reference set once and projects observations
	// onto the stored centroids.
	ModeFitted = "fitted"
)

// rankFeature is the column used to order clusters from light to heavy use:
// normalized daily screen time.
const rankFeature = 0

type Config struct {
	Clustering clustering.Config
	Mode       string

	// renumber clusters by screen time so the table's low/medium/high
	// convention holds regardless of seeding
	CanonicalLabels bool

	// result cache; 0 disables it
	CacheSize int
	CacheTTL  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Clustering:      clustering.DefaultConfig(),
		Mode:            ModeRecompute,
		CanonicalLabels: true,
		CacheSize:       0,
		CacheTTL:        time.Hour,
	}
}
