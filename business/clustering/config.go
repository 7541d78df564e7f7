package clustering

type Config struct {
	// number of clusters
	K int

	// seed for k-means++ initialisation; same seed, same result
	Seed int64

	// independent initialisations, the lowest inertia run wins
	NInit int

	// upper bound on Lloyd iterations per run
	MaxIter int
}

const (
	defaultK       = 3
	defaultSeed    = 42
	defaultNInit   = 10
	defaultMaxIter = 300
)

func DefaultConfig() Config {
	return Config{
		K:       defaultK,
		Seed:    defaultSeed,
		NInit:   defaultNInit,
		MaxIter: defaultMaxIter,
	}
}

// withDefaults fills zero values so a partially populated Config stays usable.
func (c Config) withDefaults() Config {
	if c.K <= 0 {
		c.K = defaultK
	}
	if c.NInit <= 0 {
		c.NInit = defaultNInit
	}
	if c.MaxIter <= 0 {
		c.MaxIter = defaultMaxIter
	}
	return c
}
