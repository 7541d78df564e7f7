package clustering

import (
	"math/rand"
	"sort"
)

// Result is the outcome of one clustering run.
type Result struct {
	Labels     []int   `json:"labels"`
	Centroids  Matrix  `json:"centroids"`
	Inertia    float64 `json:"inertia"`
	Iterations int     `json:"iterations"`
}

// KMeans partitions the rows of m into cfg.K groups with Lloyd's algorithm and
// k-means++ seeding. The random source is seeded from cfg.Seed, so identical
// input and config always produce identical output. m is not modified.
//
// With fewer rows than clusters every row becomes its own cluster.
func KMeans(m Matrix, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()

	if m.Rows() == 0 {
		return Result{}, &ShapeError{Rows: 0, Want: m.Cols()}
	}
	width := m.Cols()
	for i, row := range m {
		if len(row) != width {
			return Result{}, &ShapeError{Rows: m.Rows(), Row: i, Width: len(row), Want: width}
		}
	}

	if m.Rows() < cfg.K {
		labels := make([]int, m.Rows())
		for i := range labels {
			labels[i] = i
		}
		return Result{Labels: labels, Centroids: m.Clone()}, nil
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var best Result
	for run := range cfg.NInit {
		res := lloyd(m, initPlusPlus(m, cfg.K, rng), cfg.MaxIter)
		if run == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}

	return best, nil
}

// initPlusPlus picks k starting centroids: the first uniformly, each next one
// with probability proportional to its squared distance from the nearest
// centroid chosen so far.
func initPlusPlus(m Matrix, k int, rng *rand.Rand) Matrix {
	n := m.Rows()
	centroids := make(Matrix, 0, k)
	centroids = append(centroids, append([]float64(nil), m[rng.Intn(n)]...))

	dist := make([]float64, n)
	for i := range n {
		dist[i] = sqDist(m[i], centroids[0])
	}

	for len(centroids) < k {
		total := sum(dist)

		pick := n - 1
		if total == 0 {
			// every point already coincides with a centroid
			pick = rng.Intn(n)
		} else {
			r := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if acc > r {
					pick = i
					break
				}
			}
		}

		c := append([]float64(nil), m[pick]...)
		centroids = append(centroids, c)
		for i := range n {
			if d := sqDist(m[i], c); d < dist[i] {
				dist[i] = d
			}
		}
	}

	return centroids
}

func lloyd(m Matrix, centroids Matrix, maxIter int) Result {
	labels := make([]int, m.Rows())
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	converged := false
	for iter := range maxIter {
		iterations = iter + 1
		if assign(m, centroids, labels) == 0 {
			converged = true
			break
		}
		update(m, labels, centroids)
	}
	if !converged {
		// keep labels consistent with the final centroids
		assign(m, centroids, labels)
	}

	inertia := 0.0
	for i, row := range m {
		inertia += sqDist(row, centroids[labels[i]])
	}

	return Result{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iterations,
	}
}

// assign moves every row to its nearest centroid and returns how many rows
// changed cluster.
func assign(m Matrix, centroids Matrix, labels []int) int {
	changed := 0
	for i, row := range m {
		c := Nearest(centroids, row)
		if labels[i] != c {
			labels[i] = c
			changed++
		}
	}
	return changed
}

// update recomputes each centroid as the mean of its rows. An empty cluster
// keeps its previous centroid.
func update(m Matrix, labels []int, centroids Matrix) {
	k := len(centroids)
	width := m.Cols()

	sums := make(Matrix, k)
	for c := range k {
		sums[c] = make([]float64, width)
	}
	counts := make([]int, k)

	for i, row := range m {
		addTo(sums[labels[i]], row)
		counts[labels[i]]++
	}

	for c := range k {
		if counts[c] == 0 {
			continue
		}
		scale(sums[c], 1/float64(counts[c]))
		centroids[c] = sums[c]
	}
}

// CanonicalizeLabels renumbers clusters so label 0 has the smallest centroid
// value on the given feature column, label 1 the next and so on. Ties fall back
// to the sum of the centroid coordinates, then to the original label. This
// makes label identity independent of the permutation the seeding happened
// to produce.
func CanonicalizeLabels(res Result, feature int) Result {
	k := len(res.Centroids)
	if k == 0 || feature < 0 || feature >= res.Centroids.Cols() {
		return res
	}
	order := make([]int, k)
	for c := range order {
		order[c] = c
	}

	sort.Slice(order, func(a, b int) bool {
		ca, cb := res.Centroids[order[a]], res.Centroids[order[b]]
		if ca[feature] != cb[feature] {
			return ca[feature] < cb[feature]
		}
		if sa, sb := sum(ca), sum(cb); sa != sb {
			return sa < sb
		}
		return order[a] < order[b]
	})

	rank := make([]int, k)
	centroids := make(Matrix, k)
	for newLabel, old := range order {
		rank[old] = newLabel
		centroids[newLabel] = append([]float64(nil), res.Centroids[old]...)
	}

	labels := make([]int, len(res.Labels))
	for i, l := range res.Labels {
		labels[i] = rank[l]
	}

	return Result{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    res.Inertia,
		Iterations: res.Iterations,
	}
}
