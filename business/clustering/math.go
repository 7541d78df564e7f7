// business/clustering/math.go
package clustering

// Matrix is a dense row-major matrix, one feature vector per row.
type Matrix [][]float64

func (m Matrix) Rows() int {
	return len(m)
}

func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone deep-copies m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// ||a - b||^2
func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// b := b + x
func addTo(b, x []float64) {
	for i := range x {
		b[i] += x[i]
	}
}

// b := b * s
func scale(b []float64, s float64) {
	for i := range b {
		b[i] *= s
	}
}

func sum(x []float64) float64 {
	total := 0.0
	for _, v := range x {
		total += v
	}
	return total
}

// Nearest returns the index of the centroid closest to p. Ties go to the
// lowest index.
func Nearest(centroids Matrix, p []float64) int {
	best := 0
	bestDist := 0.0
	for c := range centroids {
		d := sqDist(p, centroids[c])
		if c == 0 || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}
