package clustering

// ColumnRange is the observed min and max of one feature column.
type ColumnRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsSingleValue reports a zero-variance column.
func (r ColumnRange) IsSingleValue() bool {
	return r.Max == r.Min
}

func (r ColumnRange) scale(v float64) float64 {
	if r.IsSingleValue() {
		return 0
	}
	return (v - r.Min) / (r.Max - r.Min)
}

// Scale projects a value that was not part of the fitted data onto the
// range, clamped to [0, 1]. A zero-variance range maps everything to 0.
func (r ColumnRange) Scale(v float64) float64 {
	s := r.scale(v)
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}

// Normalize min-max scales every column of rows to [0, 1] using the min and
// max observed across all rows. A column whose min equals its max becomes all
// zeros. The input is never modified.
func Normalize(rows [][]float64, width int) (Matrix, []ColumnRange, error) {
	if len(rows) == 0 {
		return nil, nil, &ShapeError{Rows: 0, Want: width}
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, nil, &ShapeError{Rows: len(rows), Row: i, Width: len(row), Want: width}
		}
	}

	ranges := make([]ColumnRange, width)
	for j := range width {
		ranges[j] = ColumnRange{Min: rows[0][j], Max: rows[0][j]}
	}
	for _, row := range rows[1:] {
		for j, v := range row {
			if v < ranges[j].Min {
				ranges[j].Min = v
			}
			if v > ranges[j].Max {
				ranges[j].Max = v
			}
		}
	}

	out := make(Matrix, len(rows))
	for i, row := range rows {
		scaled := make([]float64, width)
		for j, v := range row {
			scaled[j] = ranges[j].scale(v)
		}
		out[i] = scaled
	}

	return out, ranges, nil
}
