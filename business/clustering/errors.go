package clustering

import "fmt"

// ShapeError reports a matrix whose dimensions the clustering pipeline cannot
// work with: no rows at all, or a row with the wrong number of columns.
type ShapeError struct {
	Rows  int
	Row   int
	Width int
	Want  int
}

func (e *ShapeError) Error() string {
	if e.Rows == 0 {
		return "shape error: dataset has no rows"
	}
	return fmt.Sprintf("shape error: row %d has %d columns, want %d", e.Row, e.Width, e.Want)
}

func (e *ShapeError) Kind() string {
	return "shape"
}
