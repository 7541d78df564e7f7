package domain

// ReferenceDataset is the cleaned reference population. It is built once and
// never mutated afterwards, so a single value can be shared by concurrent
// evaluations without locking.
type ReferenceDataset struct {
	rows   []UsageRecord
	source string
}

// NewReferenceDataset copies rows so later changes to the caller's slice do
// not leak into the dataset.
func NewReferenceDataset(source string, rows []UsageRecord) *ReferenceDataset {
	cp := make([]UsageRecord, len(rows))
	copy(cp, rows)
	return &ReferenceDataset{rows: cp, source: source}
}

func (d *ReferenceDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

func (d *ReferenceDataset) At(i int) UsageRecord {
	return d.rows[i]
}

func (d *ReferenceDataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// Rows returns a copy of the records.
func (d *ReferenceDataset) Rows() []UsageRecord {
	if d == nil {
		return nil
	}
	cp := make([]UsageRecord, len(d.rows))
	copy(cp, d.rows)
	return cp
}

type ColumnSummary struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

type ReferenceSummary struct {
	Source  string          `json:"source"`
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}

func (d *ReferenceDataset) Summary() ReferenceSummary {
	out := ReferenceSummary{
		Source:  d.Source(),
		Rows:    d.Len(),
		Columns: make([]ColumnSummary, FeatureCount),
	}
	for j := range FeatureCount {
		out.Columns[j].Name = FeatureNames[j]
	}
	if d.Len() == 0 {
		return out
	}

	for i, r := range d.rows {
		for j, v := range r.Features() {
			col := &out.Columns[j]
			if i == 0 || v < col.Min {
				col.Min = v
			}
			if i == 0 || v > col.Max {
				col.Max = v
			}
			col.Mean += v
		}
	}
	for j := range out.Columns {
		out.Columns[j].Mean /= float64(len(d.rows))
	}

	return out
}
