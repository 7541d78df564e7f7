package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"screenBreak/domain"
	"screenBreak/pkg/logger"
)

const (
	ColumnScreenTime    = "Daily_Screen_Time_Hours"
	ColumnUnlocks       = "Screen_Unlocks_Per_Day"
	ColumnNotifications = "App_Notifications_Received"
)

type ReferenceRepository struct {
	path string
}

func NewReferenceRepository(path string) *ReferenceRepository {
	return &ReferenceRepository{path: path}
}

// LoadReference reads the CSV file, keeps the three usage columns and drops
// every row with a missing, unparsable or negative value in any of them.
func (r *ReferenceRepository) LoadReference(ctx context.Context) (*domain.ReferenceDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open reference dataset: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, dropped, err := ReadReference(f)
	if err != nil {
		return nil, fmt.Errorf("read reference dataset %s: %w", r.path, err)
	}

	logger.Info("reference dataset loaded",
		"path", r.path,
		"rows", len(rows),
		"dropped", dropped,
	)

	return domain.NewReferenceDataset(r.path, rows), nil
}

// ReadReference parses CSV data with a header row. It returns the kept rows
// and how many rows were dropped for missing or out-of-range values.
func ReadReference(in io.Reader) ([]domain.UsageRecord, int, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, errors.New("missing header row")
	}
	if err != nil {
		return nil, 0, err
	}

	idx, err := columnIndexes(header, ColumnScreenTime, ColumnUnlocks, ColumnNotifications)
	if err != nil {
		return nil, 0, err
	}

	var (
		rows    []domain.UsageRecord
		dropped int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		hours, ok1 := parseFloat(field(record, idx[0]))
		unlocks, ok2 := parseCount(field(record, idx[1]))
		notifications, ok3 := parseCount(field(record, idx[2]))
		if !ok1 || !ok2 || !ok3 {
			dropped++
			continue
		}

		rows = append(rows, domain.UsageRecord{
			ScreenTimeHours:     hours,
			UnlocksPerDay:       unlocks,
			NotificationsPerDay: notifications,
		})
	}

	return rows, dropped, nil
}

func columnIndexes(header []string, names ...string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	out := make([]int, len(names))
	for i, name := range names {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		out[i] = p
	}
	return out, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

func parseFloat(s string) (float64, bool) {
	if isMissing(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// parseCount accepts integral values written as floats ("42.0"), which is
// how pandas exports integer columns that once held missing values. Counts
// above MaxInt32 are rejected rather than wrapped.
func parseCount(s string) (int, bool) {
	v, ok := parseFloat(s)
	if !ok || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
