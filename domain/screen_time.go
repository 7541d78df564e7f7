package domain

import (
	"errors"
	"math"
)

// CREATE TABLE public.screen_time_usage (
//     id                          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     daily_screen_time_hours     DOUBLE PRECISION,
//     screen_unlocks_per_day      INTEGER,
//     app_notifications_received  INTEGER
// );

// UsageRecord is one row of the reference population.
type UsageRecord struct {
	ScreenTimeHours     float64 `gorm:"column:daily_screen_time_hours" json:"screen_time_hours"`
	UnlocksPerDay       int     `gorm:"column:screen_unlocks_per_day" json:"unlocks_per_day"`
	NotificationsPerDay int     `gorm:"column:app_notifications_received" json:"notifications_per_day"`
}

func (UsageRecord) TableName() string {
	return "screen_time_usage"
}

// Features returns the record as a feature vector in the fixed column order
// screen time, unlocks, notifications.
func (r UsageRecord) Features() []float64 {
	return []float64{r.ScreenTimeHours, float64(r.UnlocksPerDay), float64(r.NotificationsPerDay)}
}

// FeatureCount is the width of every feature vector.
const FeatureCount = 3

var FeatureNames = [FeatureCount]string{"screen_time_hours", "unlocks_per_day", "notifications_per_day"}

// Observation is a single user's input for one evaluation.
type Observation struct {
	ScreenTimeHours float64 `json:"screen_time_hours"`
	Unlocks         int     `json:"unlocks"`
	Notifications   int     `json:"notifications"`
}

var ErrInvalidUsage = errors.New("usage values must be finite and non-negative")

// NewObservation converts screen time from minutes to hours.
func NewObservation(screenTimeMinutes float64, unlocks, notifications int) (Observation, error) {
	obs := Observation{
		ScreenTimeHours: screenTimeMinutes / 60,
		Unlocks:         unlocks,
		Notifications:   notifications,
	}
	if err := obs.Validate(); err != nil {
		return Observation{}, err
	}
	return obs, nil
}

// Validate rejects negative counts and a negative or non-finite screen time.
func (o Observation) Validate() error {
	if o.ScreenTimeHours < 0 || math.IsNaN(o.ScreenTimeHours) || math.IsInf(o.ScreenTimeHours, 0) ||
		o.Unlocks < 0 || o.Notifications < 0 {
		return ErrInvalidUsage
	}
	return nil
}

func (o Observation) Record() UsageRecord {
	return UsageRecord{
		ScreenTimeHours:     o.ScreenTimeHours,
		UnlocksPerDay:       o.Unlocks,
		NotificationsPerDay: o.Notifications,
	}
}

// NormalizedObservation holds the observation after min-max scaling.
type NormalizedObservation struct {
	ScreenTimeHours float64 `json:"screen_time_hours"`
	Unlocks         float64 `json:"unlocks"`
	Notifications   float64 `json:"notifications"`
}

type Evaluation struct {
	ClusterID      int                   `json:"cluster_id"`
	Tier           string                `json:"tier"`
	Recommendation string                `json:"recommendation"`
	Observation    Observation           `json:"observation"`
	Normalized     NormalizedObservation `json:"normalized_observation"`
	Centroids      [][]float64           `json:"centroids"`
	ReferenceRows  int                   `json:"reference_rows"`
	Mode           string                `json:"mode"`
}
