package store

import (
	"time"

	"github.com/sadopc/warrior/internal/workout"
)

type Setting struct {
	Key   string
	Value string
}

// Preset is a named settings snapshot.
type Preset struct {
	ID        string
	Name      string
	Settings  workout.Settings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailySummary aggregates completed workouts per day.
type DailySummary struct {
	Date         string
	Workouts     int
	Rounds       int
	TotalSeconds int64
}
