package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/warrior/internal/workout"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Workouts   []jsonWorkout `json:"workouts"`
}

type jsonWorkout struct {
	ID              string           `json:"id"`
	CompletedAt     string           `json:"completed_at"`
	CompletedRounds int              `json:"completed_rounds"`
	DurationSec     int64            `json:"duration_seconds"`
	Duration        string           `json:"duration"`
	Settings        workout.Settings `json:"settings"`
}

// ToJSON writes history records to a JSON file at path.
func ToJSON(records []workout.HistoryRecord, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	return WriteJSON(f, records)
}

func WriteJSON(w io.Writer, records []workout.HistoryRecord) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
		Workouts:   []jsonWorkout{},
	}

	for _, r := range records {
		secs := int64(r.TotalTime / time.Second)
		export.Workouts = append(export.Workouts, jsonWorkout{
			ID:              r.ID,
			CompletedAt:     r.Date.Local().Format(time.RFC3339),
			CompletedRounds: r.CompletedRounds,
			DurationSec:     secs,
			Duration:        formatDuration(secs),
			Settings:        r.Settings,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
