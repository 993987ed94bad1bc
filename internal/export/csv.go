package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/warrior/internal/workout"
)

var csvHeader = []string{
	"ID", "Completed", "Rounds", "Cycles", "Active", "Rest", "Intensity", "Duration (s)", "Duration",
}

// ToCSV writes history records to a CSV file at path.
func ToCSV(records []workout.HistoryRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, records)
}

func WriteCSV(out io.Writer, records []workout.HistoryRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		secs := int64(r.TotalTime / time.Second)
		row := []string{
			r.ID,
			r.Date.Local().Format(time.RFC3339),
			strconv.Itoa(r.CompletedRounds),
			strconv.Itoa(r.Settings.Cycles),
			workout.FormatClock(r.Settings.ActiveTime),
			workout.FormatClock(r.Settings.RestTime),
			string(r.Settings.JumpIntensity),
			strconv.FormatInt(secs, 10),
			formatDuration(secs),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
