package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/warrior/internal/workout"
)

func sampleRecords() []workout.HistoryRecord {
	now := time.Now().UTC()
	tabata := workout.Settings{ActiveTime: 20, RestTime: 10, Cycles: 8, JumpIntensity: workout.IntensityHigh}

	return []workout.HistoryRecord{
		{
			ID:              "b7f0c2a4-0001",
			Date:            now,
			Settings:        workout.DefaultSettings(),
			CompletedRounds: 10,
			TotalTime:       49*time.Minute + 50*time.Second,
		},
		{
			ID:              "b7f0c2a4-0002",
			Date:            now.Add(-24 * time.Hour),
			Settings:        tabata,
			CompletedRounds: 8,
			TotalTime:       3*time.Minute + 50*time.Second,
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	if err := ToCSV(sampleRecords(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][8] != "Duration" {
		t.Fatalf("unexpected header %v", rows[0])
	}

	first := rows[1]
	if first[0] != "b7f0c2a4-0001" {
		t.Fatalf("ID = %q", first[0])
	}
	if first[2] != "10" || first[3] != "10" {
		t.Fatalf("rounds/cycles = %q/%q", first[2], first[3])
	}
	if first[4] != "04:00" || first[5] != "01:00" {
		t.Fatalf("active/rest = %q/%q", first[4], first[5])
	}
	if first[6] != "medium" {
		t.Fatalf("intensity = %q", first[6])
	}
	if first[7] != "2990" || first[8] != "00:49:50" {
		t.Fatalf("duration = %q/%q", first[7], first[8])
	}

	if rows[2][4] != "00:20" || rows[2][6] != "high" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	rows, _ := csv.NewReader(&buf).ReadAll()
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	if err := ToJSON(sampleRecords(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Count != 2 || len(result.Workouts) != 2 {
		t.Fatalf("count = %d, workouts = %d, want 2", result.Count, len(result.Workouts))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	w := result.Workouts[1]
	if w.ID != "b7f0c2a4-0002" {
		t.Fatalf("ID = %q", w.ID)
	}
	if w.DurationSec != 230 || w.Duration != "00:03:50" {
		t.Fatalf("duration = %d/%q", w.DurationSec, w.Duration)
	}
	if w.Settings.ActiveTime != 20 || w.Settings.JumpIntensity != workout.IntensityHigh {
		t.Fatalf("settings = %+v", w.Settings)
	}
}

func TestToJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Count != 0 || result.Workouts == nil {
		t.Fatalf("expected empty, non-null workouts, got %+v", result)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
