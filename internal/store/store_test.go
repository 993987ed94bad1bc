package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sadopc/warrior/internal/workout"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// record builds a completed workout finished at the given time.
func record(id string, at time.Time, rounds int, total time.Duration) workout.HistoryRecord {
	s := workout.DefaultSettings()
	s.Cycles = rounds
	return workout.HistoryRecord{
		ID:              id,
		Date:            at,
		Settings:        s,
		CompletedRounds: rounds,
		TotalTime:       total,
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/warrior.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSettings(workout.DefaultSettings()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations do not run twice.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, ok, err := s2.LoadSettings(); err != nil || !ok {
		t.Fatalf("expected saved settings after reopen, ok=%v err=%v", ok, err)
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestLoadSettingsAbsent(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("fresh store should report no settings record")
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	s := newTestStore(t)
	want := workout.Settings{
		ActiveTime:        45,
		RestTime:          15,
		Cycles:            8,
		ThirtySecondAlert: false,
		JumpAlert:         true,
		JumpIntensity:     workout.IntensityHigh,
	}
	if err := s.SaveSettings(want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.LoadSettings()
	if err != nil || !ok {
		t.Fatalf("load settings: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSaveSettingsOverwrite(t *testing.T) {
	s := newTestStore(t)
	first := workout.DefaultSettings()
	s.SaveSettings(first)

	second := first
	second.Cycles = 3
	if err := s.SaveSettings(second); err != nil {
		t.Fatal(err)
	}
	got, _, _ := s.LoadSettings()
	if got.Cycles != 3 {
		t.Fatalf("expected cycles 3, got %d", got.Cycles)
	}
}

func TestLoadSettingsPartialRecord(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(KeyActiveTime, "90")

	got, ok, err := s.LoadSettings()
	if err != nil || !ok {
		t.Fatalf("load settings: ok=%v err=%v", ok, err)
	}
	want := workout.DefaultSettings()
	want.ActiveTime = 90
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadSettingsClampsStoredValues(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(KeyActiveTime, "0")
	s.SetSetting(KeyCycles, "500")

	got, _, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.ActiveTime != 1 || got.Cycles != workout.MaxCycles {
		t.Fatalf("expected clamped values, got %+v", got)
	}
}

func TestLoadSettingsCorrupt(t *testing.T) {
	for key, value := range map[string]string{
		KeyRestTime:      "soon",
		KeyJumpAlert:     "maybe",
		KeyJumpIntensity: "ludicrous",
	} {
		s := newTestStore(t)
		s.SetSetting(KeyActiveTime, "60")
		s.SetSetting(key, value)
		if _, _, err := s.LoadSettings(); err == nil {
			t.Fatalf("expected error for %s=%q", key, value)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetAllSettingsSorted(t *testing.T) {
	s := newTestStore(t)
	s.SaveSettings(workout.DefaultSettings())

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

// ============================================================
// History
// ============================================================

func TestAppendAndListHistory(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)

	if err := s.AppendHistory(record("a", at, 10, 49*time.Minute+50*time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendHistory(record("b", at.Add(time.Hour), 3, 15*time.Minute)); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListHistory(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}
	a := got[1]
	if !a.Date.Equal(at) {
		t.Fatalf("expected date %v, got %v", at, a.Date)
	}
	if a.TotalTime != 49*time.Minute+50*time.Second {
		t.Fatalf("unexpected total time %v", a.TotalTime)
	}
	if a.CompletedRounds != 10 || a.Settings.Cycles != 10 || a.Settings.JumpIntensity != workout.IntensityMedium {
		t.Fatalf("unexpected record %+v", a)
	}
}

func TestListHistoryLimit(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		s.AppendHistory(record(fmt.Sprintf("r%d", i), now, 1, time.Minute))
	}
	got, _ := s.ListHistory(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "r4" {
		t.Fatalf("expected r4 first, got %s", got[0].ID)
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	for i := 0; i < HistoryCap+5; i++ {
		if err := s.AppendHistory(record(fmt.Sprintf("r%02d", i), now, 1, time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListHistory(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != HistoryCap {
		t.Fatalf("expected %d records, got %d", HistoryCap, len(got))
	}
	if got[0].ID != "r54" {
		t.Fatalf("expected newest r54, got %s", got[0].ID)
	}
	if got[len(got)-1].ID != "r05" {
		t.Fatalf("expected oldest kept r05, got %s", got[len(got)-1].ID)
	}
}

func TestAppendHistoryDuplicateID(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.AppendHistory(record("same", now, 1, time.Minute))
	if err := s.AppendHistory(record("same", now, 1, time.Minute)); err == nil {
		t.Fatal("expected error for duplicate id")
	}
	got, _ := s.ListHistory(0)
	if len(got) != 1 {
		t.Fatalf("failed insert must not change history, got %d records", len(got))
	}
}

func TestGetDailySummary(t *testing.T) {
	s := newTestStore(t)
	day1 := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	s.AppendHistory(record("a", day1, 10, 50*time.Minute))
	s.AppendHistory(record("b", day1.Add(2*time.Hour), 4, 20*time.Minute))
	s.AppendHistory(record("c", day2, 6, 30*time.Minute))
	s.AppendHistory(record("d", day2.AddDate(0, 0, 5), 6, 30*time.Minute))

	got, err := s.GetDailySummary(day1.Truncate(24*time.Hour), day2.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got))
	}
	if got[0].Date != "2026-05-01" || got[0].Workouts != 2 || got[0].Rounds != 14 || got[0].TotalSeconds != 4200 {
		t.Fatalf("unexpected first day %+v", got[0])
	}
	if got[1].Date != "2026-05-02" || got[1].Workouts != 1 || got[1].TotalSeconds != 1800 {
		t.Fatalf("unexpected second day %+v", got[1])
	}
}

func TestGetDailySummaryEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetDailySummary(time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}

// ============================================================
// Presets
// ============================================================

func TestSaveAndGetPreset(t *testing.T) {
	s := newTestStore(t)
	settings := workout.Settings{ActiveTime: 20, RestTime: 10, Cycles: 8, JumpIntensity: workout.IntensityLow}

	p, err := s.SavePreset(Preset{Name: "  Tabata ", Settings: settings})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}
	if p.Name != "Tabata" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.Settings != settings {
		t.Fatalf("expected %+v, got %+v", settings, p.Settings)
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected created_at")
	}

	got, err := s.GetPreset(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Tabata" {
		t.Fatalf("expected Tabata, got %s", got.Name)
	}
}

func TestSavePresetUpdatesByID(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.SavePreset(Preset{Name: "Long", Settings: workout.DefaultSettings()})

	p.Name = "Longer"
	p.Settings.Cycles = 12
	updated, err := s.SavePreset(*p)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != p.ID || updated.Name != "Longer" || updated.Settings.Cycles != 12 {
		t.Fatalf("unexpected update %+v", updated)
	}

	all, _ := s.ListPresets()
	if len(all) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(all))
	}
}

func TestSavePresetNormalizes(t *testing.T) {
	s := newTestStore(t)
	p, err := s.SavePreset(Preset{Name: "Broken", Settings: workout.Settings{Cycles: 99}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Settings.Cycles != workout.MaxCycles || p.Settings.ActiveTime != 1 || p.Settings.JumpIntensity != workout.IntensityMedium {
		t.Fatalf("expected normalized settings, got %+v", p.Settings)
	}
}

func TestSavePresetValidation(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SavePreset(Preset{Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}

	s.SavePreset(Preset{Name: "Dup", Settings: workout.DefaultSettings()})
	if _, err := s.SavePreset(Preset{Name: "Dup", Settings: workout.DefaultSettings()}); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestListPresetsSortedByName(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"charlie", "Alpha", "bravo"} {
		s.SavePreset(Preset{Name: name, Settings: workout.DefaultSettings()})
	}
	all, err := s.ListPresets()
	if err != nil {
		t.Fatal(err)
	}
	names := []string{all[0].Name, all[1].Name, all[2].Name}
	if names[0] != "Alpha" || names[1] != "bravo" || names[2] != "charlie" {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestFindPreset(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.SavePreset(Preset{Name: "Tabata", Settings: workout.DefaultSettings()})

	byID, err := s.FindPreset(p.ID)
	if err != nil || byID.ID != p.ID {
		t.Fatalf("find by id: %v", err)
	}
	byName, err := s.FindPreset("tabata")
	if err != nil || byName.ID != p.ID {
		t.Fatalf("find by name: %v", err)
	}
	if _, err := s.FindPreset("nope"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestDeletePreset(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.SavePreset(Preset{Name: "Gone", Settings: workout.DefaultSettings()})

	if err := s.DeletePreset(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPreset(p.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound, got %v", err)
	}
	if err := s.DeletePreset(p.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound on second delete, got %v", err)
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}
