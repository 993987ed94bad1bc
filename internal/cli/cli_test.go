package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/warrior/internal/runner"
	"github.com/sadopc/warrior/internal/workout"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv points config, database and logs at a temp dir and makes the
// timer tick every millisecond.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WARRIOR_DB_PATH", filepath.Join(dir, "warrior.db"))
	t.Setenv("WARRIOR_LOG_FILE", "")
	t.Setenv("WARRIOR_LOG_LEVEL", "error")
	t.Setenv("WARRIOR_TICK_INTERVAL", "1ms")
	t.Setenv("WARRIOR_AUDIO_ENABLED", "false")
	return dir
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := execute(t, dir, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

// ============================================================
// schedule
// ============================================================

func TestScheduleDefaults(t *testing.T) {
	dir := testEnv(t)

	out := mustExecute(t, dir, "schedule")
	assert.Contains(t, out, "04:00 work / 01:00 rest × 10, medium jumps")
	assert.Contains(t, out, "Jumps at")
	// Round 1 at the defaults fires at 173, 118 and 80 seconds remaining.
	assert.Contains(t, out, "02:53 01:58 01:20")
}

func TestScheduleOverrides(t *testing.T) {
	dir := testEnv(t)

	out := mustExecute(t, dir, "schedule", "--jump=false")
	assert.Contains(t, out, "jump cues are off")

	out = mustExecute(t, dir, "schedule", "--cycles", "3", "--intensity", "high")
	assert.Contains(t, out, "× 3, high jumps")

	_, err := execute(t, dir, "schedule", "--intensity", "insane")
	require.Error(t, err)
	assert.ErrorIs(t, err, workout.ErrInvalidIntensity)

	_, err = execute(t, dir, "schedule", "--active", "1:75")
	assert.ErrorIs(t, err, workout.ErrInvalidClock)
}

// ============================================================
// settings
// ============================================================

func TestSettingsSetAndShow(t *testing.T) {
	dir := testEnv(t)

	out := mustExecute(t, dir, "settings")
	assert.Contains(t, out, "04:00")

	mustExecute(t, dir, "settings", "set", "--active", "0:45", "--cycles", "8", "--jump=false")
	out = mustExecute(t, dir, "settings")
	assert.Contains(t, out, "00:45")
	assert.Contains(t, out, "8")
	assert.Regexp(t, `Jump cues\s+off`, out)

	out = mustExecute(t, dir, "settings", "set", "--cycles", "99")
	assert.Regexp(t, `Rounds\s+50`, out)

	_, err := execute(t, dir, "settings", "set")
	assert.Error(t, err)

	out = mustExecute(t, dir, "settings", "reset")
	assert.Contains(t, out, "04:00")
	assert.Regexp(t, `Rounds\s+10`, out)
}

// ============================================================
// preset
// ============================================================

func TestPresetLifecycle(t *testing.T) {
	dir := testEnv(t)

	assert.Contains(t, mustExecute(t, dir, "preset"), "No presets yet")

	out := mustExecute(t, dir, "preset", "save", "Tabata", "--active", "20", "--rest", "10", "--cycles", "8")
	assert.Contains(t, out, `Saved preset "Tabata"`)

	// Saving under the same name overwrites.
	mustExecute(t, dir, "preset", "save", "Tabata", "--active", "20", "--rest", "10", "--cycles", "8")
	out = mustExecute(t, dir, "preset", "list")
	assert.Equal(t, 1, strings.Count(out, "Tabata"))
	assert.Contains(t, out, "00:20")

	// Saving a preset does not touch the current settings.
	assert.Contains(t, mustExecute(t, dir, "settings"), "04:00")

	mustExecute(t, dir, "preset", "apply", "tabata")
	out = mustExecute(t, dir, "settings")
	assert.Contains(t, out, "00:20")
	assert.Regexp(t, `Rounds\s+8`, out)

	out = mustExecute(t, dir, "preset", "delete", "Tabata")
	assert.Contains(t, out, `Deleted preset "Tabata"`)

	_, err := execute(t, dir, "preset", "apply", "Tabata")
	assert.Error(t, err)
}

// ============================================================
// run and history
// ============================================================

func TestRunRecordsHistory(t *testing.T) {
	dir := testEnv(t)

	assert.Contains(t, mustExecute(t, dir, "history"), "No workouts yet")

	out := mustExecute(t, dir, "run", "--active", "0:02", "--rest", "0:01", "--cycles", "2")
	assert.Contains(t, out, "00:02 work / 00:01 rest × 2")
	assert.Contains(t, out, "prepare")
	assert.Contains(t, out, "workout complete: 2 rounds")

	// Overrides are for the session only.
	assert.Contains(t, mustExecute(t, dir, "settings"), "04:00")

	out = mustExecute(t, dir, "history")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "00:02/00:01")

	out = mustExecute(t, dir, "history", "export", "--format", "json")
	assert.Contains(t, out, `"completed_rounds": 2`)
	assert.Contains(t, out, `"count": 1`)

	path := filepath.Join(dir, "history.csv")
	mustExecute(t, dir, "history", "export", "-f", "csv", "-o", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID,Completed,Rounds"))

	_, err = execute(t, dir, "history", "export", "--format", "xml")
	assert.Error(t, err)
}

func TestRunSaveAndPreset(t *testing.T) {
	dir := testEnv(t)

	mustExecute(t, dir, "preset", "save", "quick", "--active", "1", "--rest", "1", "--cycles", "1")
	out := mustExecute(t, dir, "run", "--preset", "quick", "--save")
	assert.Contains(t, out, "workout complete: 1 rounds")

	out = mustExecute(t, dir, "settings")
	assert.Contains(t, out, "00:01")
	assert.Regexp(t, `Rounds\s+1`, out)

	_, err := execute(t, dir, "run", "--preset", "missing")
	assert.Error(t, err)
}

func TestRunSessionAbort(t *testing.T) {
	r := runner.New(runner.Config{TickInterval: time.Hour})
	t.Cleanup(r.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, runSession(ctx, r, &out))
	assert.Contains(t, out.String(), "aborted")
	assert.Equal(t, workout.PhaseIdle, r.Snapshot().Phase)
}

func TestStatusLine(t *testing.T) {
	snap := workout.Snapshot{
		Phase:        workout.PhasePaused,
		PausedFrom:   workout.PhaseActive,
		CurrentTime:  125,
		CurrentRound: 2,
		TotalRounds:  10,
		Progress:     47.9,
	}
	line := statusLine(snap)
	assert.Contains(t, line, "active")
	assert.Contains(t, line, "02:05")
	assert.Contains(t, line, "round 3/10")
	assert.Contains(t, line, "48%")
}

// ============================================================
// config
// ============================================================

func TestConfigInit(t *testing.T) {
	dir := testEnv(t)

	out := mustExecute(t, dir, "config")
	assert.Contains(t, out, "tick_interval")

	mustExecute(t, dir, "config", "init")
	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	_, err = execute(t, dir, "config", "init")
	assert.Error(t, err)
	mustExecute(t, dir, "config", "init", "--force")
}

func TestBadConfig(t *testing.T) {
	dir := testEnv(t)
	t.Setenv("WARRIOR_AUDIO_VOLUME", "loud")

	_, err := execute(t, dir, "settings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WARRIOR_AUDIO_VOLUME")
}

// ============================================================
// flags
// ============================================================

func TestSettingsFlagsPatchOnlyChanged(t *testing.T) {
	var f settingsFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--rest", "0:30", "--thirty-second=false"}))

	p, err := f.patch(cmd.Flags())
	require.NoError(t, err)
	assert.Nil(t, p.ActiveTime)
	assert.Nil(t, p.Cycles)
	assert.Nil(t, p.JumpAlert)
	require.NotNil(t, p.RestTime)
	assert.Equal(t, 30, *p.RestTime)
	require.NotNil(t, p.ThirtySecondAlert)
	assert.False(t, *p.ThirtySecondAlert)

	got := workout.DefaultSettings().Apply(p)
	assert.Equal(t, 240, got.ActiveTime)
	assert.Equal(t, 30, got.RestTime)
}
