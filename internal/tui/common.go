package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/warrior/internal/audio"
	"github.com/sadopc/warrior/internal/workout"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewPresets
	viewHistory
	viewSettings
)

var viewNames = []string{"Timer", "Presets", "History", "Settings"}

// --- Messages ---

// snapshotMsg carries the session state published by the runner.
type snapshotMsg workout.Snapshot

type cueMsg audio.Cue

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type settingsChangedMsg struct {
	settings workout.Settings
}

// --- Listeners ---

// waitForSnapshot blocks on the runner subscription. It must be re-issued
// after every snapshotMsg; a closed channel ends the loop.
func waitForSnapshot(ch <-chan workout.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func waitForCue(ch <-chan audio.Cue) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return cueMsg(c)
	}
}

func statusCmd(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, args...)}
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: "Error: " + err.Error(), isError: true}
	}
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatMinutes(secs int64) string {
	return fmt.Sprintf("%.0fm", float64(secs)/60)
}

var cueLabels = map[string]string{
	workout.CueEnd1:         "round bell",
	workout.CueEnd2:         "round bell",
	workout.CueEnd3:         "round bell",
	workout.CueCountdown:    "countdown",
	workout.CueHalfway:      "halfway",
	workout.CueThirtySecond: "30 seconds left",
	workout.CueJump:         "JUMP!",
}

func cueLabel(name string) string {
	if l, ok := cueLabels[name]; ok {
		return l
	}
	return name
}

func secondsDuration(secs int) time.Duration {
	return time.Duration(secs) * time.Second
}
