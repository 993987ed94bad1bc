package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/warrior/internal/runner"
	"github.com/sadopc/warrior/internal/workout"
)

// cueFlash is how long a played cue stays on screen.
const cueFlash = 2 * time.Second

// timerModel renders the live session and forwards controls to the runner.
type timerModel struct {
	runner *runner.Runner
	width  int
	height int

	snap     workout.Snapshot
	schedule workout.Schedule

	lastCue   string
	lastCueAt time.Time
	now       func() time.Time
}

func newTimerModel(r *runner.Runner) timerModel {
	return timerModel{
		runner:   r,
		snap:     r.Snapshot(),
		schedule: r.Schedule(),
		now:      time.Now,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerModel) running() bool { return t.snap.Phase.Running() }
func (t timerModel) paused() bool  { return t.snap.Phase == workout.PhasePaused }

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		prev := t.snap.Phase
		t.snap = workout.Snapshot(msg)
		if prev != t.snap.Phase && t.snap.Phase == workout.PhasePrepare {
			t.schedule = t.runner.Schedule()
		}
		if prev != t.snap.Phase && t.snap.Phase == workout.PhaseCompleted {
			return t, statusCmd("Workout complete: %d rounds", t.snap.TotalRounds)
		}
		return t, nil

	case cueMsg:
		t.lastCue = msg.Name
		t.lastCueAt = msg.At
		return t, nil

	case settingsChangedMsg:
		t.snap = t.runner.Snapshot()
		if t.snap.Phase.Startable() {
			t.schedule = t.runner.Schedule()
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			return t.start()
		case key.Matches(msg, keys.Pause):
			if t.running() {
				t.runner.Pause()
				t.snap = t.runner.Snapshot()
				return t, nil
			}
			return t.start()
		case key.Matches(msg, keys.Reset):
			if t.snap.Phase != workout.PhaseIdle {
				t.runner.Reset()
				t.snap = t.runner.Snapshot()
				t.schedule = t.runner.Schedule()
				return t, statusCmd("Workout reset")
			}
		}
	}
	return t, nil
}

func (t timerModel) start() (timerModel, tea.Cmd) {
	if !t.runner.Start() {
		return t, nil
	}
	t.snap = t.runner.Snapshot()
	t.schedule = t.runner.Schedule()
	return t, nil
}

// nextJump returns the seconds until the next jump cue in the current
// active phase, or -1 when none is left.
func (t timerModel) nextJump() int {
	if t.snap.Phase != workout.PhaseActive || !t.snap.Settings.JumpAlert {
		return -1
	}
	for _, at := range t.schedule.Round(t.snap.CurrentRound + 1) {
		if at <= t.snap.CurrentTime {
			return t.snap.CurrentTime - at
		}
	}
	return -1
}

func (t timerModel) phaseLabel() string {
	switch t.snap.Phase {
	case workout.PhaseIdle:
		return "READY"
	case workout.PhasePaused:
		return "PAUSED (" + strings.ToUpper(t.snap.PausedFrom.String()) + ")"
	case workout.PhaseCompleted:
		return "WORKOUT COMPLETE"
	}
	return strings.ToUpper(t.snap.Phase.String())
}

func (t timerModel) view() string {
	w := t.width - 4
	inner := max(w-6, 10)

	clock := workout.FormatClock(t.snap.CurrentTime)
	switch t.snap.Phase {
	case workout.PhaseIdle:
		clock = workout.FormatClock(t.snap.Settings.ActiveTime)
	case workout.PhaseCompleted:
		clock = "Done!"
	}

	style := phaseStyle(t.snap.Phase)
	clockView := clockStyle.Foreground(style.GetForeground()).Width(inner).Render(clock)
	label := style.Render(t.phaseLabel())

	round := mutedStyle.Render(fmt.Sprintf("Round %d/%d", min(t.snap.CurrentRound+1, t.snap.TotalRounds), t.snap.TotalRounds))

	from, to := phaseGradient(t.snap.PausedFrom)
	if t.snap.Phase != workout.PhasePaused {
		from, to = phaseGradient(t.snap.Phase)
	}
	bar := progress.New(
		progress.WithGradient(from, to),
		progress.WithWidth(min(inner, 60)),
	)
	barView := bar.ViewAs(t.snap.Progress / 100)

	content := []string{titleStyle.Render("Workout"), "", clockView, label, round, "", barView, ""}
	content = append(content, t.renderRounds())

	if next := t.nextJump(); next >= 0 {
		content = append(content, "", highlightStyle.Render(fmt.Sprintf("next jump in %ds", next)))
	}
	if t.lastCue != "" && t.now().Sub(t.lastCueAt) < cueFlash {
		content = append(content, "", accentStyle.Bold(true).Render("♪ "+cueLabel(t.lastCue)))
	}

	var controls string
	switch {
	case t.snap.Phase.Startable():
		controls = mutedStyle.Render("s: start  q: quit")
	case t.paused():
		controls = mutedStyle.Render("space: resume  x: reset")
	default:
		controls = mutedStyle.Render("space: pause  x: reset")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, append(content, "", controls)...),
	)
}

// renderRounds draws one dot per round: done, current, or pending.
func (t timerModel) renderRounds() string {
	total := t.snap.TotalRounds
	if total > 25 {
		return mutedStyle.Render(fmt.Sprintf("%d rounds", total))
	}
	var parts []string
	for i := 0; i < total; i++ {
		switch {
		case t.snap.Phase == workout.PhaseCompleted || i < t.snap.CurrentRound:
			parts = append(parts, successStyle.Render("●"))
		case i == t.snap.CurrentRound && t.snap.Phase != workout.PhaseIdle:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	return strings.Join(parts, " ")
}
