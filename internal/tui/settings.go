package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/warrior/internal/runner"
	"github.com/sadopc/warrior/internal/workout"
)

type settingsModel struct {
	runner *runner.Runner
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	activeTime   *string
	restTime     *string
	cycles       *string
	thirtySecond *bool
	jumpAlert    *bool
	intensity    *workout.Intensity
}

func newSettingsModel(r *runner.Runner) settingsModel {
	at, rt, c := "", "", ""
	ts, ja := false, false
	in := workout.IntensityMedium
	return settingsModel{
		runner:       r,
		activeTime:   &at,
		restTime:     &rt,
		cycles:       &c,
		thirtySecond: &ts,
		jumpAlert:    &ja,
		intensity:    &in,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.runner.Snapshot().Settings
	*s.activeTime = workout.FormatClock(cur.ActiveTime)
	*s.restTime = workout.FormatClock(cur.RestTime)
	*s.cycles = strconv.Itoa(cur.Cycles)
	*s.thirtySecond = cur.ThirtySecondAlert
	*s.jumpAlert = cur.JumpAlert
	*s.intensity = cur.JumpIntensity

	intensityOpts := make([]huh.Option[workout.Intensity], 0, len(workout.Intensities))
	for _, in := range workout.Intensities {
		intensityOpts = append(intensityOpts, huh.NewOption(strings.ToUpper(string(in[:1]))+string(in[1:]), in))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Active time (mm:ss)").Value(s.activeTime).Validate(validateClock),
			huh.NewInput().Title("Rest time (mm:ss)").Value(s.restTime).Validate(validateClock),
			huh.NewInput().Title("Rounds").Value(s.cycles).Validate(validateCycles),
		).Title("Intervals"),
		huh.NewGroup(
			huh.NewConfirm().Title("Thirty-second alert").Value(s.thirtySecond),
			huh.NewConfirm().Title("Jump cues").Value(s.jumpAlert),
			huh.NewSelect[workout.Intensity]().Title("Jump intensity").
				Options(intensityOpts...).
				Value(s.intensity),
		).Title("Cues"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	patch, err := parseSettingsForm(*s.activeTime, *s.restTime, *s.cycles, *s.thirtySecond, *s.jumpAlert, *s.intensity)
	if err != nil {
		return errorCmd(err)
	}
	saved := s.runner.UpdateSettings(patch)
	return tea.Batch(
		func() tea.Msg { return settingsChangedMsg{settings: saved} },
		statusCmd("Settings saved"),
	)
}

// parseSettingsForm turns the form fields into a full settings patch.
func parseSettingsForm(active, rest, cycles string, thirty, jump bool, intensity workout.Intensity) (workout.Patch, error) {
	a, err := workout.ParseClock(active)
	if err != nil {
		return workout.Patch{}, fmt.Errorf("active time: %w", err)
	}
	r, err := workout.ParseClock(rest)
	if err != nil {
		return workout.Patch{}, fmt.Errorf("rest time: %w", err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cycles))
	if err != nil {
		return workout.Patch{}, fmt.Errorf("rounds: %w", err)
	}
	return workout.Replace(workout.Settings{
		ActiveTime:        a,
		RestTime:          r,
		Cycles:            c,
		ThirtySecondAlert: thirty,
		JumpAlert:         jump,
		JumpIntensity:     intensity,
	}), nil
}

func validateClock(v string) error {
	secs, err := workout.ParseClock(v)
	if err != nil {
		return err
	}
	if secs < 1 {
		return fmt.Errorf("must be at least 1 second")
	}
	return nil
}

func validateCycles(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n < workout.MinCycles || n > workout.MaxCycles {
		return fmt.Errorf("between %d and %d", workout.MinCycles, workout.MaxCycles)
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	cur := s.runner.Snapshot().Settings
	rows := []string{title, ""}
	for _, kv := range settingsRows(cur) {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}
	rows = append(rows, "",
		mutedStyle.Render(fmt.Sprintf("  Total workout: %s", formatDuration(secondsDuration(cur.TotalDuration())))),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingsRows(s workout.Settings) [][2]string {
	return [][2]string{
		{"Active time", workout.FormatClock(s.ActiveTime)},
		{"Rest time", workout.FormatClock(s.RestTime)},
		{"Rounds", strconv.Itoa(s.Cycles)},
		{"Thirty-second alert", onOff(s.ThirtySecondAlert)},
		{"Jump cues", onOff(s.JumpAlert)},
		{"Jump intensity", string(s.JumpIntensity)},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
