package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/warrior/internal/runner"
	"github.com/sadopc/warrior/internal/store"
	"github.com/sadopc/warrior/internal/workout"
)

type presetsModel struct {
	store  *store.Store
	runner *runner.Runner
	width  int
	height int

	presets []store.Preset
	cursor  int

	formActive bool
	form       *huh.Form
	formName   *string
}

func newPresetsModel(s *store.Store, r *runner.Runner) presetsModel {
	name := ""
	return presetsModel{
		store:    s,
		runner:   r,
		formName: &name,
	}
}

func (p *presetsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type presetsDataMsg struct {
	presets []store.Preset
	err     error
}

func (p presetsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		presets, err := p.store.ListPresets()
		return presetsDataMsg{presets: presets, err: err}
	}
}

func (p presetsModel) update(msg tea.Msg) (presetsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case presetsDataMsg:
		if msg.err != nil {
			return p, errorCmd(msg.err)
		}
		p.presets = msg.presets
		if p.cursor >= len(p.presets) {
			p.cursor = max(0, len(p.presets)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.presets)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(p.presets) > 0 {
				return p, p.apply(p.presets[p.cursor])
			}
		case key.Matches(msg, keys.New):
			return p.showNewPresetForm()
		case key.Matches(msg, keys.Delete):
			if len(p.presets) > 0 {
				return p, p.delete(p.presets[p.cursor])
			}
		}
	}
	return p, nil
}

// apply replaces the current settings with the preset's.
func (p presetsModel) apply(preset store.Preset) tea.Cmd {
	saved := p.runner.UpdateSettings(workout.Replace(preset.Settings))
	return tea.Batch(
		func() tea.Msg { return settingsChangedMsg{settings: saved} },
		statusCmd("Loaded preset %q", preset.Name),
	)
}

func (p presetsModel) delete(preset store.Preset) tea.Cmd {
	if err := p.store.DeletePreset(preset.ID); err != nil {
		return errorCmd(err)
	}
	return tea.Batch(p.refresh(), statusCmd("Deleted preset %q", preset.Name))
}

func (p presetsModel) showNewPresetForm() (presetsModel, tea.Cmd) {
	*p.formName = ""
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Preset name").
				Description("Saves the current settings").
				Value(p.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p presetsModel) updateForm(msg tea.Msg) (presetsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p, p.saveCurrent(*p.formName)
	}

	return p, cmd
}

func (p presetsModel) saveCurrent(name string) tea.Cmd {
	preset, err := p.store.SavePreset(store.Preset{
		Name:     name,
		Settings: p.runner.Snapshot().Settings,
	})
	if err != nil {
		return errorCmd(err)
	}
	return tea.Batch(p.refresh(), statusCmd("Saved preset %q", preset.Name))
}

func (p presetsModel) view() string {
	w := p.width - 4
	title := titleStyle.Render("Presets")

	if p.formActive && p.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
		)
	}

	rows := []string{title, ""}
	if len(p.presets) == 0 {
		rows = append(rows, mutedStyle.Render("  No presets yet. Press n to save the current settings."))
	}
	for i, preset := range p.presets {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		s := preset.Settings
		detail := mutedStyle.Render(fmt.Sprintf("%s work / %s rest × %d  %s jumps",
			workout.FormatClock(s.ActiveTime), workout.FormatClock(s.RestTime), s.Cycles, s.JumpIntensity))
		name := style.Width(24).Render(cursor + preset.Name)
		rows = append(rows, name+" "+detail)
	}

	rows = append(rows, "", mutedStyle.Render("  enter: load  n: save current  d: delete"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
