package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/sadopc/warrior/internal/audio"
	"github.com/sadopc/warrior/internal/export"
	"github.com/sadopc/warrior/internal/runner"
	"github.com/sadopc/warrior/internal/store"
	"github.com/sadopc/warrior/internal/workout"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	runner *runner.Runner
	log    zerolog.Logger
	width  int
	height int

	snapshots <-chan workout.Snapshot
	cues      <-chan audio.Cue

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	timer    timerModel
	presets  presetsModel
	history  historyModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

// Option configures an App.
type Option func(*App)

// WithCues shows cues delivered on ch as they play.
func WithCues(ch <-chan audio.Cue) Option {
	return func(a *App) { a.cues = ch }
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithExportDir sets where history exports are written. Defaults to the
// home directory.
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

func NewApp(s *store.Store, r *runner.Runner, opts ...Option) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		store:      s,
		runner:     r,
		log:        zerolog.Nop(),
		activeView: viewTimer,
		timer:      newTimerModel(r),
		presets:    newPresetsModel(s, r),
		history:    newHistoryModel(s),
		settings:   newSettingsModel(r),
		help:       h,
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.exportDir == "" {
		a.exportDir, _ = os.UserHomeDir()
	}
	a.log = a.log.With().Str("component", "tui").Logger()
	a.snapshots = r.Subscribe(16)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		waitForSnapshot(a.snapshots),
		waitForCue(a.cues),
		a.presets.refresh(),
		a.history.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.presets.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}
		for v, b := range tabKeys() {
			if key.Matches(msg, b) {
				a.activeView = viewState(v)
				return a, a.refreshCurrentView()
			}
		}

		// Session controls work from every view.
		if key.Matches(msg, keys.Start, keys.Pause, keys.Reset) {
			var cmd tea.Cmd
			a.timer, cmd = a.timer.update(msg)
			return a, cmd
		}

	case snapshotMsg:
		cmds = append(cmds, waitForSnapshot(a.snapshots))
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		cmds = append(cmds, cmd)
		a.history, cmd = a.history.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case cueMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, tea.Batch(cmd, waitForCue(a.cues))

	case settingsChangedMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			a.log.Warn().Msg(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewPresets:
		a.presets, cmd = a.presets.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPresets:
		return a.presets.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewPresets:
		return a.presets.refresh()
	case viewHistory:
		return a.history.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewPresets:
		content = a.presets.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("warrior")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Session indicator while a workout is in progress
	sessionInfo := ""
	snap := a.timer.snap
	switch {
	case snap.Phase.Running():
		sessionInfo = phaseStyle(snap.Phase).Render(fmt.Sprintf(" ● %s %s", snap.Phase, workout.FormatClock(snap.CurrentTime)))
	case snap.Phase == workout.PhasePaused:
		sessionInfo = warningStyle.Render(" ⏸ " + workout.FormatClock(snap.CurrentTime))
	}

	left := footerStyle.Render(helpView)
	right := sessionInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// exportFormats are the choices offered by the export picker, in order.
var exportFormats = []struct {
	name  string
	ext   string
	write func([]workout.HistoryRecord, string) error
}{
	{"CSV", "csv", export.ToCSV},
	{"JSON", "json", export.ToJSON},
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export History"), ""}
	for i, f := range exportFormats {
		if i == a.exportCursor {
			rows = append(rows, selectedItemStyle.Render("> "+f.name))
		} else {
			rows = append(rows, normalItemStyle.Render("  "+f.name))
		}
	}
	rows = append(rows, "",
		mutedStyle.Render(fmt.Sprintf("  writes to %s", a.exportDir)),
		mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		a.exportCursor = max(a.exportCursor-1, 0)
	case key.Matches(msg, keys.Down):
		a.exportCursor = min(a.exportCursor+1, len(exportFormats)-1)
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the whole history in the chosen format to exportDir.
func (a App) doExport(i int) tea.Cmd {
	st, dir, format := a.store, a.exportDir, exportFormats[i]
	return func() tea.Msg {
		records, err := st.ListHistory(0)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export failed: %v", err), isError: true}
		}
		name := fmt.Sprintf("warrior-history-%s.%s", time.Now().Format("2006-01-02"), format.ext)
		path := filepath.Join(dir, name)
		if err := format.write(records, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s export failed: %v", format.name, err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
