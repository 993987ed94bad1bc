package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/warrior/internal/store"
	"github.com/sadopc/warrior/internal/workout"
)

const recentWorkouts = 8

type historyModel struct {
	store  *store.Store
	width  int
	height int

	summaries []store.DailySummary
	recent    []workout.HistoryRecord
	offset    int // 7-day blocks back from today

	chart barchart.Model
	now   func() time.Time
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
		now:   time.Now,
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type historyDataMsg struct {
	summaries []store.DailySummary
	recent    []workout.HistoryRecord
	err       error
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := h.dateRange()
		summaries, err := h.store.GetDailySummary(from, to)
		if err != nil {
			return historyDataMsg{err: err}
		}
		recent, err := h.store.ListHistory(recentWorkouts)
		return historyDataMsg{summaries: summaries, recent: recent, err: err}
	}
}

// dateRange is the 7-day window shown in the chart, in UTC days.
func (h historyModel) dateRange() (time.Time, time.Time) {
	now := h.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*h.offset)
	return end.AddDate(0, 0, -7), end
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		if msg.err != nil {
			return h, errorCmd(msg.err)
		}
		h.summaries = msg.summaries
		h.recent = msg.recent
		h.buildChart()
		return h, nil

	case snapshotMsg:
		if msg.Phase == workout.PhaseCompleted {
			return h, h.refresh()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		}
	}
	return h, nil
}

// buildChart draws minutes trained per day.
func (h *historyModel) buildChart() {
	chartWidth := max(h.width-8, 20)
	chartHeight := 10
	if h.height > 30 {
		chartHeight = 14
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	byDay := make(map[string]store.DailySummary, len(h.summaries))
	for _, s := range h.summaries {
		byDay[s.Date] = s
	}

	from, to := h.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		s := byDay[d.Format("2006-01-02")]
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  "minutes",
				Value: float64(s.TotalSeconds) / 60,
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("History"), "  ", dateLabel)

	var workouts, rounds int
	var seconds int64
	for _, s := range h.summaries {
		workouts += s.Workouts
		rounds += s.Rounds
		seconds += s.TotalSeconds
	}
	totals := highlightStyle.Render(fmt.Sprintf("  %d workouts  %d rounds  %s trained", workouts, rounds, formatMinutes(seconds)))

	nav := mutedStyle.Render("  ←/→: older/newer week  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", totals, "", h.renderRecent(w), "", nav,
		),
	)
}

func (h historyModel) renderRecent(w int) string {
	if len(h.recent) == 0 {
		return mutedStyle.Render("  No workouts yet")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-18s %-8s %-15s %10s", "Completed", "Rounds", "Intervals", "Duration")),
		mutedStyle.Render("  " + strings.Repeat("─", max(min(w-6, 54), 0))),
	}
	for _, r := range h.recent {
		intervals := fmt.Sprintf("%s/%s", workout.FormatClock(r.Settings.ActiveTime), workout.FormatClock(r.Settings.RestTime))
		rows = append(rows, fmt.Sprintf("  %-18s %-8s %-15s %10s",
			r.Date.Local().Format("Mon Jan 02 15:04"),
			fmt.Sprintf("%d/%d", r.CompletedRounds, r.Settings.Cycles),
			intervals,
			formatDuration(r.TotalTime),
		))
	}
	return strings.Join(rows, "\n")
}
