package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/sadopc/warrior/internal/runner"
	"github.com/sadopc/warrior/internal/store"
	"github.com/sadopc/warrior/internal/workout"
	"github.com/spf13/cobra"
)

var (
	phaseColors = map[workout.Phase]lipgloss.Color{
		workout.PhasePrepare:   lipgloss.Color("#F59E0B"),
		workout.PhaseActive:    lipgloss.Color("#EF4444"),
		workout.PhaseRest:      lipgloss.Color("#10B981"),
		workout.PhasePaused:    lipgloss.Color("#6B7280"),
		workout.PhaseCompleted: lipgloss.Color("#7C3AED"),
	}
	boldStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newRunCmd(e *env) *cobra.Command {
	var (
		flags  settingsFlags
		preset string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workout without the TUI",
		Long: `Run a workout in the terminal without the full-screen UI. Flags override the
stored settings for this session only unless --save is given. Ctrl+C aborts
the session without recording it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd.Flags())
			if err != nil {
				return err
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			base, err := baseSettings(s, preset)
			if err != nil {
				return err
			}

			opts := []runner.Option{
				runner.WithHistoryStore(s),
				runner.WithSink(e.bell(cmd.ErrOrStderr())),
				runner.WithLogger(e.log),
			}
			if save {
				opts = append(opts, runner.WithSettingsStore(s))
			}
			r := runner.New(e.runnerConfig(), opts...)
			defer r.Close()
			r.UpdateSettings(workout.Replace(base.Apply(patch)))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSession(ctx, r, cmd.OutOrStdout())
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&preset, "preset", "", "start from a saved preset (id or name)")
	cmd.Flags().BoolVar(&save, "save", false, "store the resulting settings")
	return cmd
}

// baseSettings is the named preset's settings, or the stored settings when
// ref is empty.
func baseSettings(s *store.Store, ref string) (workout.Settings, error) {
	if ref != "" {
		p, err := s.FindPreset(ref)
		if err != nil {
			return workout.Settings{}, fmt.Errorf("preset %q: %w", ref, err)
		}
		return p.Settings, nil
	}
	return currentSettings(s)
}

func currentSettings(s *store.Store) (workout.Settings, error) {
	cur, ok, err := s.LoadSettings()
	if err != nil {
		return workout.Settings{}, err
	}
	if !ok {
		return workout.DefaultSettings(), nil
	}
	return cur, nil
}

// runSession starts r and reports progress on out until the workout
// completes or ctx is cancelled.
func runSession(ctx context.Context, r *runner.Runner, out io.Writer) error {
	snaps := r.Subscribe(64)
	s := r.Snapshot().Settings
	fmt.Fprintf(out, "%s  %s work / %s rest × %d  (%s total)\n",
		boldStyle.Render("warrior"),
		workout.FormatClock(s.ActiveTime), workout.FormatClock(s.RestTime), s.Cycles,
		workout.FormatClock(s.TotalDuration()))

	live := isTerminal(out)
	last := workout.PhaseIdle
	lastRound := -1
	r.Start()

	for {
		select {
		case <-ctx.Done():
			r.Reset()
			if live {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, mutedStyle.Render("aborted, session not recorded"))
			return nil

		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			// The completion snapshot may be dropped behind a full buffer.
			if cur := r.Snapshot(); cur.Phase == workout.PhaseCompleted {
				snap = cur
			}
			switch {
			case snap.Phase == workout.PhaseCompleted:
				if live {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, statusStyle(snap.Phase).Render(
					fmt.Sprintf("workout complete: %d rounds", snap.TotalRounds)))
				return nil
			case live:
				fmt.Fprintf(out, "\r%s\x1b[K", statusLine(snap))
			case snap.Phase != last || snap.CurrentRound != lastRound:
				fmt.Fprintln(out, statusLine(snap))
			}
			last, lastRound = snap.Phase, snap.CurrentRound
		}
	}
}

func statusLine(snap workout.Snapshot) string {
	phase := snap.Phase
	if phase == workout.PhasePaused {
		phase = snap.PausedFrom
	}
	return fmt.Sprintf("%s %s  round %d/%d  %3.0f%%",
		statusStyle(phase).Width(8).Render(phase.String()),
		boldStyle.Render(workout.FormatClock(snap.CurrentTime)),
		min(snap.CurrentRound+1, snap.TotalRounds), snap.TotalRounds,
		snap.Progress)
}

func statusStyle(p workout.Phase) lipgloss.Style {
	if c, ok := phaseColors[p]; ok {
		return lipgloss.NewStyle().Bold(true).Foreground(c)
	}
	return boldStyle
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
