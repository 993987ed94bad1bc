package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/warrior/internal/workout"
	"github.com/spf13/cobra"
)

func newScheduleCmd(e *env) *cobra.Command {
	var (
		flags  settingsFlags
		preset string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the jump cue schedule for each round",
		Long: `Print the remaining-time marks at which jump cues fire in every active
phase. The schedule is deterministic for a given set of settings.`,
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
			settings := base.Apply(patch)

			fmt.Fprintln(cmd.OutOrStdout(), renderSchedule(settings, workout.BuildSchedule(settings)))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&preset, "preset", "", "use a saved preset (id or name)")
	return cmd
}

func renderSchedule(s workout.Settings, sched workout.Schedule) string {
	header := fmt.Sprintf("%s work / %s rest × %d, %s jumps",
		workout.FormatClock(s.ActiveTime), workout.FormatClock(s.RestTime), s.Cycles, s.JumpIntensity)
	if !s.JumpAlert {
		return header + "\n" + mutedStyle.Render("jump cues are off")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Round", "Jumps at (remaining)")
	for _, round := range sched.Rounds() {
		var marks []string
		for _, at := range sched.Round(round) {
			marks = append(marks, workout.FormatClock(at))
		}
		if len(marks) == 0 {
			marks = []string{"-"}
		}
		t.Row(fmt.Sprintf("%d", round), strings.Join(marks, " "))
	}
	return header + "\n" + t.Render()
}
