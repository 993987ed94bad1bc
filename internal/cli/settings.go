package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/warrior/internal/workout"
	"github.com/spf13/cobra"
)

func newSettingsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the workout settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			cur, err := currentSettings(s)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), cur)
			return nil
		},
	}

	cmd.AddCommand(newSettingsSetCmd(e), &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveSettings(workout.DefaultSettings()); err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), workout.DefaultSettings())
			return nil
		},
	})
	return cmd
}

func newSettingsSetCmd(e *env) *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; out-of-range values are clamped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd.Flags())
			if err != nil {
				return err
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change, see --help")
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			cur, err := currentSettings(s)
			if err != nil {
				return err
			}
			next := cur.Apply(patch)
			if err := s.SaveSettings(next); err != nil {
				return err
			}
			e.log.Debug().Interface("settings", next).Msg("settings saved")
			printSettings(cmd.OutOrStdout(), next)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func printSettings(w io.Writer, s workout.Settings) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(
			[]string{"Active time", workout.FormatClock(s.ActiveTime)},
			[]string{"Rest time", workout.FormatClock(s.RestTime)},
			[]string{"Rounds", fmt.Sprintf("%d", s.Cycles)},
			[]string{"Thirty-second alert", onOff(s.ThirtySecondAlert)},
			[]string{"Jump cues", onOff(s.JumpAlert)},
			[]string{"Jump intensity", string(s.JumpIntensity)},
			[]string{"Total", workout.FormatClock(s.TotalDuration())},
		)
	fmt.Fprintln(w, t.Render())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
