package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/warrior/internal/store"
	"github.com/sadopc/warrior/internal/workout"
	"github.com/spf13/cobra"
)

func newPresetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets"},
		Short:   "Manage saved workout presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets(e, cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List presets",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listPresets(e, cmd)
			},
		},
		newPresetSaveCmd(e),
		&cobra.Command{
			Use:   "apply <id|name>",
			Short: "Make a preset the current settings",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := e.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				p, err := s.FindPreset(args[0])
				if err != nil {
					return fmt.Errorf("preset %q: %w", args[0], err)
				}
				if err := s.SaveSettings(p.Settings); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded preset %q\n", p.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:     "delete <id|name>",
			Aliases: []string{"rm"},
			Short:   "Delete a preset",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := e.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				p, err := s.FindPreset(args[0])
				if err != nil {
					return fmt.Errorf("preset %q: %w", args[0], err)
				}
				if err := s.DeletePreset(p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", p.Name)
				return nil
			},
		},
	)
	return cmd
}

func newPresetSaveCmd(e *env) *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current settings, with any overrides, as a preset",
		Long: `Save the current settings as a named preset. An existing preset with the
same name is overwritten.`,
		Args: cobra.ExactArgs(1),
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

			cur, err := currentSettings(s)
			if err != nil {
				return err
			}

			p := store.Preset{Name: args[0], Settings: cur.Apply(patch)}
			if existing, err := s.FindPreset(args[0]); err == nil {
				p.ID = existing.ID
			} else if !store.IsNotFound(err) {
				return err
			}

			saved, err := s.SavePreset(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func listPresets(e *env, cmd *cobra.Command) error {
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	presets, err := s.ListPresets()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(presets) == 0 {
		fmt.Fprintln(out, "No presets yet")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Active", "Rest", "Rounds", "Jumps", "Total")
	for _, p := range presets {
		st := p.Settings
		jumps := string(st.JumpIntensity)
		if !st.JumpAlert {
			jumps = "off"
		}
		t.Row(p.Name,
			workout.FormatClock(st.ActiveTime),
			workout.FormatClock(st.RestTime),
			fmt.Sprintf("%d", st.Cycles),
			jumps,
			workout.FormatClock(st.TotalDuration()),
		)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}
