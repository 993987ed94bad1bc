package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/warrior/internal/export"
	"github.com/sadopc/warrior/internal/workout"
	"github.com/spf13/cobra"
)

func newHistoryCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed workouts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListHistory(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No workouts yet")
				return nil
			}
			fmt.Fprintln(out, renderHistory(records))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of workouts to show (0 for all)")

	cmd.AddCommand(newHistoryExportCmd(e))
	return cmd
}

func newHistoryExportCmd(e *env) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workout history as CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListHistory(0)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return writeExport(cmd.OutOrStdout(), format, records)
			}
			if format == "csv" {
				err = export.ToCSV(records, output)
			} else {
				err = export.ToJSON(records, output)
			}
			if err != nil {
				return err
			}
			e.log.Info().Str("path", output).Int("workouts", len(records)).Msg("history exported")
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d workouts to %s\n", len(records), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func writeExport(w io.Writer, format string, records []workout.HistoryRecord) error {
	if format == "csv" {
		return export.WriteCSV(w, records)
	}
	return export.WriteJSON(w, records)
}

func renderHistory(records []workout.HistoryRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Completed", "Rounds", "Intervals", "Intensity", "Duration")
	for _, r := range records {
		t.Row(
			r.Date.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d/%d", r.CompletedRounds, r.Settings.Cycles),
			fmt.Sprintf("%s/%s", workout.FormatClock(r.Settings.ActiveTime), workout.FormatClock(r.Settings.RestTime)),
			string(r.Settings.JumpIntensity),
			workout.FormatClock(int(r.TotalTime.Seconds())),
		)
	}
	return t.Render()
}
