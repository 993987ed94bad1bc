// Package cli wires config, logging, storage and the workout runner into
// warrior's cobra commands.
package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sadopc/warrior/internal/audio"
	"github.com/sadopc/warrior/internal/config"
	"github.com/sadopc/warrior/internal/runner"
	"github.com/sadopc/warrior/internal/store"
	"github.com/sadopc/warrior/internal/tui"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// env is the state shared by every command once config is loaded.
type env struct {
	cfgPath string
	dbPath  string

	cfg     *config.Config
	log     zerolog.Logger
	logFile io.Closer
}

// NewRootCmd builds the command tree. The root command starts the TUI.
func NewRootCmd() *cobra.Command {
	e := &env{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "warrior",
		Short:         "warrior - a HIIT interval timer for the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd, cmd == cmd.Root())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runTUI(cmd)
		},
	}

	root.PersistentFlags().StringVar(&e.cfgPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "database path (overrides config)")

	root.AddCommand(
		newRunCmd(e),
		newScheduleCmd(e),
		newHistoryCmd(e),
		newPresetCmd(e),
		newSettingsCmd(e),
		newConfigCmd(e),
	)
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads config and builds the logger. The TUI owns the terminal, so
// it logs to the configured file; everything else logs to stderr.
func (e *env) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(e.cfgPath)
	if err != nil {
		return err
	}
	if e.dbPath != "" {
		cfg.Database.Path = e.dbPath
	}
	e.cfg = cfg

	if interactive {
		e.log, e.logFile, err = fileLogger(cfg)
		if err != nil {
			return err
		}
	} else {
		e.log = consoleLogger(cfg, cmd.ErrOrStderr())
	}
	e.log.Debug().Str("config", e.cfgPath).Str("db", cfg.Database.Path).Msg("config loaded")
	return nil
}

func (e *env) close() {
	if e.logFile != nil {
		e.logFile.Close()
		e.logFile = nil
	}
}

func (e *env) openStore() (*store.Store, error) {
	s, err := store.New(e.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return s, nil
}

// bell returns the terminal bell sink, or nil when the bell is off.
func (e *env) bell(out io.Writer) audio.Sink {
	if !e.cfg.Audio.Bell {
		return nil
	}
	p := audio.NewPlayer(out, e.log)
	p.SetVolume(e.cfg.Audio.Volume)
	p.SetEnabled(e.cfg.Audio.Enabled)
	return p
}

func (e *env) runnerConfig() runner.Config {
	return runner.Config{TickInterval: e.cfg.Timer.TickInterval}
}

func (e *env) runTUI(cmd *cobra.Command) error {
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	queue := audio.NewQueue(32)
	r := runner.New(e.runnerConfig(),
		runner.WithSettingsStore(s),
		runner.WithHistoryStore(s),
		runner.WithSink(audio.Multi{e.bell(cmd.ErrOrStderr()), queue}),
		runner.WithLogger(e.log),
	)
	defer r.Close()

	app := tui.NewApp(s, r, tui.WithCues(queue.C()), tui.WithLogger(e.log))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
