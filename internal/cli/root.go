package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/sadopc/studytrack/internal/config"
	"github.com/sadopc/studytrack/internal/logging"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/sadopc/studytrack/internal/tui"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	LogFile    string
	LogLevel   string

	// replaced in tests
	ticker func() (<-chan time.Time, func())
	notify func(title, message string) error
}

func newRootOptions() *RootOptions {
	return &RootOptions{
		ticker: func() (<-chan time.Time, func()) {
			t := time.NewTicker(time.Second)
			return t.C, t.Stop
		},
		notify: func(title, message string) error {
			return beeep.Alert(title, message, "")
		},
	}
}

// NewRootCommand creates the studytrack command tree. With no subcommand it
// runs the terminal UI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newRootOptions())
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studytrack",
		Short: "Study habits, focus sessions and weekly goals in the terminal",
		Long: `studytrack tracks daily study habits and pomodoro focus sessions,
and shows streaks and weekly progress against a focus-hour goal.

Run without a subcommand to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			beeep.AppName = "studytrack"
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/studytrack/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "path to log file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewFocusCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// env is what every command needs once flags and config are resolved.
type env struct {
	cfg   config.Config
	store *store.Store
	log   *slog.Logger

	logFile io.Closer
}

func (o *RootOptions) resolveConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	cfg = cfg.Apply(config.Overrides{DBPath: o.DBPath, LogFile: o.LogFile, LogLevel: o.LogLevel})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid flags", err)
	}
	return cfg, nil
}

func (o *RootOptions) open() (*env, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}

	log, logFile, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open log", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	log.Debug("store opened", "path", cfg.DBPath)

	e := &env{cfg: cfg, store: st, log: log, logFile: logFile}
	if err := e.seedWeeklyGoal(); err != nil {
		e.Close()
		return nil, WrapExitError(ExitCommandError, "failed to apply default weekly goal", err)
	}
	return e, nil
}

// seedWeeklyGoal saves the configured default goal unless one exists.
func (e *env) seedWeeklyGoal() error {
	if e.cfg.DefaultWeeklyGoalHours == 0 {
		return nil
	}
	goal, err := e.store.WeeklyGoal()
	if err != nil || goal != nil {
		return err
	}
	e.log.Info("seeding weekly goal", "hours", e.cfg.DefaultWeeklyGoalHours)
	return e.store.SetWeeklyGoal(e.cfg.DefaultWeeklyGoalHours)
}

func (e *env) Close() error {
	err := e.store.Close()
	if cerr := e.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}

func runTUI(opts *RootOptions) error {
	e, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	e.log.Info("starting tui")
	p := tea.NewProgram(tui.NewApp(e.store, e.log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		e.log.Error("tui exited", "err", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
