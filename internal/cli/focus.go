package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/pomodoro"
	"github.com/spf13/cobra"
)

// FocusOptions holds flags for the focus command.
type FocusOptions struct {
	*RootOptions
	Subject   string
	Minutes   int
	WithBreak bool
}

func NewFocusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FocusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run one pomodoro work phase without the UI",
		Long: `Count down one work phase and record it as a focus session when it
completes. Ctrl+C stops the countdown without recording anything.

Durations come from the settings saved in the app unless --minutes is given.

Examples:
  studytrack focus --subject "Linear algebra"
  studytrack focus --minutes 50 --break`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runFocus(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Subject, "subject", "s", "", "what you are studying")
	cmd.Flags().IntVarP(&opts.Minutes, "minutes", "m", 0, "work length in minutes (default from settings)")
	cmd.Flags().BoolVar(&opts.WithBreak, "break", false, "count down the break after the work phase")

	return cmd
}

func runFocus(ctx context.Context, opts *FocusOptions, cmd *cobra.Command) error {
	e, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	cfg, err := e.store.TimerConfig()
	if err != nil {
		return fmt.Errorf("load timer config: %w", err)
	}
	if opts.Minutes != 0 {
		cfg.WorkMinutes = opts.Minutes
	}
	timer, err := pomodoro.New(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --minutes", err)
	}
	sound, err := e.store.SoundEnabled()
	if err != nil {
		e.log.Warn("load sound setting", "err", err)
		sound = true
	}

	out := cmd.OutOrStdout()
	alert := func(title, message string) {
		if !sound {
			return
		}
		if err := opts.notify(title, message); err != nil {
			e.log.Warn("desktop alert", "err", err)
		}
	}
	show := func(s pomodoro.State) {
		fmt.Fprintf(out, "\r%-5s %s ", s.Phase(), formatClock(s.Remaining()))
	}
	record := func(done pomodoro.SessionCompleted) error {
		fs, err := e.store.RecordFocusSession(opts.Subject, done.DurationMinutes, analytics.KindWork, time.Now())
		if err != nil {
			e.log.Error("record focus session", "err", err)
			return err
		}
		e.log.Info("focus session recorded", "id", fs.ID, "subject", fs.Subject, "minutes", fs.DurationMinutes)
		fmt.Fprintf(out, "\nLogged %d min on %s\n", fs.DurationMinutes, fs.Subject)
		alert("Work session completed!", fmt.Sprintf("Great job! Time for a %d minute break.", cfg.BreakMinutes))
		return nil
	}

	ticks, stopTicks := opts.ticker()
	defer stopTicks()

	show(timer)
	timer, err = pomodoro.Run(ctx, timer, ticks, show, record)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(out, "\nStopped with %s left; nothing recorded.\n", formatClock(timer.Remaining()))
		return nil
	}
	if err != nil {
		return err
	}
	if !opts.WithBreak {
		return nil
	}

	show(timer)
	timer, err = pomodoro.Run(ctx, timer, ticks, show, nil)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "\nBreak skipped.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nBreak finished.")
	alert("Break finished!", "Ready for another focus session?")
	return nil
}

func formatClock(secs int) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
