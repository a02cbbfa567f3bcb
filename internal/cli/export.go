package cli

import (
	"fmt"
	"time"

	"github.com/sadopc/studytrack/internal/export"
	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Format string
	Out    string
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export focus sessions and habit completions",
		Long: `Export focus sessions as CSV, or sessions and habit completions as JSON.

Without --out the file is written to ~/studytrack-export-YYYY-MM-DD.<format>.
Use --out - to write to stdout.

Examples:
  studytrack export --format csv
  studytrack export --format json --out backup.json
  studytrack export --format json --out - | jq .focus_minutes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "csv", "export format (csv|json)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output path, - for stdout")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --format", err)
	}

	e, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	data, err := export.Gather(e.store)
	if err != nil {
		e.log.Error("gather export data", "err", err)
		return fmt.Errorf("export: %w", err)
	}

	if opts.Out == "-" {
		return export.Write(cmd.OutOrStdout(), format, data)
	}

	path := opts.Out
	if path == "" {
		path = export.DefaultPath(format, time.Now())
	}
	if err := export.ToFile(path, format, data); err != nil {
		e.log.Error("write export", "path", path, "err", err)
		return fmt.Errorf("export: %w", err)
	}
	e.log.Info("exported", "format", format, "path", path, "sessions", len(data.Sessions))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions and %d completions to %s\n",
		len(data.Sessions), len(data.Completions), path)
	return nil
}
