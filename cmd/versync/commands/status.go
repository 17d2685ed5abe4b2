package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/macropower/versync/pkg/manifest"
	"github.com/macropower/versync/pkg/synccmd"
	"github.com/macropower/versync/pkg/tracing"
)

const (
	statusDesc = `This command reports the version declared by every manifest of the project
`
	statusExample = `  versync status [flags]
  # Report every manifest version against the default release version
  versync status

  # Report every manifest version against a specific version
  versync status --version 0.3.0

  # Report as JSON
  versync status -o json
`
)

var (
	ErrStatusFailed = errors.New("status failed")

	ErrUnknownOutputFormat = errors.New("unknown output format")
)

// NewStatusCmd returns the status command.
func NewStatusCmd(arg *RootArgs) *cobra.Command {
	args := NewSyncArgs(arg)
	version := new(string)
	format := new(string)

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Report manifest version declarations",
		Long:    statusDesc,
		Example: statusExample,
		Args:    cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if _, err := resource.ParseQuantity(*args.maxFileSize); err != nil {
				return fmt.Errorf("%w: %w: max_file_size: %w", ErrArgument, ErrInvalidArgument, err)
			}

			switch *format {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("%w: %w: format: %q", ErrArgument, ErrInvalidArgument, *format)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := synccmd.New(args.GetPath(),
				synccmd.WithVersion(*version),
				synccmd.WithTimeout(args.GetTimeout()),
				synccmd.WithMaxFileSize(args.GetMaxFileSize()),
				synccmd.WithMaxScanLines(args.GetMaxScanLines()),
				synccmd.WithTracer(tracing.NewLoggingTracer(slog.Default())),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrStatusFailed, err)
			}

			statuses, err := sc.Status(cmd.Context())

			// Rows are rendered even when some targets failed, so a partial
			// result is still visible before the error is reported.
			werr := writeStatuses(cmd.OutOrStdout(), *format, statuses)
			if werr != nil {
				return fmt.Errorf("%w: %w", ErrStatusFailed, werr)
			}

			if err != nil {
				return fmt.Errorf("%w: %w", ErrStatusFailed, err)
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(args.path, "path", "p", ".", "Base path for the project")
	must(cmd.MarkFlagDirname("path"))

	cmd.Flags().DurationVar(args.timeout, "timeout", time.Minute, "Timeout for the command")
	cmd.Flags().StringVar(args.maxFileSize, "max_file_size", "1Mi", "Maximum size of a target manifest")
	cmd.Flags().
		IntVar(args.maxScanLines, "max_scan_lines", manifest.DefaultMaxScanLines,
			"Number of leading lines searched for a version declaration")

	cmd.Flags().StringVarP(version, "version", "v", synccmd.DefaultVersion, "Version to compare declarations against")
	cmd.Flags().StringVarP(format, "format", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func writeStatuses(w io.Writer, format string, statuses []synccmd.TargetStatus) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(statuses)
		if err != nil {
			return fmt.Errorf("failed to encode statuses: %w", err)
		}

	case "yaml":
		enc := yaml.NewEncoder(w)

		err := enc.Encode(statuses)
		if err != nil {
			return fmt.Errorf("failed to encode statuses: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("failed to encode statuses: %w", err)
		}

	case "table":
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"Path", "Version", "Line", "In Sync", "Error"})

		for _, ts := range statuses {
			tw.AppendRow(table.Row{
				ts.Path,
				ts.Version,
				ts.Line,
				ts.InSync,
				ts.Error,
			})
		}

		tw.SetStyle(table.StyleRounded)
		tw.Render()

	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}

	return nil
}
