package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/macropower/versync/pkg/log"
	"github.com/macropower/versync/pkg/manifest"
	"github.com/macropower/versync/pkg/synccmd"
	"github.com/macropower/versync/pkg/synctui"
	"github.com/macropower/versync/pkg/tracing"
)

const (
	syncDesc = `This command writes one version into every manifest of the project
`
	syncExample = `  versync sync [version] [flags]
  # Apply the default release version to every manifest
  versync sync

  # Apply a specific version to every manifest
  versync sync 0.3.0

  # Apply a version to manifests in another project
  versync sync 0.3.0 --path ../vec-utils
`
)

var (
	ErrArgument          = errors.New("argument error")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrSyncCommandFailed = errors.New("sync command failed")
	ErrSyncFailed        = errors.New("sync failed")
)

// NewSyncCmd returns the sync command.
func NewSyncCmd(arg *RootArgs) *cobra.Command {
	args := NewSyncArgs(arg)

	cmd := &cobra.Command{
		Use:     "sync [version]",
		Short:   "Synchronize manifest version declarations",
		Long:    syncDesc,
		Example: syncExample,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if _, err := resource.ParseQuantity(*args.maxFileSize); err != nil {
				return fmt.Errorf("%w: %w: max_file_size: %w", ErrArgument, ErrInvalidArgument, err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			version := synccmd.DefaultVersion
			if len(posArgs) > 0 {
				version = posArgs[0]
			}

			sc, err := newSyncCommander(cmd.OutOrStdout(), version, args)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSyncCommandFailed, err)
			}

			err = sc.Sync(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSyncFailed, err)
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(args.path, "path", "p", ".", "Base path for the project")
	must(cmd.MarkFlagDirname("path"))

	cmd.Flags().DurationVar(args.timeout, "timeout", time.Minute, "Timeout for the command")
	cmd.Flags().BoolVarP(args.quiet, "quiet", "q", false, "Run in quiet mode")
	cmd.Flags().StringVar(args.maxFileSize, "max_file_size", "1Mi", "Maximum size of a target manifest")
	cmd.Flags().
		IntVar(args.maxScanLines, "max_scan_lines", manifest.DefaultMaxScanLines,
			"Number of leading lines searched for a version declaration")

	return cmd
}

type syncCommander interface {
	Sync(ctx context.Context) error
	Subscribe(f func(any))
}

//nolint:ireturn // Multiple concrete types.
func newSyncCommander(w io.Writer, version string, args *SyncArgs) (syncCommander, error) {
	useTUI := !args.GetQuiet() && isatty.IsTerminal(os.Stdout.Fd())

	out := w
	if useTUI {
		// Per-target confirmations are drawn by the TUI instead.
		out = io.Discard
	}

	sc, err := synccmd.New(args.GetPath(),
		synccmd.WithVersion(version),
		synccmd.WithTimeout(args.GetTimeout()),
		synccmd.WithMaxFileSize(args.GetMaxFileSize()),
		synccmd.WithMaxScanLines(args.GetMaxScanLines()),
		synccmd.WithOutput(out),
		synccmd.WithTracer(tracing.NewLoggingTracer(slog.Default())),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create synchronizer: %w", err)
	}

	if !useTUI {
		return sc, nil
	}

	lvl, err := log.GetLevel(args.GetLogLevel())
	if err != nil {
		// Should not be possible due to root's PersistentPreRunE.
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}

	return synctui.NewSyncTUI(w, lvl, sc), nil
}

type SyncArgs struct {
	path         *string
	maxFileSize  *string
	maxScanLines *int
	timeout      *time.Duration
	quiet        *bool
	*RootArgs
}

func NewSyncArgs(args *RootArgs) *SyncArgs {
	return &SyncArgs{
		path:         new(string),
		maxFileSize:  new(string),
		maxScanLines: new(int),
		timeout:      new(time.Duration),
		quiet:        new(bool),
		RootArgs:     args,
	}
}

func (a *SyncArgs) GetPath() string {
	return *a.path
}

func (a *SyncArgs) GetMaxFileSize() *resource.Quantity {
	size, err := resource.ParseQuantity(*a.maxFileSize)
	if err != nil {
		panic(err)
	}

	return &size
}

func (a *SyncArgs) GetMaxScanLines() int {
	return *a.maxScanLines
}

func (a *SyncArgs) GetTimeout() time.Duration {
	return *a.timeout
}

func (a *SyncArgs) GetQuiet() bool {
	return *a.quiet
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
