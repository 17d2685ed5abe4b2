package synccmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/macropower/versync/pkg/fileutil"
	"github.com/macropower/versync/pkg/manifest"
	"github.com/macropower/versync/pkg/pathutil"
	"github.com/macropower/versync/pkg/syncutil"
	"github.com/macropower/versync/pkg/tracing"
)

var (
	ErrPathResolution = errors.New("path resolution failed")
	ErrTargetResolve  = errors.New("target resolution failed")
	ErrTargetLoad     = errors.New("target load failed")
	ErrTargetWrite    = errors.New("target write failed")
)

// Synchronizer applies one version string to every target manifest under a
// base path.
type Synchronizer struct {
	MaxFileSize  *resource.Quantity
	w            io.Writer
	locks        *syncutil.KeyLock
	tracer       tracing.Tracer
	BasePath     string
	Version      string
	absBasePath  string
	repoRoot     string
	Targets      []Target
	subs         []func(any)
	MaxScanLines int
	Timeout      time.Duration
}

// New creates a [Synchronizer] for the project at basePath.
//
// The closest enclosing git repository root is used as the boundary that all
// resolved target paths must remain within. If basePath is not inside a git
// repository, basePath itself is the boundary.
func New(basePath string, opts ...Option) (*Synchronizer, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get absolute path: %w", ErrPathResolution, err)
	}

	slog.Debug("looking for repository root", slog.String("path", basePath))

	repoRoot, err := pathutil.FindRepoRoot(absBasePath)
	if errors.Is(err, pathutil.ErrRepoRootNotFound) {
		repoRoot = absBasePath

		slog.Debug("base path is not inside a repository, using it as the boundary",
			slog.String("path", absBasePath),
		)
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to find repository root: %w", ErrPathResolution, err)
	} else {
		slog.Debug("found repository root", slog.String("path", repoRoot))
	}

	s := &Synchronizer{
		BasePath:     basePath,
		absBasePath:  absBasePath,
		repoRoot:     repoRoot,
		Version:      DefaultVersion,
		Targets:      DefaultTargets(),
		MaxFileSize:  resource.NewQuantity(1048576, resource.BinarySI), // 1Mi.
		MaxScanLines: manifest.DefaultMaxScanLines,
		Timeout:      time.Minute,
		w:            os.Stdout,
		subs:         []func(any){},
		locks:        syncutil.NewKeyLock(),
		tracer:       tracing.NopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a [Synchronizer].
type Option func(*Synchronizer)

// WithVersion sets the version applied to every target.
func WithVersion(version string) Option {
	return func(s *Synchronizer) {
		s.Version = version
	}
}

// WithTargets replaces the default target set.
func WithTargets(targets []Target) Option {
	return func(s *Synchronizer) {
		s.Targets = targets
	}
}

// WithMaxFileSize sets the maximum size of a target manifest.
func WithMaxFileSize(size *resource.Quantity) Option {
	return func(s *Synchronizer) {
		s.MaxFileSize = size
	}
}

// WithMaxScanLines sets the number of leading lines searched for a version
// declaration.
func WithMaxScanLines(maxScanLines int) Option {
	return func(s *Synchronizer) {
		s.MaxScanLines = maxScanLines
	}
}

// WithTimeout sets the timeout for a whole operation.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Synchronizer) {
		s.Timeout = timeout
	}
}

// WithOutput sets the writer receiving per-target confirmation output.
func WithOutput(w io.Writer) Option {
	return func(s *Synchronizer) {
		s.w = w
	}
}

// WithTracer sets the tracer receiving operation spans.
func WithTracer(tracer tracing.Tracer) Option {
	return func(s *Synchronizer) {
		s.tracer = tracer
	}
}

// Subscribe registers f to receive progress events.
func (s *Synchronizer) Subscribe(f func(any)) {
	s.subs = append(s.subs, f)
}

func (s *Synchronizer) broadcastEvent(evt any) {
	for _, sub := range s.subs {
		sub(evt)
	}
}

// Sync rewrites the version declaration of every target, in order. The first
// failure aborts the run: earlier targets keep their new content, and all
// remaining targets are left untouched.
func (s *Synchronizer) Sync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	logger := slog.With(
		slog.String("cmd", "sync"),
		slog.String("version", s.Version),
	)

	span := s.tracer.StartSpan("sync")
	span.SetBaggageItem("version", s.Version)
	span.SetBaggageItem("targets", len(s.Targets))
	defer span.Finish()

	s.broadcastEvent(EventSetTargetTotal(len(s.Targets)))

	for _, target := range s.Targets {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sync aborted: %w", err)
		}

		s.broadcastEvent(EventSyncingTarget(target.Path))

		err := s.syncTarget(logger, target)

		s.broadcastEvent(EventSyncedTarget{Target: target.Path, Err: err})

		if err != nil {
			return fmt.Errorf("sync %q: %w", target.Path, err)
		}
	}

	logger.Info("sync complete", slog.Int("targets", len(s.Targets)))

	return nil
}

func (s *Synchronizer) syncTarget(logger *slog.Logger, target Target) error {
	tLogger := logger.With(
		slog.String("target", target.Key()),
		slog.String("path", target.Path),
	)

	resolved, err := pathutil.ResolveFilePath(s.absBasePath, s.repoRoot, target.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTargetResolve, err)
	}

	release := s.locks.Acquire(resolved.String())
	defer release()

	fi, err := os.Stat(resolved.String())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTargetLoad, err)
	}

	m, err := manifest.LoadWithLimit(resolved.String(), s.MaxFileSize.Value())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTargetLoad, err)
	}

	idx, err := m.FindVersionLine(s.MaxScanLines)
	if err != nil {
		return err
	}

	tLogger.Debug("found version declaration", slog.Int("line", idx+1))

	m.SetVersion(idx, s.Version)

	err = fileutil.WriteAtomic(resolved.String(), m.Bytes(), fi.Mode().Perm())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTargetWrite, err)
	}

	tLogger.Info("updated version declaration", slog.Int("line", idx+1))

	_, err = fmt.Fprintf(s.w, "%s version updated\n", target.Path)
	if err != nil {
		return fmt.Errorf("failed to write to output: %w", err)
	}

	return nil
}
