package synccmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"

	"github.com/macropower/versync/pkg/manifest"
	"github.com/macropower/versync/pkg/pathutil"
)

var (
	ErrStatusWorkerFailed = errors.New("status worker failed")
	ErrTargetStatus       = errors.New("target status failed")
)

// TargetStatus describes one target's current version declaration relative to
// the version a [Synchronizer] would apply.
type TargetStatus struct {
	// Target is the snake_case key of the target.
	Target string `json:"target" yaml:"target"`
	// Path is the target path relative to the base path.
	Path string `json:"path" yaml:"path"`
	// Version is the currently declared version, if one was found.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Error describes why the target could not be inspected.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Line is the 1-based line number of the version declaration.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
	// InSync reports whether the declared version already matches.
	InSync bool `json:"inSync" yaml:"inSync"`
}

// Status inspects every target concurrently and reports its declared version.
// A row is produced for every target, in order, even when inspection fails;
// the returned error aggregates all inspection failures. A target that is
// merely out of sync is not an error.
func (s *Synchronizer) Status(ctx context.Context) ([]TargetStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	logger := slog.With(
		slog.String("cmd", "status"),
		slog.String("version", s.Version),
	)

	span := s.tracer.StartSpan("status")
	span.SetBaggageItem("version", s.Version)
	span.SetBaggageItem("targets", len(s.Targets))
	defer span.Finish()

	workerCount := int64(runtime.GOMAXPROCS(0))
	sem := semaphore.NewWeighted(workerCount)
	errChan := make(chan error, len(s.Targets))
	statuses := make([]TargetStatus, len(s.Targets))

	for i, target := range s.Targets {
		tLogger := logger.With(
			slog.String("target", target.Key()),
			slog.String("path", target.Path),
		)

		err := sem.Acquire(ctx, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStatusWorkerFailed, err)
		}

		go func() {
			defer sem.Release(1)

			ts := s.statusTarget(target)
			statuses[i] = ts

			if ts.Error != "" {
				errChan <- fmt.Errorf("%w: %s: %s", ErrTargetStatus, target.Path, ts.Error)

				return
			}

			tLogger.Debug("inspected target",
				slog.String("current_version", ts.Version),
				slog.Bool("in_sync", ts.InSync),
			)
		}()
	}

	err := sem.Acquire(ctx, workerCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatusWorkerFailed, err)
	}

	close(errChan)

	var merr error
	for err := range errChan {
		merr = multierror.Append(merr, err)
	}
	if merr != nil {
		return statuses, merr
	}

	logger.Debug("status complete", slog.Int("targets", len(statuses)))

	return statuses, nil
}

func (s *Synchronizer) statusTarget(target Target) TargetStatus {
	ts := TargetStatus{
		Target: target.Key(),
		Path:   target.Path,
	}

	resolved, err := pathutil.ResolveFilePath(s.absBasePath, s.repoRoot, target.Path)
	if err != nil {
		ts.Error = err.Error()

		return ts
	}

	release := s.locks.AcquireShared(resolved.String())
	defer release()

	if _, err := os.Stat(resolved.String()); err != nil {
		ts.Error = err.Error()

		return ts
	}

	m, err := manifest.LoadWithLimit(resolved.String(), s.MaxFileSize.Value())
	if err != nil {
		ts.Error = err.Error()

		return ts
	}

	idx, err := m.FindVersionLine(s.MaxScanLines)
	if err != nil {
		ts.Error = err.Error()

		return ts
	}

	version, err := m.Version(idx)
	if err != nil {
		ts.Error = err.Error()

		return ts
	}

	ts.Line = idx + 1
	ts.Version = version
	ts.InSync = version == s.Version

	return ts
}
