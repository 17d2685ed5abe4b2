package tracing_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/versync/pkg/log"
	"github.com/macropower/versync/pkg/tracing"
)

func TestLoggingTracer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(log.CreateHandler(buf, slog.LevelDebug, log.FormatLogfmt))
	tracer := tracing.NewLoggingTracer(logger)

	span := tracer.StartSpan("sync")
	span.SetBaggageItem("version", "0.2.5")
	span.Finish()

	out := buf.String()
	assert.Contains(t, out, "msg=trace")
	assert.Contains(t, out, "operation_name=sync")
	assert.Contains(t, out, "version=0.2.5")
	assert.Contains(t, out, "time_ms=")
}

func TestLoggingTracerLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(log.CreateHandler(buf, slog.LevelInfo, log.FormatLogfmt))
	tracer := tracing.NewLoggingTracer(logger)

	span := tracer.StartSpan("sync")
	span.Finish()

	// Spans are debug-level output.
	assert.Empty(t, buf.String())
}

func TestNopTracer(t *testing.T) {
	t.Parallel()

	span := tracing.NopTracer{}.StartSpan("sync")
	span.SetBaggageItem("version", "0.2.5")
	span.Finish()
}
