package synctui_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/macropower/versync/pkg/synccmd"
	"github.com/macropower/versync/pkg/synctui"
)

func TestSyncModel_OneSuccess(t *testing.T) {
	t.Parallel()

	m := synctui.NewSyncModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(synccmd.EventSetTargetTotal(1))
	tm.Send(synccmd.EventSyncingTarget("vec-utils/Cargo.toml"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("vec-utils/Cargo.toml")) &&
				bytes.Contains(bts, []byte("░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░ 0/1"))
		},
	)

	tm.Send(synccmd.EventSyncedTarget{Target: "vec-utils/Cargo.toml"})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✓ vec-utils/Cargo.toml"))
		},
	)

	tm.Send(synccmd.EventDone{})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)

	require.Contains(t, string(out), "Done! Synchronized 1 manifests.")
}

func TestSyncModel_OneError(t *testing.T) {
	t.Parallel()

	m := synctui.NewSyncModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(synccmd.EventSetTargetTotal(1))
	tm.Send(synccmd.EventSyncingTarget("vec-utils/Cargo.toml"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("vec-utils/Cargo.toml")) &&
				bytes.Contains(bts, []byte("░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░ 0/1"))
		},
	)

	tm.Send(synccmd.EventSyncedTarget{Target: "vec-utils/Cargo.toml", Err: errors.New("test error")})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✗ vec-utils/Cargo.toml"))
		},
	)

	tm.Send(synccmd.EventDone{Err: errors.New("test error")})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)

	require.Contains(t, string(out), "test error")
	require.NotContains(t, string(out), "Done!")
}

func TestSyncModel_MultipleSuccess(t *testing.T) {
	t.Parallel()

	m := synctui.NewSyncModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(synccmd.EventSetTargetTotal(2))

	tm.Send(synccmd.EventSyncingTarget("vec-utils/Cargo.toml"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("vec-utils/Cargo.toml")) &&
				bytes.Contains(bts, []byte("░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░ 0/2"))
		},
	)

	tm.Send(synccmd.EventSyncedTarget{Target: "vec-utils/Cargo.toml"})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✓ vec-utils/Cargo.toml")) &&
				bytes.Contains(bts, []byte("████████████████████░░░░░░░░░░░░░░░░░░░░ 1/2"))
		},
	)

	tm.Send(synccmd.EventSyncingTarget("vec-utils-py/Cargo.toml"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("vec-utils-py/Cargo.toml"))
		},
	)

	tm.Send(synccmd.EventSyncedTarget{Target: "vec-utils-py/Cargo.toml"})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✓ vec-utils-py/Cargo.toml"))
		},
	)

	tm.Send(synccmd.EventDone{})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)

	require.Contains(t, string(out), "Done! Synchronized 2 manifests.")
}

func TestSyncModel_StopsAfterError(t *testing.T) {
	t.Parallel()

	m := synctui.NewSyncModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(synccmd.EventSetTargetTotal(3))

	tm.Send(synccmd.EventSyncingTarget("vec-utils/Cargo.toml"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("vec-utils/Cargo.toml")) &&
				bytes.Contains(bts, []byte("░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░ 0/3"))
		},
	)

	tm.Send(synccmd.EventSyncedTarget{Target: "vec-utils/Cargo.toml"})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✓ vec-utils/Cargo.toml"))
		},
	)

	tm.Send(synccmd.EventSyncingTarget("vec-utils-py/Cargo.toml"))
	tm.Send(synccmd.EventSyncedTarget{Target: "vec-utils-py/Cargo.toml", Err: errors.New("no such file")})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✗ vec-utils-py/Cargo.toml"))
		},
	)

	// The run aborts without reaching the third target.
	tm.Send(synccmd.EventDone{Err: errors.New("no such file")})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)

	require.Contains(t, string(out), "no such file")
	require.NotContains(t, string(out), "Done!")
}
