// control/control_test.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/momentics/shmchan/channel"
)

func TestConfigStoreSnapshotIsolation(t *testing.T) {
	cs := NewConfigStore()
	cs.SetConfig(map[string]any{"capacity": 8})

	snap := cs.GetSnapshot()
	snap["capacity"] = 99
	require.Equal(t, 8, cs.GetSnapshot()["capacity"], "snapshot must be a copy")
}

func TestConfigStoreListeners(t *testing.T) {
	cs := NewConfigStore()
	calls := 0
	cs.OnReload(func() { calls++ })
	cs.OnReload(func() { calls++ })

	cs.SetConfig(map[string]any{"k": "v"})
	require.Equal(t, 2, calls)

	cs.SetConfig(map[string]any{"k": "w"})
	require.Equal(t, 4, calls)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shmchan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 8\nconsumers: 4\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.EqualValues(t, 8, cfg["capacity"])
	require.EqualValues(t, 4, cfg["consumers"])
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestMetricsRegistrySnapshot(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Set("puts", 3)
	mr.Set("puts", 4)
	require.Equal(t, 4, mr.GetSnapshot()["puts"])
}

func TestControlAdapterStats(t *testing.T) {
	ctrl := New()
	require.NoError(t, ctrl.SetConfig(map[string]any{"capacity": 8}))
	require.Equal(t, 8, ctrl.GetConfig()["capacity"])

	ctrl.RegisterDebugProbe("answer", func() any { return 42 })
	require.Equal(t, 42, ctrl.Stats()["debug.answer"])
}

func TestInstrumentedChannelCounts(t *testing.T) {
	ctx := context.Background()
	ch, err := channel.NewBounded[int](4)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := NewChannelMetrics(reg, ch.Len)
	wrapped := Instrument[int](ch, m)

	require.NoError(t, wrapped.Put(ctx, 1))
	require.NoError(t, wrapped.Put(ctx, 2))
	v, err := wrapped.Take(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.Equal(t, float64(2), testutil.ToFloat64(m.PutsTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(m.TakesTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Occupancy), "gauge tracks occupancy")

	require.Equal(t, 1, wrapped.Len())
	require.Equal(t, 4, wrapped.Cap())
	require.NoError(t, wrapped.Close())
}

func TestInstrumentedChannelSkipsFailedOps(t *testing.T) {
	ctx := context.Background()
	ch, err := channel.NewBounded[int](4)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := NewChannelMetrics(reg, ch.Len)
	wrapped := Instrument[int](ch, m)

	require.NoError(t, wrapped.Close())
	require.Error(t, wrapped.Put(ctx, 1))
	_, err = wrapped.Take(ctx)
	require.Error(t, err)

	require.Equal(t, float64(0), testutil.ToFloat64(m.PutsTotal))
	require.Equal(t, float64(0), testutil.ToFloat64(m.TakesTotal))
}
