/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RecordOpIncrementsCounts(t *testing.T) {
	r := New()
	r.RecordOp(KindRead, 10*time.Millisecond)
	r.RecordOp(KindRead, 20*time.Millisecond)
	r.RecordOp(KindWrite, 5*time.Millisecond)

	snap := r.Snapshot()
	require.Equal(t, uint64(2), snap.Counts[KindRead])
	require.Equal(t, uint64(1), snap.Counts[KindWrite])
	require.Equal(t, uint64(30*time.Millisecond.Nanoseconds()), snap.NanosTotal[KindRead])
}

func TestRegistry_DisabledIsNoOp(t *testing.T) {
	r := New()
	r.Enable(false)
	r.RecordOp(KindRead, time.Second)

	snap := r.Snapshot()
	require.Equal(t, uint64(0), snap.Counts[KindRead])
}

func TestRegistry_PercentilesOrderCorrectly(t *testing.T) {
	r := New()
	for i := 1; i <= 100; i++ {
		r.RecordOp(KindSerialize, time.Duration(i)*time.Millisecond)
	}
	snap := r.Snapshot()
	require.True(t, snap.P50 <= snap.P95)
	require.True(t, snap.P95 <= snap.P99)
	require.True(t, snap.P99 <= snap.P999)
}

func TestRegistry_ReservoirCapsMemoryNotCount(t *testing.T) {
	r := New()
	for i := 0; i < reservoirCapacity*3; i++ {
		r.RecordOp(KindMove, time.Duration(i))
	}
	snap := r.Snapshot()
	require.Equal(t, uint64(reservoirCapacity*3), snap.Counts[KindMove])
	require.LessOrEqual(t, len(r.reservoir), reservoirCapacity)
}

func TestRegistry_EnablePrometheusIdempotent(t *testing.T) {
	r := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, r.EnablePrometheus(reg, "typedkv_test"))
	require.NoError(t, r.EnablePrometheus(reg, "typedkv_test"))

	r.RecordOp(KindRead, time.Millisecond)
	mf, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mf)
}

func TestKind_StringNamesAllSix(t *testing.T) {
	for k := KindRead; k <= KindMove; k++ {
		require.NotEqual(t, "unknown", k.String())
	}
}
