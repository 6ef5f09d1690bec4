package qem

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/decimate/pkg/mesh"
)

func TestSnapshotQueuePopsAscendingCost(t *testing.T) {
	var q snapshotQueue
	for _, c := range []float64{3.5, 0.25, 1.0, 0, 2.75} {
		heap.Push(&q, snapshot{cost: c})
	}

	prev := -1.0
	for q.Len() > 0 {
		s := heap.Pop(&q).(snapshot)
		require.GreaterOrEqual(t, s.cost, prev)
		prev = s.cost
	}
}

func TestStepRevalidatesDirtyCostsBeforeCollapsing(t *testing.T) {
	// Planar quad; every edge cost is legitimately zero or near zero.
	positions := []float32{
		0, 0, 0, 1, 0, 0, 1, 1, 0,
		0, 0, 0, 1, 1, 0, 0, 1, 0,
	}
	uvs := make([]float32, 12)
	normals := make([]float32, 18)
	for i := 0; i < 6; i++ {
		normals[i*3+2] = 1
	}
	m, err := mesh.Build(6, positions, uvs, normals)
	require.NoError(t, err)

	InitializeQuadrics(m)
	InitializeEdgeCosts(m)

	s := NewSimplifier()
	require.Equal(t, 1, s.Step(m))

	// Poison every surviving cost and flag it stale. The queue still holds
	// old snapshots; the scheduler must recompute on pop instead of
	// collapsing against the poisoned values.
	for i := range m.Edges {
		if m.Edges[i].Deleted {
			continue
		}
		m.Edges[i].Dirty = true
		m.Edges[i].Cost = 1e9
	}

	require.Equal(t, 1, s.Step(m))

	for i := range m.Edges {
		e := &m.Edges[i]
		if e.Deleted || e.Dirty {
			continue
		}
		require.Less(t, e.Cost, 1e9, "clean edge %d still carries the poisoned cost", i)
	}
}
