package qem

import (
	"container/heap"

	"github.com/chazu/decimate/pkg/mesh"
)

// DefaultBatchFraction caps one Step at collapsing 1% of the mesh's original
// vertex count, pacing simplification for callers that poll between steps.
const DefaultBatchFraction = 0.01

// Simplifier schedules edge collapses cheapest-first. The queue holds value
// snapshots of edges, not live references; each pop is resolved back to the
// live record by its unordered endpoint pair and discarded if the edge has
// since been deleted. Stale costs are handled lazily: collapses mark the
// neighborhood dirty, and a dirty edge popped from the queue is re-costed
// and re-enqueued instead of collapsed. Duplicated queue entries for the
// same edge are harmless since only a resolved, clean entry is acted on.
type Simplifier struct {
	// BatchFraction is the per-Step collapse cap as a fraction of the
	// original vertex count. At least one collapse per Step is always
	// allowed. Zero means DefaultBatchFraction.
	BatchFraction float64

	queue         snapshotQueue
	originalVerts int
}

// NewSimplifier returns a Simplifier with the default batch cap.
func NewSimplifier() *Simplifier {
	return &Simplifier{BatchFraction: DefaultBatchFraction}
}

// snapshot is a by-value copy of an edge at enqueue time. Only the endpoint
// pair (for resolution) and the cost (for ordering) matter.
type snapshot struct {
	v1, v2 int
	cost   float64
}

// Step advances simplification by at most one batch of collapses and
// returns how many were performed. On the first call (or after the queue
// drains) it costs every live edge and builds the queue. Safe to call
// repeatedly; when no live edges remain it returns 0.
func (s *Simplifier) Step(m *mesh.Mesh) int {
	if s.queue.Len() == 0 {
		s.originalVerts = len(m.Vertices)
		for i := range m.Edges {
			e := &m.Edges[i]
			if e.Deleted {
				continue
			}
			ComputeCost(m, e)
			e.Dirty = false
			heap.Push(&s.queue, snapshot{e.V1, e.V2, e.Cost})
		}
	}

	frac := s.BatchFraction
	if frac <= 0 {
		frac = DefaultBatchFraction
	}
	budget := int(float64(s.originalVerts) * frac)
	if budget < 1 {
		budget = 1
	}

	collapsed := 0
	for s.queue.Len() > 0 {
		snap := heap.Pop(&s.queue).(snapshot)

		ei, ok := m.LookupEdge(snap.v1, snap.v2)
		if !ok {
			continue
		}
		e := &m.Edges[ei]

		if e.Dirty {
			ComputeCost(m, e)
			e.Dirty = false
			heap.Push(&s.queue, snapshot{e.V1, e.V2, e.Cost})
			continue
		}

		survivor, ok := Collapse(m, ei)
		if !ok {
			continue
		}

		// Everything now incident to the survivor carries a cost computed
		// against pre-collapse quadrics; mark stale and re-enqueue. The old
		// queue entries remain as duplicates and die in the dirty check.
		for i := range m.Edges {
			ne := &m.Edges[i]
			if ne.Deleted || !ne.References(survivor) {
				continue
			}
			ne.Dirty = true
			heap.Push(&s.queue, snapshot{ne.V1, ne.V2, ne.Cost})
		}

		collapsed++
		if collapsed >= budget {
			break
		}
	}
	return collapsed
}

// snapshotQueue is a min-heap of edge snapshots ordered by cost.
type snapshotQueue []snapshot

func (q snapshotQueue) Len() int            { return len(q) }
func (q snapshotQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q snapshotQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *snapshotQueue) Push(x interface{}) { *q = append(*q, x.(snapshot)) }

func (q *snapshotQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
