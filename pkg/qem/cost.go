package qem

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/decimate/pkg/mesh"
)

// singularEpsilon bounds |det| below which the constrained quadric system
// is treated as under-determined and solved by candidate evaluation.
const singularEpsilon = 1e-10

// ComputeCost solves for the edge's optimal merge position and collapse
// cost, overwriting e.Optimal and e.Cost. The mesh itself is read-only.
//
// The combined quadric Q = Q(v1)+Q(v2) is constrained to homogeneous weight
// one by replacing its last row with [0 0 0 1]; when the constrained matrix
// is invertible the solve is exact, otherwise the quadratic form is
// evaluated at v1, v2 and their midpoint and the cheapest candidate wins.
// Cost is always measured with the unconstrained Q.
func ComputeCost(m *mesh.Mesh, e *mesh.Edge) {
	q := m.Vertices[e.V1].Quadric.Add(m.Vertices[e.V2].Quadric)

	qbar := q
	qbar.Set(3, 0, 0)
	qbar.Set(3, 1, 0)
	qbar.Set(3, 2, 0)
	qbar.Set(3, 3, 1)

	if math.Abs(qbar.Det()) > singularEpsilon {
		x := qbar.Inv().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
		e.Optimal = x.Vec3()
		e.Cost = x.Dot(q.Mul4x1(x))
		return
	}

	p1 := m.Vertices[e.V1].Position
	p2 := m.Vertices[e.V2].Position
	candidates := [3]mgl64.Vec3{p1, p2, p1.Add(p2).Mul(0.5)}

	best := math.Inf(1)
	for _, c := range candidates {
		x := mgl64.Vec4{c.X(), c.Y(), c.Z(), 1}
		if cost := x.Dot(q.Mul4x1(x)); cost < best {
			best = cost
			e.Optimal = c
		}
	}
	e.Cost = best
}
