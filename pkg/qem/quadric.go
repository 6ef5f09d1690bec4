// Package qem implements quadric error metric simplification over a
// mesh.Mesh: per-vertex quadric accumulation, the per-edge cost and optimal
// position solver, the edge collapse operator, and a priority-driven
// scheduler with lazy cost invalidation.
//
// The method follows Garland & Heckbert, "Surface Simplification Using
// Quadric Error Metrics" (SIGGRAPH 97): each face contributes the outer
// product of its plane equation with itself, vertices accumulate the
// quadrics of their faces, and an edge's collapse cost is the accumulated
// squared plane distance at the error-minimizing merge position.
package qem

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/decimate/pkg/mesh"
)

// FundamentalQuadric returns Kp = p * p^T for a homogeneous plane equation
// p = [a b c d], a symmetric 4x4 matrix.
func FundamentalQuadric(plane mgl64.Vec4) mgl64.Mat4 {
	return plane.OuterProd4(plane)
}

// AccumulateVertexQuadric recomputes the quadric of one vertex from scratch
// by summing the fundamental quadrics of every live face referencing it.
// O(faces) per call; this is the incremental path used after a collapse.
func AccumulateVertexQuadric(m *mesh.Mesh, vi int) {
	q := mgl64.Mat4{}
	for i := range m.Faces {
		f := &m.Faces[i]
		if f.Deleted || !f.References(vi) {
			continue
		}
		q = q.Add(FundamentalQuadric(f.Plane))
	}
	m.Vertices[vi].Quadric = q
}

// InitializeQuadrics recomputes every vertex quadric in one pass over the
// faces: zero all quadrics, then add each live face's fundamental quadric to
// its three vertices. O(faces) total; this is the startup path and agrees
// with AccumulateVertexQuadric up to floating-point summation order.
func InitializeQuadrics(m *mesh.Mesh) {
	for i := range m.Vertices {
		m.Vertices[i].Quadric = mgl64.Mat4{}
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		if f.Deleted {
			continue
		}
		kp := FundamentalQuadric(f.Plane)
		m.Vertices[f.V1].Quadric = m.Vertices[f.V1].Quadric.Add(kp)
		m.Vertices[f.V2].Quadric = m.Vertices[f.V2].Quadric.Add(kp)
		m.Vertices[f.V3].Quadric = m.Vertices[f.V3].Quadric.Add(kp)
	}
}

// InitializeEdgeCosts solves cost and optimal position for every live edge.
// Run once after InitializeQuadrics and before the first simplification
// step.
func InitializeEdgeCosts(m *mesh.Mesh) {
	for i := range m.Edges {
		if m.Edges[i].Deleted {
			continue
		}
		ComputeCost(m, &m.Edges[i])
	}
}
