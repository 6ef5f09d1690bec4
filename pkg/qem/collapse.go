package qem

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/decimate/pkg/mesh"
)

// coincidentEpsilon: below this endpoint separation the attribute blend
// factor falls back to the midpoint.
const coincidentEpsilon = 1e-10

// Collapse merges edge ei's two vertices at its solved optimal position.
// The first endpoint survives; the second is marked deleted along with the
// edge itself, every live edge and face is remapped off the removed vertex
// (deleting any that degenerate or duplicate an existing pair), the
// survivor's quadric is rebuilt from the post-remap face set, costs of edges
// now touching the survivor are refreshed, and texture coordinate and color
// are interpolated between the endpoints' pre-collapse values.
//
// Returns the surviving vertex index. ok is false, with no mutation, when
// the edge or either endpoint is already deleted.
func Collapse(m *mesh.Mesh, ei int) (survivor int, ok bool) {
	e := &m.Edges[ei]
	if e.Deleted || m.Vertices[e.V1].Deleted || m.Vertices[e.V2].Deleted {
		return 0, false
	}

	v1, v2 := e.V1, e.V2
	opt := e.Optimal

	// Pre-collapse endpoint state, needed for attribute interpolation
	// after both vertices have been moved.
	p1 := m.Vertices[v1].Position
	p2 := m.Vertices[v2].Position
	uv1, uv2 := m.Vertices[v1].TexCoord, m.Vertices[v2].TexCoord
	c1, c2 := m.Vertices[v1].Color, m.Vertices[v2].Color

	// Moving v2 is transient bookkeeping: it is about to be deleted but
	// keeping both endpoints coincident avoids a window where a stale
	// reference sees the old position.
	m.Vertices[v1].Position = opt
	m.Vertices[v2].Position = opt
	m.DeleteVertex(v2)
	m.DeleteEdge(ei)

	var affected []int
	for i := range m.Edges {
		if m.Edges[i].Deleted {
			continue
		}
		switch m.RemapEdge(i, v2, v1) {
		case mesh.EdgeDegenerate, mesh.EdgeDuplicate:
			// Deleted by the store.
		default:
			if m.Edges[i].References(v1) {
				affected = append(affected, i)
			}
		}
	}

	for i := range m.Faces {
		if m.Faces[i].Deleted {
			continue
		}
		m.RemapFace(i, v2, v1)
	}

	AccumulateVertexQuadric(m, v1)

	for _, i := range affected {
		if !m.Edges[i].Deleted {
			ComputeCost(m, &m.Edges[i])
		}
	}

	// Blend factor t measures where the merge position landed between the
	// original endpoints: 0 at v1, 1 at v2, midpoint when they coincided.
	t := 0.5
	if span := p1.Sub(p2).Len(); span > coincidentEpsilon {
		t = mgl64.Clamp(opt.Sub(p1).Len()/span, 0, 1)
	}
	m.Vertices[v1].TexCoord = lerp2(uv1, uv2, t)
	m.Vertices[v1].Color = lerp4(c1, c2, t)

	return v1, true
}

func lerp2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func lerp4(a, b mgl64.Vec4, t float64) mgl64.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}
