// Package mesh implements the indexed triangle mesh store used by the
// simplifier. Vertices, edges and faces live in growth-only arrays and are
// deleted logically via flags so that integer indices stay valid for the
// whole run. The store owns all three arrays and coordinates every mutation;
// other packages receive views into this single structure.
package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a welded mesh vertex. The quadric accumulates the fundamental
// error quadrics of every live face touching the vertex; it starts at zero
// and is maintained by the qem package.
type Vertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	TexCoord mgl64.Vec2
	Color    mgl64.Vec4
	Quadric  mgl64.Mat4
	Deleted  bool
}

// Edge is an unordered pair of vertex indices, normalized so V1 < V2.
// Cost and Optimal are produced by the edge cost solver. Dirty marks the
// stored cost as possibly stale; the scheduler recomputes it lazily.
type Edge struct {
	V1, V2   int
	Cost     float64
	Optimal  mgl64.Vec3
	Boundary bool
	Dirty    bool
	Deleted  bool
}

// Face is a triangle with a unit normal and the homogeneous plane equation
// [a b c d] satisfying ax+by+cz+d = 0 for points on the face.
type Face struct {
	V1, V2, V3 int
	Normal     mgl64.Vec3
	Plane      mgl64.Vec4
	Deleted    bool
}

// References reports whether the face uses vertex index v.
func (f *Face) References(v int) bool {
	return f.V1 == v || f.V2 == v || f.V3 == v
}

// Degenerate reports whether any two of the face's indices coincide.
func (f *Face) Degenerate() bool {
	return f.V1 == f.V2 || f.V2 == f.V3 || f.V3 == f.V1
}

// References reports whether the edge uses vertex index v.
func (e *Edge) References(v int) bool {
	return e.V1 == v || e.V2 == v
}

// pair is a normalized unordered vertex index pair, the key of the edge
// lookup index. a < b always.
type pair struct {
	a, b int
}

func makePair(i, j int) pair {
	if i < j {
		return pair{i, j}
	}
	return pair{j, i}
}
