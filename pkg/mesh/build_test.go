package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// soupFromTriangles unrolls triangles given as flat position triples, with
// zeroed UVs and +Z normals, matching the Build input contract.
func soupFromTriangles(positions ...float32) *Soup {
	n := len(positions) / 3
	s := &Soup{
		Positions: positions,
		UVs:       make([]float32, n*2),
		Normals:   make([]float32, n*3),
	}
	for i := 0; i < n; i++ {
		s.Normals[i*3+2] = 1
	}
	return s
}

// quadSoup is a planar unit quad split into two coplanar triangles sharing
// the diagonal (0,0)-(1,1).
func quadSoup() *Soup {
	return soupFromTriangles(
		0, 0, 0, 1, 0, 0, 1, 1, 0,
		0, 0, 0, 1, 1, 0, 0, 1, 0,
	)
}

func TestBuildWeldsSharedCorners(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	// 6 unrolled corners weld down to the quad's 4 distinct vertices.
	require.Len(t, m.Vertices, 4)
	require.Len(t, m.Faces, 2)
	// Quad: 4 rim edges + the shared diagonal.
	require.Len(t, m.Edges, 5)
}

func TestWeldingIdempotence(t *testing.T) {
	// A triangle whose points are all far apart relative to the weld
	// tolerance must come through with one output vertex per input vertex.
	m, err := soupFromTriangles(0, 0, 0, 10, 0, 0, 0, 10, 0).Build()
	require.NoError(t, err)
	require.Len(t, m.Vertices, 3)
}

func TestEdgeUniqueness(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	seen := make(map[pair]bool)
	for i := range m.Edges {
		e := &m.Edges[i]
		if e.Deleted {
			continue
		}
		p := makePair(e.V1, e.V2)
		require.False(t, seen[p], "pair (%d,%d) appears twice", p.a, p.b)
		require.Less(t, e.V1, e.V2, "edge pair not normalized")
		seen[p] = true
	}
}

func TestEdgesNormalizedAndLive(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)
	for i := range m.Edges {
		e := &m.Edges[i]
		require.NotEqual(t, e.V1, e.V2)
		require.False(t, m.Vertices[e.V1].Deleted)
		require.False(t, m.Vertices[e.V2].Deleted)
	}
}

func TestDegenerateTrianglesDropped(t *testing.T) {
	// First triple has two coincident corners and welds to a two-index
	// triangle; second triple is fine.
	m, err := soupFromTriangles(
		0, 0, 0, 0, 0, 0, 1, 0, 0,
		0, 0, 0, 1, 0, 0, 0, 1, 0,
	).Build()
	require.NoError(t, err)
	require.Len(t, m.Faces, 1)
}

func TestSameTriangleWoundTwice(t *testing.T) {
	// A non-manifold pair of faces over the same three vertices must not
	// produce duplicate edge records.
	m, err := soupFromTriangles(
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		0, 0, 0, 0, 1, 0, 1, 0, 0,
	).Build()
	require.NoError(t, err)
	require.Len(t, m.Vertices, 3)
	require.Len(t, m.Faces, 2)
	require.Len(t, m.Edges, 3)
}

func TestBoundaryFlags(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	diag, ok := m.LookupEdge(0, 2)
	require.True(t, ok)

	boundary := 0
	for i := range m.Edges {
		if m.Edges[i].Boundary {
			boundary++
		}
	}
	require.Equal(t, 4, boundary, "the four rim edges are boundary")
	require.False(t, m.Edges[diag].Boundary, "shared diagonal is interior")
}

func TestFacePlanes(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)
	for i := range m.Faces {
		f := &m.Faces[i]
		require.InDelta(t, 1.0, f.Normal.Len(), 1e-12, "unit normal")
		// Every vertex of the face satisfies the plane equation.
		for _, vi := range []int{f.V1, f.V2, f.V3} {
			p := m.Vertices[vi].Position
			dist := f.Plane.X()*p.X() + f.Plane.Y()*p.Y() + f.Plane.Z()*p.Z() + f.Plane.W()
			require.InDelta(t, 0.0, dist, 1e-12)
		}
	}
}

func TestBuildRejectsShortArrays(t *testing.T) {
	tests := []struct {
		name                 string
		count                int
		pos, uv, norm        int // element counts
	}{
		{"short positions", 3, 6, 6, 9},
		{"short uvs", 3, 9, 4, 9},
		{"short normals", 3, 9, 6, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.count,
				make([]float32, tt.pos),
				make([]float32, tt.uv),
				make([]float32, tt.norm))
			require.Error(t, err)
		})
	}
}

func TestLookupEdgeBothOrders(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	a, ok := m.LookupEdge(0, 2)
	require.True(t, ok)
	b, ok := m.LookupEdge(2, 0)
	require.True(t, ok)
	require.Equal(t, a, b)

	_, ok = m.LookupEdge(1, 3)
	require.False(t, ok, "no edge between the quad's opposite corners")
}

func TestRemapEdgeDegenerate(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	ei, ok := m.LookupEdge(0, 1)
	require.True(t, ok)
	require.Equal(t, EdgeDegenerate, m.RemapEdge(ei, 1, 0))
	require.True(t, m.Edges[ei].Deleted)
	_, ok = m.LookupEdge(0, 1)
	require.False(t, ok)
}

func TestRemapEdgeDuplicate(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	// Remapping vertex 2 onto vertex 0 turns edge (1,2) into (0,1), a pair
	// that already exists; the remapped record must be deleted, the
	// original must survive.
	orig, ok := m.LookupEdge(0, 1)
	require.True(t, ok)
	ei, ok := m.LookupEdge(1, 2)
	require.True(t, ok)

	require.Equal(t, EdgeDuplicate, m.RemapEdge(ei, 2, 0))
	require.True(t, m.Edges[ei].Deleted)

	resolved, ok := m.LookupEdge(0, 1)
	require.True(t, ok)
	require.Equal(t, orig, resolved)
}

func TestRemapFaceDegenerate(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	require.False(t, m.RemapFace(0, m.Faces[0].V2, m.Faces[0].V1))
	require.True(t, m.Faces[0].Deleted)
	require.True(t, m.RemapFace(1, 99, 0), "untouched face stays live")
}

func TestLiveCountsAndDeletion(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	require.Equal(t, 4, m.LiveVertexCount())
	require.Equal(t, 5, m.LiveEdgeCount())
	require.Equal(t, 2, m.LiveFaceCount())

	m.DeleteVertex(3)
	m.DeleteVertex(3) // idempotent
	require.Equal(t, 3, m.LiveVertexCount())
	require.Equal(t, 1, m.DeletedVertices)

	m.DeleteFace(1)
	require.Equal(t, 1, m.LiveFaceCount())
}

func TestCompactSkipsDeleted(t *testing.T) {
	m, err := quadSoup().Build()
	require.NoError(t, err)

	m.DeleteFace(1)
	c := m.Compact()

	require.Len(t, c.Indices, 3)
	require.Len(t, c.Positions, 3, "only the surviving face's vertices are emitted")
	require.Len(t, c.Normals, 3)
	require.Len(t, c.UVs, 3)
	require.Len(t, c.Colors, 3)
	for _, idx := range c.Indices {
		require.Less(t, int(idx), len(c.Positions))
	}
}

func TestAutoGridCellScalesWithInput(t *testing.T) {
	small := soupFromTriangles(0, 0, 0, 0.001, 0, 0, 0, 0.001, 0)
	m, err := small.Build()
	require.NoError(t, err)
	require.Len(t, m.Vertices, 3, "tiny features must not weld together")

	large := soupFromTriangles(0, 0, 0, 1000, 0, 0, 0, 1000, 0)
	m, err = large.Build()
	require.NoError(t, err)
	require.Len(t, m.Vertices, 3)
}
