package mesh

// Mesh owns the vertex, edge and face arrays. Entities are never removed
// from the slices; deletion flips the Deleted flag so indices held elsewhere
// (queue snapshots, affected-edge lists) stay valid.
type Mesh struct {
	Vertices []Vertex
	Edges    []Edge
	Faces    []Face

	// DeletedVertices counts logically deleted vertices, for progress
	// tracking by callers polling between simplification steps.
	DeletedVertices int

	// pairs maps each live edge's normalized vertex pair to its index in
	// Edges. Duplicate detection at build time and snapshot resolution at
	// simplification time both go through this index.
	pairs map[pair]int
}

// RemapOutcome describes what became of an edge after a vertex remap.
type RemapOutcome int

const (
	// EdgeUntouched: the edge did not reference the remapped vertex.
	EdgeUntouched RemapOutcome = iota
	// EdgeRemapped: an endpoint was rewritten and the edge is still live.
	EdgeRemapped
	// EdgeDegenerate: both endpoints became equal; the edge was deleted.
	EdgeDegenerate
	// EdgeDuplicate: the rewritten pair already names another live edge;
	// this edge was deleted to keep one live record per unordered pair.
	EdgeDuplicate
)

// LiveVertexCount returns the number of non-deleted vertices.
func (m *Mesh) LiveVertexCount() int {
	return len(m.Vertices) - m.DeletedVertices
}

// LiveEdgeCount returns the number of non-deleted edges.
func (m *Mesh) LiveEdgeCount() int {
	n := 0
	for i := range m.Edges {
		if !m.Edges[i].Deleted {
			n++
		}
	}
	return n
}

// LiveFaceCount returns the number of non-deleted faces.
func (m *Mesh) LiveFaceCount() int {
	n := 0
	for i := range m.Faces {
		if !m.Faces[i].Deleted {
			n++
		}
	}
	return n
}

// LookupEdge resolves the unordered pair (v1,v2) to a live edge index.
// Both argument orders match.
func (m *Mesh) LookupEdge(v1, v2 int) (int, bool) {
	i, ok := m.pairs[makePair(v1, v2)]
	if !ok || m.Edges[i].Deleted {
		return 0, false
	}
	return i, true
}

// DeleteVertex marks vertex i deleted and bumps the deletion counter.
func (m *Mesh) DeleteVertex(i int) {
	if m.Vertices[i].Deleted {
		return
	}
	m.Vertices[i].Deleted = true
	m.DeletedVertices++
}

// DeleteEdge marks edge i deleted and drops it from the pair index.
func (m *Mesh) DeleteEdge(i int) {
	e := &m.Edges[i]
	if e.Deleted {
		return
	}
	e.Deleted = true
	key := makePair(e.V1, e.V2)
	if j, ok := m.pairs[key]; ok && j == i {
		delete(m.pairs, key)
	}
}

// DeleteFace marks face i deleted.
func (m *Mesh) DeleteFace(i int) {
	m.Faces[i].Deleted = true
}

// RemapEdge rewrites any reference to vertex from in edge i to vertex to,
// keeping the pair index current. A remap that collapses the edge onto a
// single vertex deletes it (EdgeDegenerate); a remap whose resulting pair
// already names another live edge deletes this one (EdgeDuplicate) so that
// no unordered pair is ever represented by two live records.
func (m *Mesh) RemapEdge(i, from, to int) RemapOutcome {
	e := &m.Edges[i]
	if e.Deleted || !e.References(from) {
		return EdgeUntouched
	}

	delete(m.pairs, makePair(e.V1, e.V2))
	if e.V1 == from {
		e.V1 = to
	}
	if e.V2 == from {
		e.V2 = to
	}
	if e.V1 == e.V2 {
		e.Deleted = true
		return EdgeDegenerate
	}
	if e.V1 > e.V2 {
		e.V1, e.V2 = e.V2, e.V1
	}

	key := pair{e.V1, e.V2}
	if j, ok := m.pairs[key]; ok && j != i && !m.Edges[j].Deleted {
		e.Deleted = true
		return EdgeDuplicate
	}
	m.pairs[key] = i
	return EdgeRemapped
}

// RemapFace rewrites any reference to vertex from in face i to vertex to.
// A face left with a repeated index is degenerate and is deleted; the
// return value reports whether the face is still live.
func (m *Mesh) RemapFace(i, from, to int) bool {
	f := &m.Faces[i]
	if f.Deleted {
		return false
	}
	if f.V1 == from {
		f.V1 = to
	}
	if f.V2 == from {
		f.V2 = to
	}
	if f.V3 == from {
		f.V3 = to
	}
	if f.Degenerate() {
		f.Deleted = true
		return false
	}
	return true
}

// CompactMesh is a densely indexed snapshot of the live portion of a Mesh,
// in the flat layouts asset writers expect.
type CompactMesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Colors    [][4]float32
	Indices   []uint32
}

// Compact extracts the live vertices and faces into densely indexed arrays.
// Deleted entities are skipped and surviving vertices are renumbered; the
// Mesh itself is not modified.
func (m *Mesh) Compact() *CompactMesh {
	out := &CompactMesh{}
	remap := make(map[int]uint32, m.LiveVertexCount())

	emit := func(vi int) uint32 {
		if idx, ok := remap[vi]; ok {
			return idx
		}
		v := &m.Vertices[vi]
		idx := uint32(len(out.Positions))
		out.Positions = append(out.Positions, [3]float32{
			float32(v.Position.X()), float32(v.Position.Y()), float32(v.Position.Z()),
		})
		out.Normals = append(out.Normals, [3]float32{
			float32(v.Normal.X()), float32(v.Normal.Y()), float32(v.Normal.Z()),
		})
		out.UVs = append(out.UVs, [2]float32{
			float32(v.TexCoord.X()), float32(v.TexCoord.Y()),
		})
		out.Colors = append(out.Colors, [4]float32{
			float32(v.Color.X()), float32(v.Color.Y()), float32(v.Color.Z()), float32(v.Color.W()),
		})
		remap[vi] = idx
		return idx
	}

	for i := range m.Faces {
		f := &m.Faces[i]
		if f.Deleted {
			continue
		}
		out.Indices = append(out.Indices, emit(f.V1), emit(f.V2), emit(f.V3))
	}
	return out
}
