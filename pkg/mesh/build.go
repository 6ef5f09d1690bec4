package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// defaultGridScale sets the weld grid cell size as a fraction of the input
// bounding-box diagonal, so welding behaves the same across feature scales.
const defaultGridScale = 1e-3

// fallbackGridCell is used when the input has no spatial extent to derive a
// cell size from (empty input or all points coincident).
const fallbackGridCell = 1e-3

// BuildOptions tunes vertex welding. The zero value picks a grid cell
// proportional to the input bounding box and a merge epsilon of one tenth
// of the cell.
type BuildOptions struct {
	// GridCell is the spatial hash cell size. 0 means auto.
	GridCell float64
	// WeldEpsilon is the max distance between merged vertices. 0 means
	// GridCell / 10.
	WeldEpsilon float64
}

// Soup is a flat, triangle-unrolled vertex stream: input vertices i, i+1,
// i+2 form triangle i/3, with no vertex sharing assumed. This is the layout
// asset loaders and SDF tessellators hand to Build.
type Soup struct {
	Positions []float32 // 3 floats per vertex
	UVs       []float32 // 2 floats per vertex
	Normals   []float32 // 3 floats per vertex
}

// VertexCount returns the number of unrolled vertices in the soup.
func (s *Soup) VertexCount() int {
	return len(s.Positions) / 3
}

// Build constructs a Mesh from the soup. See the package-level Build.
func (s *Soup) Build() (*Mesh, error) {
	return Build(s.VertexCount(), s.Positions, s.UVs, s.Normals)
}

// Build constructs an indexed mesh from triangle-unrolled arrays:
//
//  1. Weld near-coincident input vertices through a spatial hash grid.
//  2. Form one face per input triple, dropping degenerate triangles.
//  3. Extract each unordered edge exactly once from the live faces.
//
// Quadrics and edge costs are not computed here; see the qem package.
// Malformed triangles are dropped silently, but mismatched array lengths are
// rejected outright since reading past them is the one caller error the
// engine cannot recover from locally.
func Build(vertexCount int, positions, uvs, normals []float32) (*Mesh, error) {
	return BuildWithOptions(vertexCount, positions, uvs, normals, BuildOptions{})
}

// BuildWithOptions is Build with explicit welding parameters.
func BuildWithOptions(vertexCount int, positions, uvs, normals []float32, opts BuildOptions) (*Mesh, error) {
	if len(positions) < vertexCount*3 {
		return nil, fmt.Errorf("mesh: positions array holds %d vertices, need %d", len(positions)/3, vertexCount)
	}
	if len(uvs) < vertexCount*2 {
		return nil, fmt.Errorf("mesh: uvs array holds %d vertices, need %d", len(uvs)/2, vertexCount)
	}
	if len(normals) < vertexCount*3 {
		return nil, fmt.Errorf("mesh: normals array holds %d vertices, need %d", len(normals)/3, vertexCount)
	}

	cell := opts.GridCell
	if cell <= 0 {
		cell = autoGridCell(vertexCount, positions)
	}
	eps := opts.WeldEpsilon
	if eps <= 0 {
		eps = cell / 10
	}

	m := &Mesh{pairs: make(map[pair]int)}

	// Step 1: weld. Bucket incoming vertices into grid cells and merge any
	// vertex within eps of an existing occupant of its cell. Two points
	// within eps that round to different cells are not merged; this is an
	// accepted approximation that keeps welding near O(N).
	grid := make(map[[3]int][]int)
	mapping := make([]int, vertexCount)
	for i := 0; i < vertexCount; i++ {
		p := mgl64.Vec3{
			float64(positions[i*3]), float64(positions[i*3+1]), float64(positions[i*3+2]),
		}
		key := [3]int{
			int(math.Floor(p.X() / cell)),
			int(math.Floor(p.Y() / cell)),
			int(math.Floor(p.Z() / cell)),
		}

		merged := false
		for _, existing := range grid[key] {
			if p.Sub(m.Vertices[existing].Position).Len() < eps {
				mapping[i] = existing
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		idx := len(m.Vertices)
		m.Vertices = append(m.Vertices, Vertex{
			Position: p,
			Normal: mgl64.Vec3{
				float64(normals[i*3]), float64(normals[i*3+1]), float64(normals[i*3+2]),
			},
			TexCoord: mgl64.Vec2{float64(uvs[i*2]), float64(uvs[i*2+1])},
			Color:    mgl64.Vec4{1, 1, 1, 1},
		})
		grid[key] = append(grid[key], idx)
		mapping[i] = idx
	}

	// Step 2: faces. Triples whose remapped indices are not pairwise
	// distinct, or whose area is zero, are dropped without reporting.
	for i := 0; i+2 < vertexCount; i += 3 {
		v1, v2, v3 := mapping[i], mapping[i+1], mapping[i+2]
		if v1 == v2 || v2 == v3 || v3 == v1 {
			continue
		}
		f, ok := newFace(v1, v2, v3,
			m.Vertices[v1].Position, m.Vertices[v2].Position, m.Vertices[v3].Position)
		if !ok {
			continue
		}
		m.Faces = append(m.Faces, f)
	}

	// Step 3: edges. The pair index guarantees each unordered pair appears
	// once even when adjacent faces (or a rewound duplicate face) share it.
	faceCount := make(map[pair]int)
	for i := range m.Faces {
		f := &m.Faces[i]
		for _, p := range [3]pair{
			makePair(f.V1, f.V2),
			makePair(f.V2, f.V3),
			makePair(f.V3, f.V1),
		} {
			if _, ok := m.pairs[p]; !ok {
				m.pairs[p] = len(m.Edges)
				m.Edges = append(m.Edges, Edge{V1: p.a, V2: p.b})
			}
			faceCount[p]++
		}
	}

	// An edge used by exactly one face lies on the surface boundary. The
	// flag is informational; nothing downstream branches on it.
	for p, n := range faceCount {
		if n == 1 {
			m.Edges[m.pairs[p]].Boundary = true
		}
	}

	return m, nil
}

// newFace builds a face record with its unit normal and plane equation.
// Zero-area triangles have no plane and are rejected.
func newFace(v1, v2, v3 int, p1, p2, p3 mgl64.Vec3) (Face, bool) {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.Len() < 1e-12 {
		return Face{}, false
	}
	n = n.Normalize()
	d := -n.Dot(p1)
	return Face{
		V1: v1, V2: v2, V3: v3,
		Normal: n,
		Plane:  mgl64.Vec4{n.X(), n.Y(), n.Z(), d},
	}, true
}

// autoGridCell derives the weld cell size from the bounding-box diagonal.
func autoGridCell(vertexCount int, positions []float32) float64 {
	if vertexCount == 0 {
		return fallbackGridCell
	}
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < vertexCount; i++ {
		for axis := 0; axis < 3; axis++ {
			v := float64(positions[i*3+axis])
			if v < min[axis] {
				min[axis] = v
			}
			if v > max[axis] {
				max[axis] = v
			}
		}
	}
	diag := max.Sub(min).Len()
	if diag <= 0 {
		return fallbackGridCell
	}
	return diag * defaultGridScale
}
