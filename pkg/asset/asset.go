// Package asset moves meshes across the engine boundary as binary glTF.
// Loading unrolls an indexed primitive into the flat triangle soup that
// mesh.Build consumes; saving compacts the live portion of a simplified
// mesh back into an indexed GLB. The simplifier core itself knows nothing
// about file formats.
package asset

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/chazu/decimate/pkg/mesh"
)

// LoadGLB reads the first triangle primitive of a binary glTF file and
// unrolls it into a triangle soup. Missing normals are replaced by flat
// face normals and missing texture coordinates by zeros.
func LoadGLB(path string) (*mesh.Soup, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}

	prim, err := firstTrianglePrimitive(doc)
	if err != nil {
		return nil, err
	}

	posAcc, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("asset: %s: primitive has no POSITION attribute", path)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posAcc], nil)
	if err != nil {
		return nil, fmt.Errorf("asset: read positions: %w", err)
	}

	var normals [][3]float32
	if acc, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[acc], nil)
		if err != nil {
			return nil, fmt.Errorf("asset: read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if acc, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[acc], nil)
		if err != nil {
			return nil, fmt.Errorf("asset: read texture coords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("asset: read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return unroll(positions, normals, uvs, indices), nil
}

// SaveGLB compacts the live vertices and faces of m and writes them as a
// single-primitive binary glTF file.
func SaveGLB(m *mesh.Mesh, path string) error {
	c := m.Compact()
	if len(c.Indices) == 0 {
		return fmt.Errorf("asset: mesh has no live faces to save")
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "decimate"

	posAccessor := modeler.WritePosition(doc, c.Positions)
	normalAccessor := modeler.WriteNormal(doc, c.Normals)
	uvAccessor := modeler.WriteTextureCoord(doc, c.UVs)
	colorAccessor := modeler.WriteColor(doc, c.Colors)
	indicesAccessor := modeler.WriteIndices(doc, c.Indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   uint32(posAccessor),
			gltf.NORMAL:     uint32(normalAccessor),
			gltf.TEXCOORD_0: uint32(uvAccessor),
			gltf.COLOR_0:    uint32(colorAccessor),
		},
		Indices: gltf.Index(uint32(indicesAccessor)),
	}

	doc.Meshes = []*gltf.Mesh{{Name: "simplified", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []uint32{0}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("asset: save %s: %w", path, err)
	}
	return nil
}

// firstTrianglePrimitive scans the document for a primitive in triangle
// mode.
func firstTrianglePrimitive(doc *gltf.Document) (*gltf.Primitive, error) {
	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode == gltf.PrimitiveTriangles {
				return prim, nil
			}
		}
	}
	return nil, fmt.Errorf("asset: document contains no triangle primitive")
}

// unroll expands indexed attributes into the per-triangle-corner stream the
// mesh builder expects. Triangles with an out-of-range index are dropped.
func unroll(positions, normals [][3]float32, uvs [][2]float32, indices []uint32) *mesh.Soup {
	soup := &mesh.Soup{
		Positions: make([]float32, 0, len(indices)*3),
		UVs:       make([]float32, 0, len(indices)*2),
		Normals:   make([]float32, 0, len(indices)*3),
	}

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= len(positions) || int(i1) >= len(positions) || int(i2) >= len(positions) {
			continue
		}

		var flat [3]float32
		if normals == nil {
			flat = faceNormal(positions[i0], positions[i1], positions[i2])
		}

		for _, idx := range [3]uint32{i0, i1, i2} {
			p := positions[idx]
			soup.Positions = append(soup.Positions, p[0], p[1], p[2])

			if normals != nil {
				n := normals[idx]
				soup.Normals = append(soup.Normals, n[0], n[1], n[2])
			} else {
				soup.Normals = append(soup.Normals, flat[0], flat[1], flat[2])
			}

			if uvs != nil {
				soup.UVs = append(soup.UVs, uvs[idx][0], uvs[idx][1])
			} else {
				soup.UVs = append(soup.UVs, 0, 0)
			}
		}
	}
	return soup
}

// faceNormal computes a normalized triangle normal in float32, good enough
// for a synthesized attribute.
func faceNormal(a, b, c [3]float32) [3]float32 {
	e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	l := n[0]*n[0] + n[1]*n[1] + n[2]*n[2]
	if l > 0 {
		inv := 1 / sqrt32(l)
		n[0] *= inv
		n[1] *= inv
		n[2] *= inv
	}
	return n
}

func sqrt32(x float32) float32 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 12; i++ {
		z = (z + x/z) / 2
	}
	return z
}
