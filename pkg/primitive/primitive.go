// Package primitive generates triangle-soup test and demo meshes from
// signed distance functions using the github.com/deadsy/sdfx CAD library.
// Marching cubes emits exactly the unrolled per-triangle vertex stream that
// mesh.Build consumes, so these generators stand in for an external asset
// loader wherever a real model file is not available.
package primitive

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/decimate/pkg/mesh"
)

// defaultCells controls marching cubes tessellation resolution.
const defaultCells = 64

// Box returns the triangle soup of an axis-aligned box centered at the
// origin. cells <= 0 selects the default resolution.
func Box(x, y, z float64, cells int) (*mesh.Soup, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("primitive: box: %w", err)
	}
	return fromSDF(s, cells), nil
}

// Sphere returns the triangle soup of a sphere centered at the origin.
func Sphere(radius float64, cells int) (*mesh.Soup, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("primitive: sphere: %w", err)
	}
	return fromSDF(s, cells), nil
}

// Cylinder returns the triangle soup of a Z-axis cylinder centered at the
// origin.
func Cylinder(height, radius float64, cells int) (*mesh.Soup, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("primitive: cylinder: %w", err)
	}
	return fromSDF(s, cells), nil
}

// fromSDF tessellates the solid with marching cubes and unrolls the
// triangles into flat arrays. Normals are flat per-face; UVs are a planar
// XY projection over the solid's bounding box, enough to exercise attribute
// interpolation during simplification.
func fromSDF(s sdf.SDF3, cells int) *mesh.Soup {
	if cells <= 0 {
		cells = defaultCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	bb := s.BoundingBox()
	sizeX := bb.Max.X - bb.Min.X
	sizeY := bb.Max.Y - bb.Min.Y
	if sizeX <= 0 {
		sizeX = 1
	}
	if sizeY <= 0 {
		sizeY = 1
	}

	soup := &mesh.Soup{
		Positions: make([]float32, 0, len(triangles)*9),
		UVs:       make([]float32, 0, len(triangles)*6),
		Normals:   make([]float32, 0, len(triangles)*9),
	}

	for _, tri := range triangles {
		n := tri.Normal()
		length := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
		if length > 1e-12 {
			n.X /= length
			n.Y /= length
			n.Z /= length
		}
		for j := 0; j < 3; j++ {
			v := tri[j]
			soup.Positions = append(soup.Positions,
				float32(v.X), float32(v.Y), float32(v.Z))
			soup.Normals = append(soup.Normals,
				float32(n.X), float32(n.Y), float32(n.Z))
			soup.UVs = append(soup.UVs,
				float32((v.X-bb.Min.X)/sizeX), float32((v.Y-bb.Min.Y)/sizeY))
		}
	}
	return soup
}
