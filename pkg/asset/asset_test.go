package asset_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/decimate/pkg/asset"
	"github.com/chazu/decimate/pkg/mesh"
	"github.com/chazu/decimate/pkg/primitive"
)

func tetraMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	positions := []float32{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		0, 0, 0, 1, 0, 0, 0, 0, 1,
		0, 0, 0, 0, 1, 0, 0, 0, 1,
		1, 0, 0, 0, 1, 0, 0, 0, 1,
	}
	n := len(positions) / 3
	uvs := make([]float32, n*2)
	normals := make([]float32, n*3)
	for i := 0; i < n; i++ {
		normals[i*3] = 1
	}
	m, err := mesh.Build(n, positions, uvs, normals)
	require.NoError(t, err)
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := tetraMesh(t)
	path := filepath.Join(t.TempDir(), "tetra.glb")

	require.NoError(t, asset.SaveGLB(m, path))

	soup, err := asset.LoadGLB(path)
	require.NoError(t, err)

	// One unrolled corner per live face corner.
	require.Equal(t, m.LiveFaceCount()*3, soup.VertexCount())

	// Rebuilding welds the corners back to the original vertex count.
	rebuilt, err := soup.Build()
	require.NoError(t, err)
	require.Equal(t, m.LiveVertexCount(), len(rebuilt.Vertices))
	require.Equal(t, m.LiveFaceCount(), len(rebuilt.Faces))
}

func TestSaveSkipsDeletedGeometry(t *testing.T) {
	m := tetraMesh(t)
	m.DeleteFace(0)
	path := filepath.Join(t.TempDir(), "trimmed.glb")

	require.NoError(t, asset.SaveGLB(m, path))

	soup, err := asset.LoadGLB(path)
	require.NoError(t, err)
	require.Equal(t, 9, soup.VertexCount(), "three live faces remain")
}

func TestSaveRejectsEmptyMesh(t *testing.T) {
	m := tetraMesh(t)
	for i := range m.Faces {
		m.DeleteFace(i)
	}
	require.Error(t, asset.SaveGLB(m, filepath.Join(t.TempDir(), "empty.glb")))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := asset.LoadGLB(filepath.Join(t.TempDir(), "nope.glb"))
	require.Error(t, err)
}

func TestRoundTripGeneratedPrimitive(t *testing.T) {
	soup, err := primitive.Box(1, 1, 1, 12)
	require.NoError(t, err)
	m, err := soup.Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "box.glb")
	require.NoError(t, asset.SaveGLB(m, path))

	loaded, err := asset.LoadGLB(path)
	require.NoError(t, err)
	require.Equal(t, m.LiveFaceCount()*3, loaded.VertexCount())
}
