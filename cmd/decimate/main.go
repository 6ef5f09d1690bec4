// Command decimate reduces the triangle count of a mesh with quadric error
// metric simplification. The input is either a binary glTF file or a
// generated SDF primitive; the result is written back as GLB.
//
//	decimate -in bunny.glb -target 0.25 -out bunny_25.glb
//	decimate -shape sphere -cells 96 -target 0.1 -out sphere_10.glb
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chazu/decimate/pkg/asset"
	"github.com/chazu/decimate/pkg/mesh"
	"github.com/chazu/decimate/pkg/primitive"
	"github.com/chazu/decimate/pkg/qem"
)

func main() {
	var (
		inPath  = flag.String("in", "", "input GLB file")
		outPath = flag.String("out", "", "output GLB file (optional)")
		shape   = flag.String("shape", "", "generate a primitive instead of loading: box, sphere, cylinder")
		cells   = flag.Int("cells", 64, "marching cubes resolution for -shape")
		target  = flag.Float64("target", 0.5, "stop when live vertices fall below this fraction of the original count")
		batch   = flag.Float64("batch", qem.DefaultBatchFraction, "max collapses per step as a fraction of the original vertex count")
	)
	flag.Parse()

	soup, err := loadInput(*inPath, *shape, *cells)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("building mesh from %d input vertices", soup.VertexCount())
	m, err := soup.Build()
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	log.Printf("welded to %d vertices, %d edges, %d faces",
		len(m.Vertices), len(m.Edges), len(m.Faces))

	qem.InitializeQuadrics(m)
	qem.InitializeEdgeCosts(m)

	original := m.LiveVertexCount()
	goal := int(float64(original) * *target)

	simp := qem.NewSimplifier()
	simp.BatchFraction = *batch

	for m.LiveVertexCount() > goal {
		if simp.Step(m) == 0 {
			log.Printf("no collapsible edges remain")
			break
		}
		log.Printf("live: %d/%d vertices, %d faces",
			m.LiveVertexCount(), original, m.LiveFaceCount())
	}

	log.Printf("done: %d -> %d vertices, %d faces",
		original, m.LiveVertexCount(), m.LiveFaceCount())

	if *outPath != "" {
		if err := asset.SaveGLB(m, *outPath); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *outPath)
	}
}

// loadInput produces the triangle soup from either a GLB file or a
// generated primitive. Exactly one of inPath and shape must be set.
func loadInput(inPath, shape string, cells int) (*mesh.Soup, error) {
	switch {
	case inPath != "" && shape != "":
		return nil, fmt.Errorf("use either -in or -shape, not both")
	case inPath != "":
		return asset.LoadGLB(inPath)
	case shape != "":
		switch shape {
		case "box":
			return primitive.Box(1, 1, 1, cells)
		case "sphere":
			return primitive.Sphere(1, cells)
		case "cylinder":
			return primitive.Cylinder(2, 0.5, cells)
		default:
			return nil, fmt.Errorf("unknown shape %q", shape)
		}
	default:
		flag.Usage()
		os.Exit(2)
		return nil, nil
	}
}
