package loaders

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/geometry"
	"github.com/df07/go-meshtrace/pkg/log"
	"github.com/df07/go-meshtrace/pkg/material"
)

var logger = log.New("loaders")

// MeshTriangle references three positions and, optionally, three normals.
// A normal index of -1 means the corner has no normal.
type MeshTriangle struct {
	V [3]int
	N [3]int
}

// MeshData is the format-independent result of parsing a mesh file
type MeshData struct {
	Positions []core.Vec3
	Normals   []core.Vec3
	Triangles []MeshTriangle
}

// HasNormals reports whether every corner of the triangle has a normal
func (t MeshTriangle) HasNormals() bool {
	return t.N[0] >= 0 && t.N[1] >= 0 && t.N[2] >= 0
}

// MeshOptions controls how mesh data becomes primitives
type MeshOptions struct {
	Scale       float64   // Uniform scale applied before translation (0 means 1)
	Translate   core.Vec3 // Offset added after scaling
	FlatShading bool      // Ignore vertex normals even when present
}

// DefaultMeshOptions returns identity placement with smooth shading
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{Scale: 1.0}
}

// BuildComposite turns mesh data into triangles bound to mat
func BuildComposite(data *MeshData, mat material.Material, opts MeshOptions) *geometry.Composite {
	scale := opts.Scale
	if scale == 0 {
		scale = 1.0
	}

	place := func(p core.Vec3) core.Vec3 {
		return p.Multiply(scale).Add(opts.Translate)
	}

	// A negative scale mirrors the mesh, so normals have to follow
	normalSign := 1.0
	if scale < 0 {
		normalSign = -1.0
	}

	list := geometry.NewComposite()
	for _, tri := range data.Triangles {
		v0 := place(data.Positions[tri.V[0]])
		v1 := place(data.Positions[tri.V[1]])
		v2 := place(data.Positions[tri.V[2]])

		if !opts.FlatShading && tri.HasNormals() {
			list.Add(geometry.NewSmoothTriangle(v0, v1, v2,
				data.Normals[tri.N[0]].Multiply(normalSign),
				data.Normals[tri.N[1]].Multiply(normalSign),
				data.Normals[tri.N[2]].Multiply(normalSign),
				mat))
			continue
		}
		list.Add(geometry.NewTriangle(v0, v1, v2, mat))
	}

	return list
}

// LoadMeshData parses a mesh file, choosing the format from its extension
func LoadMeshData(filename string) (*MeshData, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".obj":
		return LoadOBJ(filename)
	case ".ply":
		return LoadPLY(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", filepath.Ext(filename))
	}
}

// LoadMesh parses a mesh file and builds its triangles
func LoadMesh(filename string, mat material.Material, opts MeshOptions) (*geometry.Composite, error) {
	startTime := time.Now()

	data, err := LoadMeshData(filename)
	if err != nil {
		return nil, err
	}

	list := BuildComposite(data, mat, opts)
	logger.Infof("loaded %s: %d vertices, %d normals, %d triangles in %v",
		filepath.Base(filename), len(data.Positions), len(data.Normals), list.Len(), time.Since(startTime))

	return list, nil
}

// resolveIndex maps a mesh index into [0, count). When relative is set,
// negative values count back from the end, as OBJ allows.
func resolveIndex(index, count int, relative bool) (int, error) {
	resolved := index
	if relative && index < 0 {
		resolved = count + index
	}
	if resolved < 0 || resolved >= count {
		return 0, fmt.Errorf("index %d out of range (have %d)", index, count)
	}
	return resolved, nil
}
