// Package mesh provides an indexed triangle mesh and the geometric
// operations the preparation pipeline is built from.
package mesh

import (
	"errors"
	"fmt"

	"github.com/buildingnet/meshprep/pkg/geom"
)

// Mesh errors.
var (
	ErrNoVertices    = errors.New("mesh has no vertices")
	ErrTriangleIndex = errors.New("triangle index out of range")
)

// Triangle is a triple of indices into a mesh's vertex sequence.
type Triangle [3]int

// Mesh is an indexed triangle mesh. Vertices may be unreferenced until
// Compact is called. All operations treat the mesh as an immutable
// value and return a new Mesh.
type Mesh struct {
	Vertices  []geom.Vec3
	Triangles []Triangle
}

// New returns a mesh over the given vertex and triangle sequences. The
// slices are not copied; callers hand over ownership.
func New(vertices []geom.Vec3, triangles []Triangle) *Mesh {
	return &Mesh{Vertices: vertices, Triangles: triangles}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Validate checks the structural invariants required before any
// geometric computation: at least one vertex, and every triangle index
// in range. It does not check manifoldness or watertightness.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return ErrNoVertices
	}
	for i, t := range m.Triangles {
		for _, v := range t {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("triangle %d references vertex %d of %d: %w",
					i, v, len(m.Vertices), ErrTriangleIndex)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices:  make([]geom.Vec3, len(m.Vertices)),
		Triangles: make([]Triangle, len(m.Triangles)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Triangles, m.Triangles)
	return out
}

// Bounds returns the axis-aligned bounding box of the mesh vertices.
// The second return value is false for an empty mesh.
func (m *Mesh) Bounds() (geom.Box, bool) {
	return geom.BoxOf(m.Vertices)
}

// Compact returns a copy of the mesh with unreferenced vertices removed
// and triangles re-indexed onto the reduced vertex sequence.
func (m *Mesh) Compact() *Mesh {
	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}

	out := &Mesh{Triangles: make([]Triangle, 0, len(m.Triangles))}
	for _, t := range m.Triangles {
		var nt Triangle
		for i, v := range t {
			if remap[v] < 0 {
				remap[v] = len(out.Vertices)
				out.Vertices = append(out.Vertices, m.Vertices[v])
			}
			nt[i] = remap[v]
		}
		out.Triangles = append(out.Triangles, nt)
	}
	return out
}

// SubMesh returns the compacted mesh containing only the triangles at
// the given indices.
func (m *Mesh) SubMesh(triangles []int) *Mesh {
	sub := &Mesh{
		Vertices:  m.Vertices,
		Triangles: make([]Triangle, 0, len(triangles)),
	}
	for _, i := range triangles {
		sub.Triangles = append(sub.Triangles, m.Triangles[i])
	}
	return sub.Compact()
}
