// Package normalize implements the mesh normalization pipeline:
// voxel-clustering simplification, largest-component selection, and
// ground-plane removal, run in a fixed order. Every operation treats
// its input as immutable and returns a new mesh.
package normalize

import (
	"math"

	"github.com/buildingnet/meshprep/pkg/geom"
	"github.com/buildingnet/meshprep/pkg/mesh"
)

// voxelCell identifies one cell of the clustering grid.
type voxelCell struct {
	X, Y, Z int
}

// Simplify reduces vertex density by voxel-grid clustering. The grid
// cell size is the mesh's largest bounding-box extent divided by
// targetVoxels; all vertices falling into one cell are replaced by
// their average position. Triangles are re-indexed onto the reduced
// vertex set and triangles collapsing to fewer than three distinct
// vertices are dropped. When the cell size degenerates to zero the
// mesh is returned unchanged.
func Simplify(m *mesh.Mesh, targetVoxels int) *mesh.Mesh {
	bounds, ok := m.Bounds()
	if !ok || targetVoxels <= 0 {
		return m.Clone()
	}
	voxelSize := bounds.MaxExtent() / float64(targetVoxels)
	if voxelSize <= 0 {
		return m.Clone()
	}

	// First pass: assign each vertex to a cell and accumulate sums.
	cells := make(map[voxelCell]int)
	remap := make([]int, len(m.Vertices))
	var sums []geom.Vec3
	var counts []int
	for vi, p := range m.Vertices {
		cell := voxelCell{
			X: int(math.Floor((p.X - bounds.Min.X) / voxelSize)),
			Y: int(math.Floor((p.Y - bounds.Min.Y) / voxelSize)),
			Z: int(math.Floor((p.Z - bounds.Min.Z) / voxelSize)),
		}
		ci, ok := cells[cell]
		if !ok {
			ci = len(sums)
			cells[cell] = ci
			sums = append(sums, geom.Vec3{})
			counts = append(counts, 0)
		}
		sums[ci] = sums[ci].Add(p)
		counts[ci]++
		remap[vi] = ci
	}

	out := &mesh.Mesh{Vertices: make([]geom.Vec3, len(sums))}
	for i := range sums {
		out.Vertices[i] = sums[i].Scale(1 / float64(counts[i]))
	}
	for _, t := range m.Triangles {
		nt := mesh.Triangle{remap[t[0]], remap[t[1]], remap[t[2]]}
		if nt[0] == nt[1] || nt[1] == nt[2] || nt[0] == nt[2] {
			continue
		}
		out.Triangles = append(out.Triangles, nt)
	}
	return out
}
