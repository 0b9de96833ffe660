package mesh

import (
	"github.com/fogleman/simplify"

	"github.com/buildingnet/meshprep/pkg/geom"
)

// Decimate reduces triangle count by quadric edge collapse, keeping
// roughly factor of the input triangles (factor in (0,1)). A factor
// outside that range returns the mesh unchanged. This is a sharper
// reduction than voxel clustering and is used as an optional final
// pipeline step.
func Decimate(m *Mesh, factor float64) *Mesh {
	if factor <= 0 || factor >= 1 || len(m.Triangles) == 0 {
		return m.Clone()
	}

	triangles := make([]*simplify.Triangle, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		triangles = append(triangles, simplify.NewTriangle(
			toSimplifyVector(m.Vertices[t[0]]),
			toSimplifyVector(m.Vertices[t[1]]),
			toSimplifyVector(m.Vertices[t[2]]),
		))
	}
	reduced := simplify.NewMesh(triangles).Simplify(factor)

	// Re-index the triangle soup back into shared vertices.
	out := &Mesh{}
	index := make(map[geom.Vec3]int)
	addVertex := func(v simplify.Vector) int {
		p := geom.Vec3{X: v.X, Y: v.Y, Z: v.Z}
		if i, ok := index[p]; ok {
			return i
		}
		i := len(out.Vertices)
		index[p] = i
		out.Vertices = append(out.Vertices, p)
		return i
	}
	for _, t := range reduced.Triangles {
		tri := Triangle{addVertex(t.V1), addVertex(t.V2), addVertex(t.V3)}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			continue
		}
		out.Triangles = append(out.Triangles, tri)
	}
	return out
}

func toSimplifyVector(p geom.Vec3) simplify.Vector {
	return simplify.Vector{X: p.X, Y: p.Y, Z: p.Z}
}
