package mesh

import "github.com/buildingnet/meshprep/pkg/geom"

// Clip crops the mesh to an axis-aligned box. Triangles crossing a box
// plane are split at the plane, generating new boundary vertices, so
// the result contains exactly the geometry inside the box. Returns a
// new mesh; the input is not modified.
func Clip(m *Mesh, box geom.Box) *Mesh {
	out := &Mesh{}
	index := make(map[geom.Vec3]int)

	addVertex := func(p geom.Vec3) int {
		if i, ok := index[p]; ok {
			return i
		}
		i := len(out.Vertices)
		index[p] = i
		out.Vertices = append(out.Vertices, p)
		return i
	}

	for _, t := range m.Triangles {
		poly := []geom.Vec3{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]}
		for axis := 0; axis < 3 && len(poly) >= 3; axis++ {
			poly = clipPolygon(poly, axis, box.Min.Component(axis), true)
			if len(poly) < 3 {
				break
			}
			poly = clipPolygon(poly, axis, box.Max.Component(axis), false)
		}
		if len(poly) < 3 {
			continue
		}

		// Fan-triangulate the clipped polygon.
		i0 := addVertex(poly[0])
		for i := 1; i < len(poly)-1; i++ {
			out.Triangles = append(out.Triangles, Triangle{
				i0, addVertex(poly[i]), addVertex(poly[i+1]),
			})
		}
	}
	return out
}

// clipPolygon clips a convex polygon against one axis-aligned
// half-space. When above is true the half-space is component >= bound,
// otherwise component <= bound. Sutherland-Hodgman, one plane at a time.
func clipPolygon(poly []geom.Vec3, axis int, bound float64, above bool) []geom.Vec3 {
	inside := func(p geom.Vec3) bool {
		if above {
			return p.Component(axis) >= bound
		}
		return p.Component(axis) <= bound
	}

	out := make([]geom.Vec3, 0, len(poly)+1)
	for i, cur := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		curIn, prevIn := inside(cur), inside(prev)
		if curIn != prevIn {
			out = append(out, intersectPlane(prev, cur, axis, bound))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

// intersectPlane returns the point where segment a-b crosses the plane
// component(axis) == bound.
func intersectPlane(a, b geom.Vec3, axis int, bound float64) geom.Vec3 {
	da := a.Component(axis)
	db := b.Component(axis)
	if da == db {
		return a
	}
	t := (bound - da) / (db - da)
	return a.Add(b.Sub(a).Scale(t))
}
