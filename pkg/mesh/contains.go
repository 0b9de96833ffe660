package mesh

import "github.com/buildingnet/meshprep/pkg/geom"

const rayEpsilon = 1e-12

// Contains reports whether p lies inside the mesh, assuming the mesh
// is watertight. A ray is cast along +X and triangle crossings are
// counted; an odd count means inside. Points exactly on the surface
// may land on either side.
func (m *Mesh) Contains(p geom.Vec3) bool {
	dir := geom.Vec3{X: 1}
	crossings := 0
	for _, t := range m.Triangles {
		if rayIntersectsTriangle(p, dir,
			m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]) {
			crossings++
		}
	}
	return crossings%2 == 1
}

// rayIntersectsTriangle tests a ray against one triangle
// (Moller-Trumbore).
func rayIntersectsTriangle(origin, dir, v0, v1, v2 geom.Vec3) bool {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	h := dir.Cross(e2)
	a := e1.Dot(h)
	if a > -rayEpsilon && a < rayEpsilon {
		return false // ray parallel to triangle plane
	}
	f := 1 / a
	s := origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(e1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}
	t := f * e2.Dot(q)
	return t > rayEpsilon
}
