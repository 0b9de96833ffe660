package geom

// Box is an axis-aligned bounding box described by its minimum and
// maximum corners. The zero Box is empty; use NewBox or BoxOf to build
// a valid one.
type Box struct {
	Min, Max Vec3
}

// NewBox returns the box spanning min and max.
func NewBox(min, max Vec3) Box {
	return Box{Min: min, Max: max}
}

// BoxOf returns the smallest axis-aligned box containing all points.
// The second return value is false when points is empty.
func BoxOf(points []Vec3) (Box, bool) {
	if len(points) == 0 {
		return Box{}, false
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b, true
}

// Extent returns the box size along each axis.
func (b Box) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxExtent returns the largest of the three axis extents.
func (b Box) MaxExtent() float64 {
	e := b.Extent()
	m := e.X
	if e.Y > m {
		m = e.Y
	}
	if e.Z > m {
		m = e.Z
	}
	return m
}

// Volume returns the enclosed volume. Degenerate boxes (fewer than two
// distinct coordinates on an axis) have zero volume.
func (b Box) Volume() float64 {
	e := b.Extent()
	if e.X < 0 || e.Y < 0 || e.Z < 0 {
		return 0
	}
	return e.X * e.Y * e.Z
}

// Translate returns the box shifted by delta.
func (b Box) Translate(delta Vec3) Box {
	return Box{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

// Contains reports whether p lies inside or on the boundary of b.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the box center point.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
