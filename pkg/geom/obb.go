package geom

import "gonum.org/v1/gonum/mat"

// OrientedBox is a bounding box aligned to an arbitrary orthonormal
// basis. It is fitted to a point set along its principal axes, which
// captures elongated or rotated clusters far better than an
// axis-aligned box.
type OrientedBox struct {
	Center Vec3
	Axes   [3]Vec3 // orthonormal basis
	Extent Vec3    // full side length along each axis
}

// Volume returns the enclosed volume.
func (b OrientedBox) Volume() float64 {
	return b.Extent.X * b.Extent.Y * b.Extent.Z
}

// FitOrientedBox fits an oriented bounding box to points using the
// principal axes of their covariance. The result is not guaranteed to
// be the global minimum-volume box, but it is a close, deterministic
// approximation suitable for ranking point clusters by size.
// The second return value is false when fewer than two points are given
// or the covariance cannot be decomposed.
func FitOrientedBox(points []Vec3) (OrientedBox, bool) {
	if len(points) < 2 {
		return OrientedBox{}, false
	}

	var mean Vec3
	for _, p := range points {
		mean = mean.Add(p)
	}
	mean = mean.Scale(1 / float64(len(points)))

	var cxx, cxy, cxz, cyy, cyz, czz float64
	for _, p := range points {
		d := p.Sub(mean)
		cxx += d.X * d.X
		cxy += d.X * d.Y
		cxz += d.X * d.Z
		cyy += d.Y * d.Y
		cyz += d.Y * d.Z
		czz += d.Z * d.Z
	}
	n := float64(len(points))
	cov := mat.NewSymDense(3, []float64{
		cxx / n, cxy / n, cxz / n,
		cxy / n, cyy / n, cyz / n,
		cxz / n, cyz / n, czz / n,
	})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return OrientedBox{}, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	var axes [3]Vec3
	for j := 0; j < 3; j++ {
		axes[j] = Vec3{vecs.At(0, j), vecs.At(1, j), vecs.At(2, j)}.Normalize()
	}

	// Project all points onto the principal axes to find the extents.
	var lo, hi [3]float64
	for i, p := range points {
		d := p.Sub(mean)
		for j := 0; j < 3; j++ {
			t := d.Dot(axes[j])
			if i == 0 || t < lo[j] {
				lo[j] = t
			}
			if i == 0 || t > hi[j] {
				hi[j] = t
			}
		}
	}

	box := OrientedBox{
		Axes:   axes,
		Extent: Vec3{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]},
	}
	box.Center = mean.
		Add(axes[0].Scale((hi[0] + lo[0]) / 2)).
		Add(axes[1].Scale((hi[1] + lo[1]) / 2)).
		Add(axes[2].Scale((hi[2] + lo[2]) / 2))
	return box, true
}

// OrientedBoxVolume returns the volume of the fitted oriented bounding
// box, or 0 when no box can be fitted.
func OrientedBoxVolume(points []Vec3) float64 {
	box, ok := FitOrientedBox(points)
	if !ok {
		return 0
	}
	return box.Volume()
}
