package normalize

import (
	"github.com/buildingnet/meshprep/pkg/geom"
	"github.com/buildingnet/meshprep/pkg/mesh"
)

// Vertices below this count cannot bound a 3D volume; the scan stops.
const minCropVertices = 4

// RemoveGroundPlane searches for a thin horizontal slab attached to
// the bottom of the mesh. The mesh's bounding box is translated upward
// in scanSteps equal slices over the bottom maxHeightFraction of the
// mesh height; at each step the original mesh is cropped to the
// translated box. A sharp drop of the cropped bounding-box volume
// relative to the previous step (ratio below
// volumeReductionThreshold) signals that a slab was cut away: the
// cropped mesh is returned together with true.
//
// The box translation accumulates across steps while the crop is
// always applied to the original mesh, mirroring the reference
// behavior of the scan. When the crop leaves fewer than four vertices,
// or no step triggers the threshold, the original mesh is returned
// unchanged with false.
func RemoveGroundPlane(m *mesh.Mesh, scanSteps int, maxHeightFraction, volumeReductionThreshold float64) (*mesh.Mesh, bool) {
	bounds, ok := m.Bounds()
	if !ok || scanSteps <= 0 {
		return m, false
	}
	prevVolume := bounds.Volume()
	if prevVolume <= 0 {
		return m, false
	}

	dy := bounds.Extent().Y * maxHeightFraction / float64(scanSteps)
	box := bounds
	for step := 0; step < scanSteps; step++ {
		box = box.Translate(geom.Vec3{Y: dy})
		cropped := mesh.Clip(m, box)
		if cropped.VertexCount() < minCropVertices {
			return m, false
		}
		croppedBounds, _ := cropped.Bounds()
		newVolume := croppedBounds.Volume()
		if newVolume/prevVolume < volumeReductionThreshold {
			return cropped, true
		}
		prevVolume = newVolume
	}
	return m, false
}
