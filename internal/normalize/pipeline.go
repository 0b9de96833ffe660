package normalize

import (
	"errors"
	"fmt"

	"github.com/buildingnet/meshprep/pkg/mesh"
)

// ErrInvalidParams reports pipeline parameters outside their valid
// ranges.
var ErrInvalidParams = errors.New("invalid pipeline parameters")

// Params holds the tunables of the normalization pipeline.
type Params struct {
	// SimplifyVoxels is the voxel-grid dimension used for vertex
	// clustering.
	SimplifyVoxels int

	// ScanSteps is the number of vertical slices tried when searching
	// for a ground plane.
	ScanSteps int

	// MaxHeightFraction is the fraction of the mesh height, in (0,1],
	// eligible for the ground-plane scan.
	MaxHeightFraction float64

	// VolumeReductionThreshold is the volume ratio, in (0,1), below
	// which a scan step counts as having cut away a ground slab.
	VolumeReductionThreshold float64

	// DecimateRatio, when in (0,1), applies quadric edge-collapse
	// decimation as a final step, keeping roughly that fraction of
	// triangles. Zero disables decimation.
	DecimateRatio float64
}

// DefaultParams returns the standard operating point.
func DefaultParams() Params {
	return Params{
		SimplifyVoxels:           128,
		ScanSteps:                10,
		MaxHeightFraction:        0.15,
		VolumeReductionThreshold: 0.8,
		DecimateRatio:            0,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.SimplifyVoxels <= 0 {
		return fmt.Errorf("%w: simplify voxels must be positive, got %d", ErrInvalidParams, p.SimplifyVoxels)
	}
	if p.ScanSteps <= 0 {
		return fmt.Errorf("%w: scan steps must be positive, got %d", ErrInvalidParams, p.ScanSteps)
	}
	if p.MaxHeightFraction <= 0 || p.MaxHeightFraction > 1 {
		return fmt.Errorf("%w: max height fraction must be in (0,1], got %g", ErrInvalidParams, p.MaxHeightFraction)
	}
	if p.VolumeReductionThreshold <= 0 || p.VolumeReductionThreshold >= 1 {
		return fmt.Errorf("%w: volume reduction threshold must be in (0,1), got %g", ErrInvalidParams, p.VolumeReductionThreshold)
	}
	if p.DecimateRatio < 0 || p.DecimateRatio >= 1 {
		return fmt.Errorf("%w: decimate ratio must be in [0,1), got %g", ErrInvalidParams, p.DecimateRatio)
	}
	return nil
}

// Normalize runs the full pipeline on a watertight mesh: simplify,
// select the largest connected component, remove the ground plane,
// and select again if a plane was removed (cutting the slab can
// detach further noise fragments). The input mesh is validated before
// any geometric computation and never modified.
func Normalize(m *mesh.Mesh, p Params) (*mesh.Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("rejecting mesh: %w", err)
	}

	m = Simplify(m, p.SimplifyVoxels)
	m = SelectLargestComponent(m)
	m, found := RemoveGroundPlane(m, p.ScanSteps, p.MaxHeightFraction, p.VolumeReductionThreshold)
	if found {
		m = SelectLargestComponent(m)
	}
	if p.DecimateRatio > 0 {
		m = mesh.Decimate(m, p.DecimateRatio)
	}
	return m, nil
}
