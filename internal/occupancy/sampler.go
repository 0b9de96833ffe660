// Package occupancy samples uniform points around a prepared building
// model and records which of them fall inside it. Occupancy can be
// decided against the triangle mesh itself or, much faster but at grid
// resolution, against a precomputed voxel grid. The method is a tagged
// variant selected by configuration.
package occupancy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/buildingnet/meshprep/pkg/formats"
	"github.com/buildingnet/meshprep/pkg/geom"
	"github.com/buildingnet/meshprep/pkg/mesh"
)

// Method selects how point occupancy is decided.
type Method string

// Supported sampling methods.
const (
	// MethodMeshContains ray-tests every point against the mesh.
	// Exact but slow.
	MethodMeshContains Method = "mesh_contains"

	// MethodVoxelGridLookup indexes points into a voxel grid. Fast
	// but limited to the grid resolution.
	MethodVoxelGridLookup Method = "voxelgrid_lookup"
)

// ErrUnknownMethod reports an unrecognized sampling method name.
var ErrUnknownMethod = errors.New("unknown sampling method")

// ParseMethod converts a configuration string into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodMeshContains:
		return MethodMeshContains, nil
	case MethodVoxelGridLookup:
		return MethodVoxelGridLookup, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Sampler draws uniform points in the cube spanning a model's largest
// extent, centered on the origin, and tests their occupancy.
type Sampler struct {
	points int
	rng    *rand.Rand
}

// NewSampler returns a Sampler producing n points. The seed makes
// sampling reproducible across runs.
func NewSampler(n int, seed int64) *Sampler {
	return &Sampler{points: n, rng: rand.New(rand.NewSource(seed))}
}

// SampleMesh samples occupancy against the mesh surface.
func (s *Sampler) SampleMesh(m *mesh.Mesh) (*formats.OccupancySet, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	bounds, _ := m.Bounds()
	boxSize := bounds.MaxExtent()
	return s.sample(boxSize, m.Contains), nil
}

// SampleGrid samples occupancy against a voxel grid. The grid's scale
// is the world-space size of the voxelized model cube.
func (s *Sampler) SampleGrid(g *formats.VoxelGrid) (*formats.OccupancySet, error) {
	if len(g.Data) == 0 {
		return nil, errors.New("empty voxel grid")
	}
	return s.sample(g.Scale, g.Occupied), nil
}

// sample draws points in a centered cube of side boxSize and labels
// them with the given occupancy test.
func (s *Sampler) sample(boxSize float64, occupied func(geom.Vec3) bool) *formats.OccupancySet {
	set := &formats.OccupancySet{
		Points:   make([][3]float32, s.points),
		Occupied: make([]bool, s.points),
	}
	for i := 0; i < s.points; i++ {
		p := geom.Vec3{
			X: boxSize * (s.rng.Float64() - 0.5),
			Y: boxSize * (s.rng.Float64() - 0.5),
			Z: boxSize * (s.rng.Float64() - 0.5),
		}
		set.Points[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
		set.Occupied[i] = occupied(p)
	}
	return set
}
