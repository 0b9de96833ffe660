package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/buildingnet/meshprep/pkg/geom"
)

// Binvox format errors.
var (
	ErrInvalidBinvoxMagic = errors.New("invalid binvox signature: expected '#binvox 1'")
	ErrInvalidBinvoxDim   = errors.New("invalid binvox dimensions")
	ErrTruncatedBinvox    = errors.New("truncated binvox data")
)

// maxBinvoxDim bounds grid dimensions so dim^3 stays addressable.
const maxBinvoxDim = 1280

const binvoxSignature = "#binvox 1\n"

// VoxelGrid is a dense occupancy grid read from a binvox file. Voxels
// are stored in binvox order: index = x*W*H + z*W + y.
type VoxelGrid struct {
	DimX, DimY, DimZ int
	Translate        geom.Vec3
	Scale            float64
	Data             []bool
}

// At reports whether the voxel at grid coordinates (x, y, z) is set.
// Coordinates outside the grid are unoccupied.
func (g *VoxelGrid) At(x, y, z int) bool {
	if x < 0 || x >= g.DimX || y < 0 || y >= g.DimY || z < 0 || z >= g.DimZ {
		return false
	}
	return g.Data[x*g.DimZ*g.DimY+z*g.DimY+y]
}

// Occupied reports whether the world-space point p falls in a set
// voxel. The binvox convention maps the model into the unit cube
// scaled by Scale and offset by Translate.
func (g *VoxelGrid) Occupied(p geom.Vec3) bool {
	maxDim := g.DimX
	if g.DimY > maxDim {
		maxDim = g.DimY
	}
	if g.DimZ > maxDim {
		maxDim = g.DimZ
	}
	d := float64(maxDim)
	x := int(math.Floor((p.X - g.Translate.X) / g.Scale * d))
	y := int(math.Floor((p.Y - g.Translate.Y) / g.Scale * d))
	z := int(math.Floor((p.Z - g.Translate.Z) / g.Scale * d))
	return g.At(x, y, z)
}

// ReadBinvox reads a voxel grid from a binvox file.
func ReadBinvox(path string) (*VoxelGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ParseBinvox(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return g, nil
}

// ParseBinvox parses binvox data from r: a text header followed by a
// run-length encoded grid (value byte, count byte pairs).
func ParseBinvox(r io.Reader) (*VoxelGrid, error) {
	br := bufio.NewReader(r)

	if _, err := fmt.Fscanf(br, binvoxSignature); err != nil {
		return nil, ErrInvalidBinvoxMagic
	}
	var dx, dy, dz int
	if _, err := fmt.Fscanf(br, "dim %d %d %d\n", &dx, &dy, &dz); err != nil {
		return nil, fmt.Errorf("%w: missing dim header", ErrInvalidBinvoxDim)
	}
	if dx <= 0 || dy <= 0 || dz <= 0 || dx > maxBinvoxDim || dy > maxBinvoxDim || dz > maxBinvoxDim {
		return nil, fmt.Errorf("%w: %d x %d x %d", ErrInvalidBinvoxDim, dx, dy, dz)
	}

	g := &VoxelGrid{
		DimX: dx,
		DimY: dy,
		DimZ: dz,
		Data: make([]bool, dx*dy*dz),
	}
	if _, err := fmt.Fscanf(br, "translate %f %f %f\n",
		&g.Translate.X, &g.Translate.Y, &g.Translate.Z); err != nil {
		return nil, fmt.Errorf("%w: missing translate header", ErrTruncatedBinvox)
	}
	if _, err := fmt.Fscanf(br, "scale %f\n", &g.Scale); err != nil {
		return nil, fmt.Errorf("%w: missing scale header", ErrTruncatedBinvox)
	}
	if _, err := fmt.Fscanf(br, "data\n"); err != nil {
		return nil, fmt.Errorf("%w: missing data marker", ErrTruncatedBinvox)
	}

	for i := 0; i < len(g.Data); {
		value, err := br.ReadByte()
		if err != nil {
			return nil, ErrTruncatedBinvox
		}
		count, err := br.ReadByte()
		if err != nil {
			return nil, ErrTruncatedBinvox
		}
		if i+int(count) > len(g.Data) {
			return nil, fmt.Errorf("%w: run exceeds grid size", ErrTruncatedBinvox)
		}
		if value != 0 {
			for j := i; j < i+int(count); j++ {
				g.Data[j] = true
			}
		}
		i += int(count)
	}
	return g, nil
}
