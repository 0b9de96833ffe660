// Package voxelize shells out to a binvox-compatible voxelizer to turn
// prepared meshes into occupancy grids. The tool writes its output
// next to the input file, so the result is relocated to the requested
// destination afterwards.
package voxelize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/buildingnet/meshprep/internal/watertight"
)

// ErrExitStatus reports a voxelizer run that exited non-zero.
var ErrExitStatus = errors.New("voxelizer failed")

// Voxelizer runs the external voxelization tool.
type Voxelizer struct {
	binary     string
	resolution int
	builder    watertight.CommandBuilder
}

// New returns a Voxelizer for the given binary and grid resolution. A
// nil builder defaults to real command execution.
func New(binary string, resolution int, builder watertight.CommandBuilder) *Voxelizer {
	if builder == nil {
		builder = watertight.ExecBuilder{}
	}
	return &Voxelizer{binary: binary, resolution: resolution, builder: builder}
}

// Voxelize runs `<binary> -d <resolution> -t binvox <inputPath>` and
// moves the tool's adjacent output file to outputPath. Gzip-compressed
// meshes are decompressed to a temporary file first; the external tool
// only reads plain OBJ.
func (v *Voxelizer) Voxelize(ctx context.Context, inputPath, outputPath string) error {
	toolInput := inputPath
	if strings.HasSuffix(inputPath, ".gz") {
		tmp, err := decompressToTemp(inputPath)
		if err != nil {
			return fmt.Errorf("decompressing %s: %w", inputPath, err)
		}
		defer os.Remove(tmp)
		toolInput = tmp
	}

	cmd := v.builder.Build(ctx, v.binary,
		"-d", strconv.Itoa(v.resolution), "-t", "binvox", toolInput)
	output, err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%w: %s (%v): %s", ErrExitStatus, inputPath, err, output)
	}

	// The tool drops its output next to the input mesh.
	produced := strings.TrimSuffix(toolInput, ".obj") + ".binvox"
	if err := os.Rename(produced, outputPath); err != nil {
		return fmt.Errorf("relocating voxel grid for %s: %w", inputPath, err)
	}
	return nil
}

// decompressToTemp writes the gzip-compressed mesh at path to a
// temporary .obj file and returns its name. The caller removes it.
func decompressToTemp(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	tmp, err := os.CreateTemp("", "meshprep-*.obj")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, zr); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
