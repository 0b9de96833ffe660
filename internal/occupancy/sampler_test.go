package occupancy

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/buildingnet/meshprep/pkg/formats"
	"github.com/buildingnet/meshprep/pkg/geom"
	"github.com/buildingnet/meshprep/pkg/mesh"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"mesh_contains", MethodMeshContains, false},
		{"voxelgrid_lookup", MethodVoxelGridLookup, false},
		{"raycast", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownMethod) {
				t.Errorf("error = %v, want ErrUnknownMethod", err)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// centeredBox builds a closed box mesh centered on the origin.
func centeredBox(size geom.Vec3) *mesh.Mesh {
	half := size.Scale(0.5)
	min := geom.Vec3{X: -half.X, Y: -half.Y, Z: -half.Z}
	max := half
	m := &mesh.Mesh{
		Vertices: []geom.Vec3{
			{X: min.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: max.Y, Z: min.Z},
			{X: min.X, Y: max.Y, Z: min.Z},
			{X: min.X, Y: min.Y, Z: max.Z},
			{X: max.X, Y: min.Y, Z: max.Z},
			{X: max.X, Y: max.Y, Z: max.Z},
			{X: min.X, Y: max.Y, Z: max.Z},
		},
	}
	faces := [][3]int{
		{0, 1, 5}, {0, 5, 4},
		{3, 6, 2}, {3, 7, 6},
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	for _, f := range faces {
		m.Triangles = append(m.Triangles, mesh.Triangle{f[0], f[1], f[2]})
	}
	return m
}

func TestSampleMeshRatio(t *testing.T) {
	// A 2x1x1 box sampled inside a centered cube of side 2: the box
	// fills a quarter of the sampling volume.
	m := centeredBox(geom.Vec3{X: 2, Y: 1, Z: 1})
	s := NewSampler(4000, 1)

	set, err := s.SampleMesh(m)
	if err != nil {
		t.Fatalf("SampleMesh() error: %v", err)
	}
	if len(set.Points) != 4000 || len(set.Occupied) != 4000 {
		t.Fatalf("sample sizes = %d points, %d flags, want 4000 each",
			len(set.Points), len(set.Occupied))
	}

	inside := 0
	for _, o := range set.Occupied {
		if o {
			inside++
		}
	}
	ratio := float64(inside) / float64(len(set.Occupied))
	if ratio < 0.18 || ratio > 0.32 {
		t.Errorf("occupied ratio = %v, want about 0.25", ratio)
	}
}

func TestSampleMeshRejectsEmptyMesh(t *testing.T) {
	s := NewSampler(10, 1)
	if _, err := s.SampleMesh(&mesh.Mesh{}); err == nil {
		t.Error("SampleMesh() accepted an empty mesh")
	}
}

func TestSampleMeshDeterministic(t *testing.T) {
	m := centeredBox(geom.Vec3{X: 1, Y: 1, Z: 1})

	a, err := NewSampler(100, 7).SampleMesh(m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSampler(100, 7).SampleMesh(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("point %d differs across identically seeded samplers", i)
		}
	}
}

func TestSampleGrid(t *testing.T) {
	// A fully occupied 4^3 grid of world size 2 centered via its
	// translate: every sampled point inside the model cube is
	// occupied, points outside the grid are not.
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#binvox 1\ndim 4 4 4\ntranslate -1 -1 -1\nscale 2\ndata\n")
	buf.Write([]byte{1, 64})
	g, err := formats.ParseBinvox(&buf)
	if err != nil {
		t.Fatalf("ParseBinvox() error: %v", err)
	}

	set, err := NewSampler(500, 3).SampleGrid(g)
	if err != nil {
		t.Fatalf("SampleGrid() error: %v", err)
	}

	inside := 0
	for _, o := range set.Occupied {
		if o {
			inside++
		}
	}
	// Sampling cube side 2 equals the grid's world cube, so nearly
	// every point should land in an occupied voxel.
	if inside < 450 {
		t.Errorf("occupied count = %d of 500, want nearly all", inside)
	}
}
