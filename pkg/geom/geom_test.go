package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	if !scalar.EqualWithinAbs(n.Length(), 1, 1e-12) {
		t.Errorf("Vec3.Normalize().Length() = %v, want 1", n.Length())
	}

	zero := Vec3{}
	if zero.Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return the zero vector")
	}
}

func TestVec3Component(t *testing.T) {
	v := Vec3{1, 2, 3}
	for axis, want := range []float64{1, 2, 3} {
		if got := v.Component(axis); got != want {
			t.Errorf("Component(%d) = %v, want %v", axis, got, want)
		}
	}
}

func TestBoxOf(t *testing.T) {
	tests := []struct {
		name    string
		points  []Vec3
		wantMin Vec3
		wantMax Vec3
		wantOK  bool
	}{
		{
			name:   "empty",
			points: nil,
			wantOK: false,
		},
		{
			name:    "single point",
			points:  []Vec3{{1, 2, 3}},
			wantMin: Vec3{1, 2, 3},
			wantMax: Vec3{1, 2, 3},
			wantOK:  true,
		},
		{
			name:    "spread",
			points:  []Vec3{{1, 5, -2}, {-3, 0, 4}, {2, 2, 2}},
			wantMin: Vec3{-3, 0, -2},
			wantMax: Vec3{2, 5, 4},
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BoxOf(tt.points)
			if ok != tt.wantOK {
				t.Fatalf("BoxOf() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Min != tt.wantMin || got.Max != tt.wantMax {
				t.Errorf("BoxOf() = %v, want min %v max %v", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestBoxVolume(t *testing.T) {
	b := NewBox(Vec3{0, 0, 0}, Vec3{2, 3, 4})
	if got := b.Volume(); got != 24 {
		t.Errorf("Volume() = %v, want 24", got)
	}

	// A flat box spans only two axes and has no volume.
	flat := NewBox(Vec3{0, 0, 0}, Vec3{2, 0, 4})
	if got := flat.Volume(); got != 0 {
		t.Errorf("degenerate Volume() = %v, want 0", got)
	}
}

func TestBoxTranslate(t *testing.T) {
	b := NewBox(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	got := b.Translate(Vec3{0, 2, 0})
	want := NewBox(Vec3{0, 2, 0}, Vec3{1, 3, 1})
	if got != want {
		t.Errorf("Translate() = %v, want %v", got, want)
	}
}

// rotateY rotates p around the Y axis by angle radians.
func rotateY(p Vec3, angle float64) Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec3{c*p.X + s*p.Z, p.Y, -s*p.X + c*p.Z}
}

func TestFitOrientedBoxRotatedBox(t *testing.T) {
	// A 4x2x1 box rotated 45 degrees around Y. Its AABB volume grows
	// with rotation while the oriented box should stay close to the
	// true volume of 8. Distinct extents keep the principal axes
	// unambiguous.
	var points []Vec3
	for _, x := range []float64{0, 4} {
		for _, y := range []float64{0, 2} {
			for _, z := range []float64{0, 1} {
				points = append(points, rotateY(Vec3{x, y, z}, math.Pi/4))
			}
		}
	}

	obb, ok := FitOrientedBox(points)
	if !ok {
		t.Fatal("FitOrientedBox() failed on a valid point set")
	}
	if !scalar.EqualWithinAbs(obb.Volume(), 8, 1e-6) {
		t.Errorf("oriented volume = %v, want 8", obb.Volume())
	}

	aabb, _ := BoxOf(points)
	if aabb.Volume() <= obb.Volume() {
		t.Errorf("AABB volume %v should exceed oriented volume %v for a rotated box",
			aabb.Volume(), obb.Volume())
	}
}

func TestOrientedBoxVolumeDegenerate(t *testing.T) {
	if got := OrientedBoxVolume(nil); got != 0 {
		t.Errorf("OrientedBoxVolume(nil) = %v, want 0", got)
	}
	if got := OrientedBoxVolume([]Vec3{{1, 1, 1}}); got != 0 {
		t.Errorf("OrientedBoxVolume(single point) = %v, want 0", got)
	}
}
