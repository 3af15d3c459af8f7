package bind

import (
	"math"
	"testing"

	"skinbind/internal/mathutil"
)

func TestBarycentricCentroid(t *testing.T) {
	a := mathutil.Vec3{0, 0, 0}
	b := mathutil.Vec3{1, 0, 0}
	c := mathutil.Vec3{0, 1, 0}
	got := Barycentric(a, b, c, mathutil.Vec3{1.0 / 3, 1.0 / 3, 0})
	want := mathutil.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3}
	if !got.NearEquals(want, 1e-12) {
		t.Fatalf("centroid barycentric: want %v got %v", want, got)
	}
}

func TestBarycentricCorners(t *testing.T) {
	a := mathutil.Vec3{1, 2, 3}
	b := mathutil.Vec3{4, 0, 1}
	c := mathutil.Vec3{-2, 5, 0}
	for i, p := range []mathutil.Vec3{a, b, c} {
		got := Barycentric(a, b, c, p)
		var want mathutil.Vec3
		want[i] = 1
		if !got.NearEquals(want, 1e-9) {
			t.Fatalf("corner %d: want %v got %v", i, want, got)
		}
	}
}

func TestBarycentricDegenerateIsNotFinite(t *testing.T) {
	a := mathutil.Vec3{0, 0, 0}
	b := mathutil.Vec3{1, 0, 0}
	c := mathutil.Vec3{2, 0, 0}
	if got := Barycentric(a, b, c, mathutil.Vec3{0.5, 0, 0}); got.IsFinite() {
		t.Fatalf("colinear triangle should not produce finite coordinates, got %v", got)
	}
}

func TestForceNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   mathutil.Vec3
		want mathutil.Vec3
	}{
		{"regular", mathutil.Vec3{0, 0, 2}, mathutil.Vec3{0, 0, 1}},
		{"sliver rescued", mathutil.Vec3{0, 0, 1e-8}, mathutil.Vec3{0, 0, 1}},
		{"zero stays zero", mathutil.Vec3{}, mathutil.Vec3{}},
		{"beyond rescue", mathutil.Vec3{0, 1e-13, 0}, mathutil.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForceNormalize(tt.in); !got.NearEquals(tt.want, 1e-12) {
				t.Fatalf("ForceNormalize(%v): want %v got %v", tt.in, tt.want, got)
			}
		})
	}
}

func TestProjectOntoEdgeClamps(t *testing.T) {
	origin := mathutil.Vec3{0, 0, 0}
	edge := mathutil.Vec3{1, 0, 0}
	tests := []struct {
		p, want mathutil.Vec3
	}{
		{mathutil.Vec3{2, 0, 0}, mathutil.Vec3{1, 0, 0}},
		{mathutil.Vec3{-3, 1, 0}, mathutil.Vec3{0, 0, 0}},
		{mathutil.Vec3{0.25, 5, 0}, mathutil.Vec3{0.25, 0, 0}},
	}
	for _, tt := range tests {
		if got := ProjectOntoEdge(tt.p, origin, edge); !got.NearEquals(tt.want, 1e-12) {
			t.Fatalf("ProjectOntoEdge(%v): want %v got %v", tt.p, tt.want, got)
		}
	}
	if got := ProjectOntoEdge(mathutil.Vec3{3, 3, 3}, origin, mathutil.Vec3{}); got != origin {
		t.Fatalf("zero-length edge should project onto its origin, got %v", got)
	}
}

func TestDistanceOrdering(t *testing.T) {
	if Invalid.Less(Invalid) {
		t.Fatalf("invalid must not beat invalid")
	}
	if Invalid.Less(Valid(1)) {
		t.Fatalf("invalid must not beat a valid distance")
	}
	if !Valid(math.MaxFloat64).Less(Invalid) {
		t.Fatalf("any valid distance beats invalid")
	}
	if Valid(1).Less(Valid(1)) {
		t.Fatalf("ties must not replace the incumbent")
	}
	if Valid(math.NaN()).IsValid() || Valid(math.Inf(1)).IsValid() {
		t.Fatalf("NaN and Inf must collapse to invalid")
	}
}
