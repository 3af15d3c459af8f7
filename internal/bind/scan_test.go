package bind

import (
	"math"
	"testing"

	"skinbind/internal/mathutil"
)

var unitTriangle = []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

func TestNearestTriangleInside(t *testing.T) {
	p := mathutil.Vec3{1.0 / 3, 1.0 / 3, 0}
	hit, ok := NearestTriangle(unitTriangle, [][3]int{{0, 1, 2}}, p)
	if !ok {
		t.Fatalf("expected a match")
	}
	if !hit.Barycentric.NearEquals(mathutil.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3}, 1e-9) {
		t.Fatalf("barycentric: got %v", hit.Barycentric)
	}
	if hit.Distance > 1e-12 {
		t.Fatalf("point on the plane should have distance 0, got %g", hit.Distance)
	}
}

func TestNearestTriangleAbovePlane(t *testing.T) {
	p := mathutil.Vec3{0.25, 0.25, -0.5}
	hit, ok := NearestTriangle(unitTriangle, [][3]int{{0, 1, 2}}, p)
	if !ok {
		t.Fatalf("expected a match")
	}
	if math.Abs(hit.Distance-0.5) > 1e-12 {
		t.Fatalf("want plane distance 0.5, got %g", hit.Distance)
	}
}

func TestNearestTriangleOutsideUsesClampedEdge(t *testing.T) {
	p := mathutil.Vec3{2, 0, 0.1}
	hit, ok := NearestTriangle(unitTriangle, [][3]int{{0, 1, 2}}, p)
	if !ok {
		t.Fatalf("expected a match")
	}
	want := p.Dist(mathutil.Vec3{1, 0, 0})
	if math.Abs(hit.Distance-want) > 1e-12 {
		t.Fatalf("want distance to corner B %g, got %g", want, hit.Distance)
	}
	if math.Abs(hit.Distance-0.1) < 1e-6 {
		t.Fatalf("distance must not be the plane distance")
	}
	if hit.Barycentric[0] >= 0 && hit.Barycentric[1] >= 0 && hit.Barycentric[2] >= 0 {
		t.Fatalf("projection should be outside the triangle, got %v", hit.Barycentric)
	}
}

func TestNearestTriangleOnlyDegenerate(t *testing.T) {
	verts := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	if hit, ok := NearestTriangle(verts, [][3]int{{0, 1, 2}}, mathutil.Vec3{1, 0, 0}); ok {
		t.Fatalf("colinear triangle must not match, got %+v", hit)
	}
}

func TestNearestTriangleSkipsDegenerate(t *testing.T) {
	verts := []mathutil.Vec3{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, // colinear, passes through the sample point
		{0, 0, 5}, {1, 0, 5}, {0, 1, 5},
	}
	tris := [][3]int{{0, 1, 2}, {3, 4, 5}}
	hit, ok := NearestTriangle(verts, tris, mathutil.Vec3{0.5, 0, 0})
	if !ok {
		t.Fatalf("expected the valid triangle to match")
	}
	if hit.Triangle != 1 || hit.Start != 3 {
		t.Fatalf("want triangle 1 (start 3), got %d (start %d)", hit.Triangle, hit.Start)
	}
	if hit.Distance <= 0 {
		t.Fatalf("distance must not collapse to zero, got %g", hit.Distance)
	}
}

func TestNearestTriangleSliver(t *testing.T) {
	verts := []mathutil.Vec3{{0, 0, 0}, {1e-4, 0, 0}, {0, 1e-4, 0}}
	hit, ok := NearestTriangle(verts, [][3]int{{0, 1, 2}}, mathutil.Vec3{2e-5, 2e-5, 1})
	if !ok {
		t.Fatalf("tiny but non-degenerate triangle should match")
	}
	if math.Abs(hit.Distance-1) > 1e-9 {
		t.Fatalf("want plane distance 1, got %g", hit.Distance)
	}
}

func TestNearestTriangleFirstWinsOnTie(t *testing.T) {
	tris := [][3]int{{0, 1, 2}, {0, 1, 2}, {2, 0, 1}}
	hit, ok := NearestTriangle(unitTriangle, tris, mathutil.Vec3{0.2, 0.2, 1})
	if !ok || hit.Triangle != 0 {
		t.Fatalf("first of equal triangles should win, got %+v ok=%v", hit, ok)
	}
}

func TestNearestTrianglePicksClosest(t *testing.T) {
	verts := []mathutil.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
		{0, 0, 3}, {1, 0, 3}, {0, 1, 3},
	}
	tris := [][3]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}
	hit, ok := NearestTriangle(verts, tris, mathutil.Vec3{0.1, 0.1, 1.2})
	if !ok || hit.Triangle != 1 || hit.Corners != [3]int{3, 4, 5} {
		t.Fatalf("want middle triangle, got %+v", hit)
	}
	if math.Abs(hit.Distance-0.2) > 1e-12 {
		t.Fatalf("want distance 0.2, got %g", hit.Distance)
	}
}

func TestNearestTriangleEmptyAndBadIndices(t *testing.T) {
	if _, ok := NearestTriangle(unitTriangle, nil, mathutil.Vec3{}); ok {
		t.Fatalf("empty triangle list must not match")
	}
	if _, ok := NearestTriangle(unitTriangle, [][3]int{{0, 1, 9}}, mathutil.Vec3{}); ok {
		t.Fatalf("out of range corner must not match")
	}
}

func TestNearestVertexTieBreak(t *testing.T) {
	verts := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}}
	hit, ok := NearestVertex(verts, mathutil.Vec3{0.5, 0.8660254037844386, 0})
	if !ok {
		t.Fatalf("expected a match")
	}
	if hit.Vertex != 0 {
		t.Fatalf("first equidistant vertex should win, got %d", hit.Vertex)
	}
}

func TestNearestVertex(t *testing.T) {
	verts := []mathutil.Vec3{{5, 5, 5}, {math.NaN(), 0, 0}, {1, 1, 1}, {0, 0, 2}}
	hit, ok := NearestVertex(verts, mathutil.Vec3{0, 0, 0})
	if !ok || hit.Vertex != 2 {
		t.Fatalf("want vertex 2, got %+v ok=%v", hit, ok)
	}
	if math.Abs(hit.Distance-math.Sqrt(3)) > 1e-12 {
		t.Fatalf("want distance sqrt(3), got %g", hit.Distance)
	}
	if _, ok := NearestVertex(nil, mathutil.Vec3{}); ok {
		t.Fatalf("empty vertex list must not match")
	}
}

func BenchmarkNearestTriangle(b *testing.B) {
	verts, tris := gridMesh(64)
	p := mathutil.Vec3{17.3, 40.1, 0.5}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NearestTriangle(verts, tris, p)
	}
}

func BenchmarkNearestVertex(b *testing.B) {
	verts, _ := gridMesh(64)
	p := mathutil.Vec3{17.3, 40.1, 0.5}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NearestVertex(verts, p)
	}
}

// gridMesh builds an n×n quad grid on the z=0 plane split into triangles.
func gridMesh(n int) ([]mathutil.Vec3, [][3]int) {
	verts := make([]mathutil.Vec3, 0, (n+1)*(n+1))
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			verts = append(verts, mathutil.Vec3{float64(x), float64(y), 0})
		}
	}
	tris := make([][3]int, 0, n*n*2)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*(n+1) + x
			tris = append(tris, [3]int{i, i + 1, i + n + 1}, [3]int{i + 1, i + n + 2, i + n + 1})
		}
	}
	return verts, tris
}
