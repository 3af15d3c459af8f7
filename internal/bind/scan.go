package bind

import (
	"math"

	"skinbind/internal/mathutil"
)

// TriangleHit describes the triangle nearest to a sample point.
type TriangleHit struct {
	Triangle    int           // ordinal in the triangle list
	Start       int           // index of the first corner in a flat index list (3*Triangle)
	Corners     [3]int        // vertex indices A, B, C
	Barycentric mathutil.Vec3 // (a, b, c) of the sample point's projection onto the plane
	Distance    float64
}

// VertexHit describes the vertex nearest to a sample point.
type VertexHit struct {
	Vertex   int
	Distance float64
}

// NearestTriangle scans every triangle and returns the one whose surface is
// closest to p. Degenerate triangles are never selected; false is returned
// when no triangle qualifies.
func NearestTriangle(vertices []mathutil.Vec3, triangles [][3]int, p mathutil.Vec3) (TriangleHit, bool) {
	best := Invalid
	var hit TriangleHit
	for i, tri := range triangles {
		d, bary := triangleDistance(vertices, tri, p)
		if !d.Less(best) {
			continue
		}
		best = d
		hit = TriangleHit{
			Triangle:    i,
			Start:       i * 3,
			Corners:     tri,
			Barycentric: bary,
		}
	}
	v, ok := best.Value()
	if !ok {
		return TriangleHit{}, false
	}
	hit.Distance = v
	return hit, true
}

// triangleDistance measures p against one triangle. Inside the triangle the
// distance is the plane distance; outside, the distance to the nearest edge.
func triangleDistance(vertices []mathutil.Vec3, tri [3]int, p mathutil.Vec3) (Distance, mathutil.Vec3) {
	for _, idx := range tri {
		if idx < 0 || idx >= len(vertices) {
			return Invalid, mathutil.Vec3{}
		}
	}
	a, b, c := vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]

	ab := b.Sub(a)
	ac := c.Sub(a)
	bc := c.Sub(b)
	normal := ForceNormalize(ab.Cross(ac))
	signed := p.Sub(a).Dot(normal)
	projected := p.Sub(normal.Scale(signed))

	bary := Barycentric(a, b, c, projected)
	if normal.IsZero() || !bary.IsFinite() {
		return Invalid, bary
	}

	if bary[0] >= 0 && bary[1] >= 0 && bary[2] >= 0 {
		return Valid(math.Abs(signed)), bary
	}

	// Each edge is the one opposite a corner: AB faces C, AC faces B, BC faces A.
	oppositeC := ProjectOntoEdge(projected, a, ab).Dist(p)
	oppositeB := ProjectOntoEdge(projected, a, ac).Dist(p)
	oppositeA := ProjectOntoEdge(projected, b, bc).Dist(p)
	return Valid(math.Min(math.Min(oppositeA, oppositeB), oppositeC)), bary
}

// NearestVertex scans every vertex and returns the closest one to p. On
// equal distances the earlier vertex wins.
func NearestVertex(vertices []mathutil.Vec3, p mathutil.Vec3) (VertexHit, bool) {
	best := Invalid
	closest := -1
	for i, v := range vertices {
		d := Valid(v.Dist(p))
		if d.Less(best) {
			best = d
			closest = i
		}
	}
	dist, ok := best.Value()
	if !ok {
		return VertexHit{}, false
	}
	return VertexHit{Vertex: closest, Distance: dist}, true
}
