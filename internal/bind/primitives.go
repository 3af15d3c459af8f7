package bind

import "skinbind/internal/mathutil"

const (
	// normalizeMinLen is the length below which a vector counts as too small
	// to normalize.
	normalizeMinLen = 1e-5

	// degenerateRescale lifts tiny cross products of sliver triangles above
	// normalizeMinLen before a second normalization attempt.
	degenerateRescale = 1_000_000
)

// ForceNormalize normalizes v even when it is very short. A zero result means
// v is degenerate beyond rescue (e.g. the cross product of colinear edges).
func ForceNormalize(v mathutil.Vec3) mathutil.Vec3 {
	n := v.NormalizeMin(normalizeMinLen)
	if n.IsZero() {
		return v.Scale(degenerateRescale).NormalizeMin(normalizeMinLen)
	}
	return n
}

// Barycentric returns (a, b, c) with p ≈ a·A + b·B + c·C for a point p in
// the plane of triangle ABC. Components are NaN or ±Inf for a zero-area
// triangle.
func Barycentric(A, B, C, p mathutil.Vec3) mathutil.Vec3 {
	ab := B.Sub(A)
	ac := C.Sub(A)
	ap := p.Sub(A)
	d00 := ab.Dot(ab)
	d01 := ab.Dot(ac)
	d11 := ac.Dot(ac)
	d20 := ap.Dot(ab)
	d21 := ap.Dot(ac)

	denom := d00*d11 - d01*d01

	b := (d11*d20 - d01*d21) / denom
	c := (d00*d21 - d01*d20) / denom
	return mathutil.Vec3{1 - b - c, b, c}
}

// ProjectOntoEdge returns the point of segment [origin, origin+edge] nearest
// to p. The edge parameter is clamped to [0,1] before evaluation; a
// zero-length edge projects onto origin.
func ProjectOntoEdge(p, origin, edge mathutil.Vec3) mathutil.Vec3 {
	lenSq := edge.Dot(edge)
	if lenSq == 0 {
		return origin
	}
	t := mathutil.Clamp01(p.Sub(origin).Dot(edge) / lenSq)
	return origin.Add(edge.Scale(t))
}
