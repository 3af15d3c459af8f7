package debugview

import (
	"math"

	"skinbind/internal/mathutil"
)

// Projection is an orthographic camera fitted to a set of points.
type Projection struct {
	rot    mathutil.Mat3
	center mathutil.Vec3
	scale  float64
	size   int
}

// FitProjection rotates points by the XYZ Euler angles viewDeg and scales
// the result so its larger screen extent fills size minus margin pixels on
// each side. Non-finite points are ignored.
func FitProjection(points []mathutil.Vec3, viewDeg mathutil.Vec3, size, margin int) Projection {
	rot := mathutil.QuatToMat3(eulerQuat(viewDeg))

	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, p := range points {
		if !p.IsFinite() {
			continue
		}
		found = true
		v := rot.MulVec3(p)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	if !found {
		return Projection{rot: rot, scale: 1, size: size}
	}

	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 1e-6 {
		span = 1e-6
	}
	usable := size - 2*margin
	if usable < 1 {
		usable = size
	}
	return Projection{
		rot:    rot,
		center: lo.Add(hi).Scale(0.5),
		scale:  float64(usable) / span,
		size:   size,
	}
}

// Project maps a model-space point to pixel coordinates. Screen y grows
// downwards; z is view depth, larger is closer.
func (p Projection) Project(v mathutil.Vec3) mathutil.Vec3 {
	r := p.rot.MulVec3(v).Sub(p.center)
	half := float64(p.size) / 2
	return mathutil.Vec3{
		half + r[0]*p.scale,
		half - r[1]*p.scale,
		r[2],
	}
}

func eulerQuat(deg mathutil.Vec3) mathutil.Quat {
	r := mathutil.EulerDeg2Rad(deg)
	return mathutil.EulerToQuat(r[0], r[1], r[2])
}
