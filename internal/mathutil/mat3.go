package mathutil

import "math"

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// Value type for zero heap allocation.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return m
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns M⁻¹, or identity for a singular matrix.
func (m Mat3) Inverse() Mat3 {
	d := m.Det()
	if d == 0 {
		return Mat3Identity()
	}
	invD := 1.0 / d
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * invD,
		(m[2]*m[7] - m[1]*m[8]) * invD,
		(m[1]*m[5] - m[2]*m[4]) * invD,
		(m[5]*m[6] - m[3]*m[8]) * invD,
		(m[0]*m[8] - m[2]*m[6]) * invD,
		(m[2]*m[3] - m[0]*m[5]) * invD,
		(m[3]*m[7] - m[4]*m[6]) * invD,
		(m[1]*m[6] - m[0]*m[7]) * invD,
		(m[0]*m[4] - m[1]*m[3]) * invD,
	}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Orthonormalize strips scale and shear from a rotation-like matrix
// (Gram-Schmidt on the columns).
func (m Mat3) Orthonormalize() Mat3 {
	x := Vec3{m[0], m[3], m[6]}.Normalize()
	y := Vec3{m[1], m[4], m[7]}
	y = y.Sub(x.Scale(x.Dot(y))).Normalize()
	z := x.Cross(y)
	return Mat3{
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2],
	}
}

// Euler decomposes a rotation matrix into XYZ Euler angles (radians) such that
// M = RotZ(z) × RotY(y) × RotX(x), the convention of EulerToQuat.
func (m Mat3) Euler() Vec3 {
	sy := -m[6]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y := math.Asin(sy)
	if math.Abs(sy) > 1-1e-9 {
		// gimbal lock: fold Z into X
		return Vec3{math.Atan2(-m[5], m[4]), y, 0}
	}
	return Vec3{math.Atan2(m[7], m[8]), y, math.Atan2(m[3], m[0])}
}

// EulerZXY decomposes a rotation matrix into Euler angles (radians, ordered
// x, y, z) such that M = RotY(y) × RotX(x) × RotZ(z): Z is applied first,
// then X, then Y.
func (m Mat3) EulerZXY() Vec3 {
	sx := -m[5]
	if sx > 1 {
		sx = 1
	} else if sx < -1 {
		sx = -1
	}
	x := math.Asin(sx)
	if math.Abs(sx) > 1-1e-9 {
		// gimbal lock: fold Z into Y
		return Vec3{x, math.Atan2(-m[6], m[0]), 0}
	}
	return Vec3{x, math.Atan2(m[2], m[8]), math.Atan2(m[3], m[4])}
}
