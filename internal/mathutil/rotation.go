package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// EulerDeg2Rad converts an XYZ Euler triple from degrees to radians.
func EulerDeg2Rad(e Vec3) Vec3 {
	return Vec3{Deg2Rad(e[0]), Deg2Rad(e[1]), Deg2Rad(e[2])}
}

// EulerRad2Deg converts an XYZ Euler triple from radians to degrees.
func EulerRad2Deg(e Vec3) Vec3 {
	return Vec3{Rad2Deg(e[0]), Rad2Deg(e[1]), Rad2Deg(e[2])}
}
