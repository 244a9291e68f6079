package vmath

import "math"

// Mat4 is a column-major 4x4 float64 matrix
// Element (row r, col c) is stored at index c*4+r
type Mat4 [16]float64

// Identity4 returns the identity matrix
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 returns a translation matrix
func Translate4(t Vec3F) Mat4 {
	m := Identity4()
	m[12] = t.X
	m[13] = t.Y
	m[14] = t.Z
	return m
}

// Rotate4 returns a rotation of angle radians about axis (x, y, z)
// The axis is normalized; a zero axis yields identity
func Rotate4(angle, x, y, z float64) Mat4 {
	axis := V3FNormalize(Vec3F{x, y, z})
	if axis == (Vec3F{}) {
		return Identity4()
	}
	x, y, z = axis.X, axis.Y, axis.Z

	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a*b
func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// TransformPoint applies m to (p, 1) and returns the xyz part
func (m Mat4) TransformPoint(p Vec3F) Vec3F {
	return Vec3F{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}
