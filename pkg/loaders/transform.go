package loaders

import (
	"math"

	"github.com/df07/go-rayjay/pkg/core"
)

// mat4 is a column-major 4x4 affine transform, matching glTF's node matrix layout
type mat4 [16]float64

var identity = mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// mul returns m * other
func (m mat4) mul(other mat4) mat4 {
	var result mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			result[col*4+row] = sum
		}
	}
	return result
}

// trs composes translation, rotation quaternion (x, y, z, w) and scale as T * R * S
func trs(t [3]float64, q [4]float64, s [3]float64) mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	if x == 0 && y == 0 && z == 0 && w == 0 {
		w = 1
	}
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}

	rot := [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}

	var m mat4
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] = rot[row][col] * s[col]
		}
	}
	m[12], m[13], m[14], m[15] = t[0], t[1], t[2], 1
	return m
}

func (m mat4) transformPoint(p core.Vec3) core.Vec3 {
	return core.NewVec3(
		m[0]*p.X+m[4]*p.Y+m[8]*p.Z+m[12],
		m[1]*p.X+m[5]*p.Y+m[9]*p.Z+m[13],
		m[2]*p.X+m[6]*p.Y+m[10]*p.Z+m[14],
	)
}

func (m mat4) transformDirection(d core.Vec3) core.Vec3 {
	return core.NewVec3(
		m[0]*d.X+m[4]*d.Y+m[8]*d.Z,
		m[1]*d.X+m[5]*d.Y+m[9]*d.Z,
		m[2]*d.X+m[6]*d.Y+m[10]*d.Z,
	)
}

// maxScale returns the largest axis scale, the factor a sphere radius grows by
func (m mat4) maxScale() float64 {
	sx := math.Sqrt(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])
	sy := math.Sqrt(m[4]*m[4] + m[5]*m[5] + m[6]*m[6])
	sz := math.Sqrt(m[8]*m[8] + m[9]*m[9] + m[10]*m[10])
	return math.Max(sx, math.Max(sy, sz))
}
