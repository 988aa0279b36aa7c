package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := float64(angle) / 2
	s := float32(math.Sin(halfAngle))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(halfAngle)),
	}
}

// QuatFromEuler creates a quaternion from Euler angles in radians applied in
// XYZ order. Angles are used as given: values outside one revolution wrap
// through sin/cos and are never clamped.
func QuatFromEuler(e Vec3) Quat {
	c1 := math.Cos(float64(e.X) / 2)
	c2 := math.Cos(float64(e.Y) / 2)
	c3 := math.Cos(float64(e.Z) / 2)
	s1 := math.Sin(float64(e.X) / 2)
	s2 := math.Sin(float64(e.Y) / 2)
	s3 := math.Sin(float64(e.Z) / 2)

	return Quat{
		X: float32(s1*c2*c3 + c1*s2*s3),
		Y: float32(c1*s2*c3 - s1*c2*s3),
		Z: float32(c1*c2*s3 + s1*s2*c3),
		W: float32(c1*c2*c3 - s1*s2*s3),
	}
}

// QuatLookAt returns the orientation of an object at eye whose local -Z axis
// points at target.
func QuatLookAt(eye, target, up Vec3) Quat {
	z := eye.Sub(target).Normalize()
	if z == (Vec3{}) {
		z = UnitZ
	}
	x := up.Cross(z).Normalize()
	if x == (Vec3{}) {
		// up is parallel to the view direction; nudge it.
		x = Vec3{X: up.X + 0.0001, Y: up.Y, Z: up.Z + 0.0001}.Cross(z).Normalize()
	}
	y := z.Cross(x)
	return quatFromBasis(x, y, z)
}

// quatFromBasis converts an orthonormal basis (matrix columns) to a quaternion.
func quatFromBasis(x, y, z Vec3) Quat {
	m11, m12, m13 := float64(x.X), float64(y.X), float64(z.X)
	m21, m22, m23 := float64(x.Y), float64(y.Y), float64(z.Y)
	m31, m32, m33 := float64(x.Z), float64(y.Z), float64(z.Z)

	trace := m11 + m22 + m33
	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{
			X: float32((m32 - m23) * s),
			Y: float32((m13 - m31) * s),
			Z: float32((m21 - m12) * s),
			W: float32(0.25 / s),
		}
	case m11 > m22 && m11 > m33:
		s := 2 * math.Sqrt(1+m11-m22-m33)
		q = Quat{
			X: float32(0.25 * s),
			Y: float32((m12 + m21) / s),
			Z: float32((m13 + m31) / s),
			W: float32((m32 - m23) / s),
		}
	case m22 > m33:
		s := 2 * math.Sqrt(1+m22-m11-m33)
		q = Quat{
			X: float32((m12 + m21) / s),
			Y: float32(0.25 * s),
			Z: float32((m23 + m32) / s),
			W: float32((m13 - m31) / s),
		}
	default:
		s := 2 * math.Sqrt(1+m33-m11-m22)
		q = Quat{
			X: float32((m13 + m31) / s),
			Y: float32((m23 + m32) / s),
			Z: float32(0.25 * s),
			W: float32((m21 - m12) / s),
		}
	}
	return q.Normalize()
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp performs spherical linear interpolation between two quaternions.
// t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	dot := q.Dot(other)

	// Take the shorter path.
	if dot < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		dot = -dot
	}

	if dot > 0.9995 {
		return Quat{
			X: q.X + t*(other.X-q.X),
			Y: q.Y + t*(other.Y-q.Y),
			Z: q.Z + t*(other.Z-q.Z),
			W: q.W + t*(other.W-q.W),
		}.Normalize()
	}

	theta0 := float32(math.Acos(float64(dot)))
	theta := theta0 * t
	sinTheta := float32(math.Sin(float64(theta)))
	sinTheta0 := float32(math.Sin(float64(theta0)))

	s0 := float32(math.Cos(float64(theta))) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return Quat{
		X: q.X*s0 + other.X*s1,
		Y: q.Y*s0 + other.Y*s1,
		Z: q.Z*s0 + other.Z*s1,
		W: q.W*s0 + other.W*s1,
	}
}

// ApproxEqual reports whether q and other describe the same rotation within eps.
func (q Quat) ApproxEqual(other Quat, eps float32) bool {
	return 1-abs(q.Dot(other)) <= eps
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
