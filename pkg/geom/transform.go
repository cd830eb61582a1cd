package geom

import "math"

// Transform is a rigid transform: a proper rotation followed by a
// translation. BasisX/Y/Z are the images of the unit axes under the
// rotation; they must stay orthonormal, which every constructor in this
// package guarantees.
type Transform struct {
	BasisX, BasisY, BasisZ Vec3
	Origin                 Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{BasisX: UnitX, BasisY: UnitY, BasisZ: UnitZ}
}

// Translation returns a pure translation by d.
func Translation(d Vec3) Transform {
	t := Identity()
	t.Origin = d
	return t
}

// RotationZ returns a rotation by angle about the vertical axis through
// the given origin point.
func RotationZ(angle float64, origin Vec3) Transform {
	return RotationAbout(UnitZ, angle, origin)
}

// RotationAbout returns a rotation by angle about an arbitrary unit axis
// through the given origin point (Rodrigues rotation applied to the basis).
func RotationAbout(axis Vec3, angle float64, origin Vec3) Transform {
	t := Transform{
		BasisX: rodrigues(UnitX, axis, angle),
		BasisY: rodrigues(UnitY, axis, angle),
		BasisZ: rodrigues(UnitZ, axis, angle),
	}
	// Fix the origin point: origin must map to itself.
	t.Origin = origin.Sub(t.ApplyVec(origin))
	return t
}

// rodrigues rotates v about the unit axis k by angle a.
func rodrigues(v, k Vec3, a float64) Vec3 {
	cos, sin := math.Cos(a), math.Sin(a)
	return v.Scale(cos).
		Add(k.Cross(v).Scale(sin)).
		Add(k.Scale(k.Dot(v) * (1 - cos)))
}

// Apply maps a point through the transform.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.ApplyVec(p).Add(t.Origin)
}

// ApplyVec maps a direction through the transform's rotation only.
func (t Transform) ApplyVec(v Vec3) Vec3 {
	return t.BasisX.Scale(v.X).
		Add(t.BasisY.Scale(v.Y)).
		Add(t.BasisZ.Scale(v.Z))
}

// Mul returns the composition t∘o: applying the result is equivalent to
// applying o first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		BasisX: t.ApplyVec(o.BasisX),
		BasisY: t.ApplyVec(o.BasisY),
		BasisZ: t.ApplyVec(o.BasisZ),
		Origin: t.Apply(o.Origin),
	}
}

// Inverse returns the inverse rigid transform.
func (t Transform) Inverse() Transform {
	// The inverse rotation is the transpose of the basis matrix.
	inv := Transform{
		BasisX: Vec3{t.BasisX.X, t.BasisY.X, t.BasisZ.X},
		BasisY: Vec3{t.BasisX.Y, t.BasisY.Y, t.BasisZ.Y},
		BasisZ: Vec3{t.BasisX.Z, t.BasisY.Z, t.BasisZ.Z},
	}
	inv.Origin = inv.ApplyVec(t.Origin).Neg()
	return inv
}

// AxisAngle extracts the rotation axis and angle of the transform's
// rotational part. The angle is in [0, π]. For the identity rotation the
// axis is +Z by convention. Geometry kernels that compose rotations from
// axis-angle pairs use this to apply an arbitrary rigid transform.
func (t Transform) AxisAngle() (axis Vec3, angle float64) {
	trace := t.BasisX.X + t.BasisY.Y + t.BasisZ.Z
	c := (trace - 1) / 2
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	angle = math.Acos(c)

	if angle < Eps {
		return UnitZ, 0
	}

	if math.Pi-angle < 1e-6 {
		// Near π the skew-symmetric part vanishes; recover the axis from
		// the symmetric part: R = 2·aaᵀ - I for a half-turn.
		ax := math.Sqrt(math.Max(0, (t.BasisX.X+1)/2))
		ay := math.Sqrt(math.Max(0, (t.BasisY.Y+1)/2))
		az := math.Sqrt(math.Max(0, (t.BasisZ.Z+1)/2))
		// Sign disambiguation from the off-diagonal sums.
		if ax >= ay && ax >= az {
			if t.BasisY.X+t.BasisX.Y < 0 {
				ay = -ay
			}
			if t.BasisZ.X+t.BasisX.Z < 0 {
				az = -az
			}
		} else if ay >= az {
			if t.BasisY.X+t.BasisX.Y < 0 {
				ax = -ax
			}
			if t.BasisZ.Y+t.BasisY.Z < 0 {
				az = -az
			}
		} else {
			if t.BasisZ.X+t.BasisX.Z < 0 {
				ax = -ax
			}
			if t.BasisZ.Y+t.BasisY.Z < 0 {
				ay = -ay
			}
		}
		axis, _ = Vec3{ax, ay, az}.Normalize()
		return axis, angle
	}

	// Generic case: axis from the skew-symmetric part of R.
	raw := Vec3{
		X: t.BasisY.Z - t.BasisZ.Y,
		Y: t.BasisZ.X - t.BasisX.Z,
		Z: t.BasisX.Y - t.BasisY.X,
	}
	axis, ok := raw.Normalize()
	if !ok {
		return UnitZ, 0
	}
	return axis, angle
}
