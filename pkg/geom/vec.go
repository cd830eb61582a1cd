// Package geom provides the vector and rigid-transform math used by the
// clash and opening-placement engines. All angles are in radians and all
// lengths are in model units.
package geom

import "math"

// Eps is the shared tolerance for treating a length or component as zero.
const Eps = 1e-9

// Vec3 represents a 3D vector or point.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether every component of v is within Eps of zero.
func (v Vec3) IsZero() bool {
	return math.Abs(v.X) < Eps && math.Abs(v.Y) < Eps && math.Abs(v.Z) < Eps
}

// Normalize returns the unit vector in the direction of v. The boolean is
// false when v is too short to normalize; callers that cannot tolerate a
// degenerate direction must check it.
func (v Vec3) Normalize() (Vec3, bool) {
	l := v.Length()
	if l < Eps {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// Horizontal returns v with its Z component dropped. The result is not
// normalized; a vertical vector projects to the zero vector.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}

// UnitX, UnitY and UnitZ are the canonical axes of the working space.
var (
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

// SignedAngle returns the angle in (-π, π] that rotates from onto to when
// rotating about the given axis (right-hand rule). Both from and to should
// be roughly perpendicular to about; their components along about are
// ignored by construction of the atan2 formulation.
func SignedAngle(from, to, about Vec3) float64 {
	return math.Atan2(from.Cross(to).Dot(about), from.Dot(to))
}

// Frame is a local coordinate system: an origin plus three mutually
// perpendicular unit axes. Used for run cross-section orientation.
type Frame struct {
	Origin  Vec3
	X, Y, Z Vec3
}
