// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// volumeSamples is the per-axis grid resolution used when sampling the
// signed distance field for volume and centroid. 48³ keeps the relative
// volume error of a box-box intersection well under the degeneracy epsilon
// used by the clash finder.
const volumeSamples = 48

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max geom.Vec3) {
	bb := s.s.BoundingBox()
	min = geom.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}
	max = geom.Vec3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box centered at the origin with the given extents.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder centered at the origin with its axis
// along +Z.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Intersect returns the boolean intersection of two solids. SDF
// intersection is total: a disjoint pair yields an empty field rather
// than an error, which the caller detects via Volume.
//
// sdf.Intersect3D reports the first operand's bounding box, which for a
// long run element dwarfs the actual overlap and would starve the
// sampling grid. The result is re-bounded to the AABB overlap of the two
// operands so Volume and Centroid always sample the overlap region at
// full resolution.
func (k *SdfxKernel) Intersect(a, b kernel.Solid) (kernel.Solid, error) {
	sa, sb := unwrap(a), unwrap(b)
	return wrap(&rebounded{
		s:  sdf.Intersect3D(sa, sb),
		bb: boxOverlap(sa.BoundingBox(), sb.BoundingBox()),
	}), nil
}

// rebounded overrides an SDF3's bounding box with a tighter one.
type rebounded struct {
	s  sdf.SDF3
	bb sdf.Box3
}

func (r *rebounded) Evaluate(p v3.Vec) float64 { return r.s.Evaluate(p) }
func (r *rebounded) BoundingBox() sdf.Box3     { return r.bb }

// boxOverlap returns the AABB intersection of two boxes. A disjoint pair
// yields a degenerate (zero-extent) box, which sample treats as empty.
func boxOverlap(a, b sdf.Box3) sdf.Box3 {
	min := v3.Vec{
		X: math.Max(a.Min.X, b.Min.X),
		Y: math.Max(a.Min.Y, b.Min.Y),
		Z: math.Max(a.Min.Z, b.Min.Z),
	}
	max := v3.Vec{
		X: math.Min(a.Max.X, b.Max.X),
		Y: math.Min(a.Max.Y, b.Max.Y),
		Z: math.Min(a.Max.Z, b.Max.Z),
	}
	if max.X < min.X || max.Y < min.Y || max.Z < min.Z {
		return sdf.Box3{Min: min, Max: min}
	}
	return sdf.Box3{Min: min, Max: max}
}

// Transform applies a rigid transform to a solid. The rotational part is
// converted to a single axis-angle rotation so it can be expressed as one
// sdfx matrix.
func (k *SdfxKernel) Transform(s kernel.Solid, t geom.Transform) kernel.Solid {
	axis, angle := t.AxisAngle()
	m := sdf.Translate3d(v3.Vec{X: t.Origin.X, Y: t.Origin.Y, Z: t.Origin.Z})
	if angle != 0 {
		m = m.Mul(sdf.Rotate3d(v3.Vec{X: axis.X, Y: axis.Y, Z: axis.Z}, angle))
	}
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Volume estimates the volume of a solid by uniform sampling of the
// signed distance field over its bounding box.
func (k *SdfxKernel) Volume(s kernel.Solid) float64 {
	vol, _ := sample(unwrap(s))
	return vol
}

// Centroid estimates the centroid of a solid by uniform sampling. For an
// empty solid it returns the bounding box center.
func (k *SdfxKernel) Centroid(s kernel.Solid) geom.Vec3 {
	_, c := sample(unwrap(s))
	return c
}

// sample evaluates the SDF on a uniform grid over its bounding box and
// returns the estimated volume and centroid of the interior.
func sample(s sdf.SDF3) (float64, geom.Vec3) {
	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	center := geom.Vec3{
		X: (bb.Min.X + bb.Max.X) / 2,
		Y: (bb.Min.Y + bb.Max.Y) / 2,
		Z: (bb.Min.Z + bb.Max.Z) / 2,
	}
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		// Degenerate or inverted box: the field is empty.
		return 0, center
	}

	dx := size.X / volumeSamples
	dy := size.Y / volumeSamples
	dz := size.Z / volumeSamples
	cellVol := dx * dy * dz

	var inside int
	var sum geom.Vec3
	for i := 0; i < volumeSamples; i++ {
		x := bb.Min.X + (float64(i)+0.5)*dx
		for j := 0; j < volumeSamples; j++ {
			y := bb.Min.Y + (float64(j)+0.5)*dy
			for l := 0; l < volumeSamples; l++ {
				z := bb.Min.Z + (float64(l)+0.5)*dz
				if s.Evaluate(v3.Vec{X: x, Y: y, Z: z}) <= 0 {
					inside++
					sum = sum.Add(geom.Vec3{X: x, Y: y, Z: z})
				}
			}
		}
	}

	if inside == 0 {
		return 0, center
	}
	return float64(inside) * cellVol, sum.Scale(1 / float64(inside))
}
