package opening

import (
	"math"

	"github.com/chazu/aperture/pkg/clash"
	"github.com/chazu/aperture/pkg/model"
)

// BoxSpec is the computed sizing of one opening box. Width, Height and
// Diameter are multiples of the configured rounding granularity (or
// unrounded when the granularity is zero or negative); Thickness is the
// host thickness plus the protrusion on both faces.
type BoxSpec struct {
	Shape      model.SectionShape
	Width      float64
	Height     float64
	Diameter   float64 // zero for rectangular boxes
	Thickness  float64
	Protrusion float64 // per-face protrusion, carried for write-back
}

// StackingHeight is the box's extent along its local stacking axis: the
// height for a rectangular box, the diameter for a round one. The wall
// positioner's anchor offset is defined against this dimension.
func (b BoxSpec) StackingHeight() float64 {
	if b.Shape == model.SectionRound {
		return b.Diameter
	}
	return b.Height
}

// CeilToMultiple rounds v up to the smallest multiple of r that is >= v.
// It returns v unchanged when r <= 0. Rounding is always upward: an
// opening sized under the real penetration is the failure mode this
// exists to prevent.
func CeilToMultiple(v, r float64) float64 {
	if r <= 0 {
		return v
	}
	return math.Ceil(v/r) * r
}

// Calculate derives the BoxSpec for one intersection record.
func Calculate(rec clash.Record, s Settings) BoxSpec {
	spec := BoxSpec{
		Shape:      rec.Section.Shape,
		Thickness:  rec.HostThickness + 2*s.Protrusion,
		Protrusion: s.Protrusion,
	}
	switch rec.Section.Shape {
	case model.SectionRound:
		size := CeilToMultiple(rec.Section.Diameter+2*s.Clearance, s.Rounding)
		spec.Width = size
		spec.Height = size
		spec.Diameter = size
	default:
		spec.Width = CeilToMultiple(rec.Section.Width+2*s.Clearance, s.Rounding)
		spec.Height = CeilToMultiple(rec.Section.Height+2*s.Clearance, s.Rounding)
	}
	return spec
}
