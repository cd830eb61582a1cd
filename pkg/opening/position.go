package opening

import (
	"github.com/chazu/aperture/pkg/clash"
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
)

// Anchor converts the raw intersection centroid into the point at which
// the template must be instantiated so the resulting solid ends up
// centered on the centroid. The offsets are intrinsic to the template
// designs and differ per host kind:
//
//   - floor templates anchor on the box's top face: shift the centroid up
//     by half the host thickness;
//   - wall templates anchor on the box's bottom face along its stacking
//     axis: shift the centroid down by half the box's own height (or
//     diameter for a round box), not the host thickness.
//
// Getting either the sign or the reference dimension wrong produces boxes
// offset from the true clash, so the asymmetry is preserved exactly.
func Anchor(rec clash.Record, spec BoxSpec) geom.Vec3 {
	switch rec.HostKind {
	case model.HostFloor:
		return rec.Centroid.Add(geom.UnitZ.Scale(rec.HostThickness / 2))
	default:
		return rec.Centroid.Sub(geom.UnitZ.Scale(spec.StackingHeight() / 2))
	}
}
