// Package clash pairs run elements against wall and floor elements across
// federated sub-models and emits one intersection record per true
// geometric clash. Boolean evaluation is delegated to a geometry kernel;
// this package decides which pairs to test and what to extract from the
// ones that overlap.
package clash

import (
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/kernel"
	"github.com/chazu/aperture/pkg/model"
)

// Record is the immutable result of one detected clash between a run and
// a host element. Centroid lies inside both source solids' transformed
// bounding volumes; HostNormal and RunDirection are unit vectors.
type Record struct {
	Run  model.RunDescriptor
	Host model.HostDescriptor

	Centroid     geom.Vec3
	HostNormal   geom.Vec3
	RunDirection geom.Vec3

	HostKind      model.HostKind
	HostThickness float64

	Category model.RunCategory
	Section  model.CrossSection
}

// SolidSource supplies the transformed solids of an element in working
// space. It is the geometry-extraction half of the kernel adapter; an
// element with no usable geometry yields an empty slice or an error, and
// the finder skips it either way.
type SolidSource interface {
	TransformedSolids(e *model.Element, t geom.Transform) ([]kernel.Solid, error)
}

// FrameSource supplies the cross-section local frame of a run element in
// working space. The orientation solver uses it for runs whose path curve
// carries no usable orientation information.
type FrameSource interface {
	CrossSectionFrame(run model.RunDescriptor) (geom.Frame, bool)
}
