// Package kernel defines the abstract geometry kernel interface consumed
// by the clash and placement engines. Implementations (sdfx, host CAD
// adapters) provide solid modeling, boolean intersection and mass
// properties behind this interface. The kernel abstraction allows swapping
// backends without changing the rest of the system.
package kernel

import (
	"fmt"

	"github.com/chazu/aperture/pkg/geom"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box in working space.
	BoundingBox() (min, max geom.Vec3)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Box is centered at the origin with the given extents;
	// Cylinder is centered at the origin with its axis along +Z.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Intersect evaluates the boolean intersection of two solids. A nil
	// error with a near-empty result (volume below the caller's epsilon)
	// means the solids do not meaningfully overlap. A non-nil error means
	// the kernel could not evaluate the pair at all.
	Intersect(a, b Solid) (Solid, error)

	// Transform applies a rigid transform to a solid.
	Transform(s Solid, t geom.Transform) Solid

	// Mass properties of a solid.
	Volume(s Solid) float64
	Centroid(s Solid) geom.Vec3
}

// OpError reports a geometry operation the kernel could not evaluate.
type OpError struct {
	Op  string // operation name, e.g. "intersect"
	Err error  // backend-specific cause, may be nil
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("geometry kernel: %s failed", e.Op)
	}
	return fmt.Sprintf("geometry kernel: %s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
