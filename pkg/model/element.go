package model

import "github.com/chazu/aperture/pkg/geom"

// Segment is a straight path curve between two points in the element's
// local (sub-model) coordinate space. Runs use it as their centerline,
// walls as their plan location curve.
type Segment struct {
	Start, End geom.Vec3
}

// Direction returns the normalized end-minus-start direction. The boolean
// is false for a degenerate (zero-length) segment.
func (s Segment) Direction() (geom.Vec3, bool) {
	return s.End.Sub(s.Start).Normalize()
}

// Element is one building element in a source sub-model. Which fields are
// meaningful depends on the element family:
//
//   - runs: Category, Path (centerline), section parameters, Connector
//   - walls: Path (location curve), WALL_WIDTH parameter, Extent
//   - floors: Layers (compound structure), Extent
type Element struct {
	ID       ElementID
	Name     string
	Category RunCategory
	Params   *ParamSet

	// Origin is the element's local placement point. For floors it is the
	// center of the top face; elements with a Path ignore it.
	Origin geom.Vec3

	// Path is the element's location curve, nil when the element has none
	// (vertical risers authored point-to-point still carry one; sketched
	// elements may not).
	Path *Segment

	// Layers holds the compound-structure layer widths of a floor.
	Layers []float64

	// Extent is the element's authored bounding extent in local space,
	// used by geometry sources to build solids (wall height, floor plan
	// rectangle, run length).
	Extent geom.Vec3

	// Connector is the cross-section local frame at the run's end
	// connector, nil when the element exposes no connectors.
	Connector *geom.Frame
}

// Section derives the run's cross-section from its authored parameters.
// A run is round if a diameter parameter is present with a value;
// otherwise it is rectangular, with tray width/height parameters taking
// precedence over the generic ones when present.
func (e *Element) Section() CrossSection {
	if d, ok := e.Params.Number(ParamDiameter); ok {
		return CrossSection{Shape: SectionRound, Diameter: d}
	}
	w, _ := e.Params.Number(ParamWidth)
	h, _ := e.Params.Number(ParamHeight)
	if tw, ok := e.Params.Number(ParamTrayWidth); ok {
		w = tw
	}
	if th, ok := e.Params.Number(ParamTrayHeight); ok {
		h = th
	}
	return CrossSection{Shape: SectionRectangular, Width: w, Height: h}
}

// RunDescriptor binds a run element to the rigid transform mapping its
// sub-model coordinates into working space.
type RunDescriptor struct {
	Element   *Element
	Transform geom.Transform
}

// Direction returns the run's long-axis unit direction in working space.
// Runs without a path curve default to their local X axis.
func (d RunDescriptor) Direction() geom.Vec3 {
	local := geom.UnitX
	if d.Element.Path != nil {
		if dir, ok := d.Element.Path.Direction(); ok {
			local = dir
		}
	}
	dir, ok := d.Transform.ApplyVec(local).Normalize()
	if !ok {
		return geom.UnitX
	}
	return dir
}

// ConnectorFrame returns the run's cross-section frame transformed into
// working space. The boolean is false when the element has no connectors.
func (d RunDescriptor) ConnectorFrame() (geom.Frame, bool) {
	c := d.Element.Connector
	if c == nil {
		return geom.Frame{}, false
	}
	return geom.Frame{
		Origin: d.Transform.Apply(c.Origin),
		X:      d.Transform.ApplyVec(c.X),
		Y:      d.Transform.ApplyVec(c.Y),
		Z:      d.Transform.ApplyVec(c.Z),
	}, true
}

// HostDescriptor binds a wall or floor element to its sub-model transform.
type HostDescriptor struct {
	Element   *Element
	Kind      HostKind
	Transform geom.Transform
}

// Normal returns the host's surface normal in working space. For a wall
// this is the in-plane perpendicular of its location curve rotated 90°
// and transformed; for a floor it is always vertical.
func (d HostDescriptor) Normal() geom.Vec3 {
	if d.Kind == HostFloor {
		return geom.UnitZ
	}
	local := geom.UnitY
	if d.Element.Path != nil {
		if dir, ok := d.Element.Path.Direction(); ok {
			// Rotate the plan direction 90° counter-clockwise about Z.
			local = geom.Vec3{X: -dir.Y, Y: dir.X}
		}
	}
	n, ok := d.Transform.ApplyVec(local).Normalize()
	if !ok {
		return geom.UnitY
	}
	return n
}

// Thickness returns the host's through-thickness: a wall's authored width,
// or the sum of a floor's compound-structure layer widths.
func (d HostDescriptor) Thickness() float64 {
	if d.Kind == HostWall {
		w, _ := d.Element.Params.Number(ParamWallWidth)
		return w
	}
	var sum float64
	for _, l := range d.Element.Layers {
		sum += l
	}
	return sum
}
