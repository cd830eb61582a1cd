// Package inmem provides in-memory implementations of the collaborator
// interfaces consumed by the clash finder and the placement engine: a
// solid source that builds element geometry through a kernel, a template
// catalog, and a mutable target document with placeable instances. It
// backs the CLI and the engine tests.
package inmem

import (
	"math"

	"github.com/chazu/aperture/pkg/clash"
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/kernel"
	"github.com/chazu/aperture/pkg/model"
)

// Geometry builds transformed element solids through a geometry kernel.
// Implements clash.SolidSource.
type Geometry struct {
	k kernel.Kernel
}

var _ clash.SolidSource = (*Geometry)(nil)

// NewGeometry returns a Geometry backed by the given kernel.
func NewGeometry(k kernel.Kernel) *Geometry {
	return &Geometry{k: k}
}

// TransformedSolids builds the element's solids in its local space and
// maps them into working space with the sub-model transform. Elements
// without enough authored geometry yield no solids.
func (g *Geometry) TransformedSolids(e *model.Element, t geom.Transform) ([]kernel.Solid, error) {
	local, ok := g.localSolid(e)
	if !ok {
		return nil, nil
	}
	return []kernel.Solid{g.k.Transform(local, t)}, nil
}

func (g *Geometry) localSolid(e *model.Element) (kernel.Solid, bool) {
	switch {
	case len(e.Layers) > 0:
		return g.floorSolid(e)
	case e.Path != nil && e.Params != nil && hasParam(e, model.ParamWallWidth):
		return g.wallSolid(e)
	case e.Path != nil:
		return g.runSolid(e)
	default:
		return nil, false
	}
}

func hasParam(e *model.Element, id string) bool {
	_, ok := e.Params.Number(id)
	return ok
}

// floorSolid is a slab: plan extent centered on Origin, top face at
// Origin.Z, thickness summed from the compound layers.
func (g *Geometry) floorSolid(e *model.Element) (kernel.Solid, bool) {
	var thickness float64
	for _, l := range e.Layers {
		thickness += l
	}
	if thickness <= 0 || e.Extent.X <= 0 || e.Extent.Y <= 0 {
		return nil, false
	}
	s := g.k.Box(e.Extent.X, e.Extent.Y, thickness)
	center := e.Origin.Sub(geom.UnitZ.Scale(thickness / 2))
	return g.k.Transform(s, geom.Translation(center)), true
}

// wallSolid extrudes the wall's location curve: length along the curve,
// authored width across it, Extent.Z up from the curve elevation.
func (g *Geometry) wallSolid(e *model.Element) (kernel.Solid, bool) {
	width, _ := e.Params.Number(model.ParamWallWidth)
	length := e.Path.End.Sub(e.Path.Start).Length()
	height := e.Extent.Z
	if width <= 0 || length <= 0 || height <= 0 {
		return nil, false
	}
	dir, _ := e.Path.Direction()
	s := g.k.Box(length, width, height)
	mid := e.Path.Start.Add(e.Path.End).Scale(0.5).Add(geom.UnitZ.Scale(height / 2))
	return g.k.Transform(s, placeAlong(dir, mid)), true
}

// runSolid sweeps the cross-section along the path: a cylinder for round
// sections, a box for rectangular ones.
func (g *Geometry) runSolid(e *model.Element) (kernel.Solid, bool) {
	length := e.Path.End.Sub(e.Path.Start).Length()
	if length <= 0 {
		return nil, false
	}
	dir, _ := e.Path.Direction()
	mid := e.Path.Start.Add(e.Path.End).Scale(0.5)

	sec := e.Section()
	if sec.Shape == model.SectionRound {
		if sec.Diameter <= 0 {
			return nil, false
		}
		// Cylinder axis is +Z; swing it onto the run direction.
		s := g.k.Cylinder(length, sec.Diameter/2)
		rot := swing(geom.UnitZ, dir)
		rot.Origin = mid
		return g.k.Transform(s, rot), true
	}
	if sec.Width <= 0 || sec.Height <= 0 {
		return nil, false
	}
	s := g.k.Box(length, sec.Width, sec.Height)
	return g.k.Transform(s, placeAlong(dir, mid)), true
}

// placeAlong builds the rigid transform that carries a local solid whose
// long axis is +X onto the given direction at the given center point.
func placeAlong(dir, center geom.Vec3) geom.Transform {
	t := swing(geom.UnitX, dir)
	t.Origin = center
	return t
}

// swing returns the minimal rotation carrying unit vector from onto unit
// vector to. The translation part is zero.
func swing(from, to geom.Vec3) geom.Transform {
	axis := from.Cross(to)
	dot := from.Dot(to)
	if n, ok := axis.Normalize(); ok {
		return geom.RotationAbout(n, math.Acos(clamp(dot, -1, 1)), geom.Vec3{})
	}
	if dot > 0 {
		return geom.Identity()
	}
	// Opposite directions: a half-turn about any perpendicular axis.
	perp := from.Cross(geom.UnitZ)
	if p, ok := perp.Normalize(); ok {
		return geom.RotationAbout(p, math.Pi, geom.Vec3{})
	}
	return geom.RotationAbout(geom.UnitX, math.Pi, geom.Vec3{})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Frames exposes run connector frames. Implements clash.FrameSource.
type Frames struct{}

var _ clash.FrameSource = Frames{}

// CrossSectionFrame returns the run's connector frame in working space.
func (Frames) CrossSectionFrame(run model.RunDescriptor) (geom.Frame, bool) {
	return run.ConnectorFrame()
}
