package inmem

import (
	"errors"

	"github.com/google/uuid"

	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
	"github.com/chazu/aperture/pkg/opening"
)

// Document is an in-memory mutable target model. Implements
// opening.Document. It is not safe for concurrent use; the engine
// guarantees one exclusive mutation session per batch.
type Document struct {
	readOnly   bool
	isTemplate bool
	instances  []*Instance
}

var _ opening.Document = (*Document)(nil)

// NewDocument returns an empty writable document.
func NewDocument() *Document {
	return &Document{}
}

// NewTemplateDocument returns a document that refuses mutation because it
// is itself a template.
func NewTemplateDocument() *Document {
	return &Document{isTemplate: true}
}

// SetReadOnly toggles write access.
func (d *Document) SetReadOnly(ro bool) { d.readOnly = ro }

// Writable reports whether the document accepts mutation.
func (d *Document) Writable() bool {
	return !d.readOnly && !d.isTemplate
}

// CreateInstance places a new instance of the template at the given
// anchor point.
func (d *Document) CreateInstance(h opening.TemplateHandle, at geom.Vec3, host model.HostDescriptor) (opening.Instance, error) {
	handle, ok := h.(*Handle)
	if !ok {
		return nil, errors.New("foreign template handle")
	}
	inst := newInstance(handle.tmpl, at)
	d.instances = append(d.instances, inst)
	return inst, nil
}

// Markers returns every instance in the document.
func (d *Document) Markers() []opening.Instance {
	out := make([]opening.Instance, len(d.instances))
	for i, inst := range d.instances {
		out[i] = inst
	}
	return out
}

// Instance is one placed opening box. Its reported location is the
// template's authored anchor, which sits AnchorOffset away from the
// rotational center; rotating about an axis through the anchor therefore
// displaces the reported location, exactly like a host CAD instance.
type Instance struct {
	id string

	rotation geom.Transform // rotation-only, maps local axes to world
	center   geom.Vec3      // rotational center in world space
	offset   geom.Vec3      // anchor offset in local axes

	params *model.ParamSet
}

var _ opening.Instance = (*Instance)(nil)

func newInstance(tmpl *Template, at geom.Vec3) *Instance {
	params := make([]model.Param, len(tmpl.Params))
	copy(params, tmpl.Params)
	return &Instance{
		id:       uuid.NewString(),
		rotation: geom.Identity(),
		center:   at.Sub(tmpl.AnchorOffset),
		offset:   tmpl.AnchorOffset,
		params:   model.NewParamSet(params...),
	}
}

// ID returns the instance's unique identifier.
func (i *Instance) ID() string { return i.id }

// Location returns the anchor point in world space.
func (i *Instance) Location() geom.Vec3 {
	return i.center.Add(i.rotation.ApplyVec(i.offset))
}

// Facing returns the box's facing direction (local +Y in world space).
func (i *Instance) Facing() geom.Vec3 { return i.rotation.ApplyVec(geom.UnitY) }

// Hand returns the box's width axis (local +X in world space).
func (i *Instance) Hand() geom.Vec3 { return i.rotation.ApplyVec(geom.UnitX) }

// Move translates the instance.
func (i *Instance) Move(delta geom.Vec3) error {
	i.center = i.center.Add(delta)
	return nil
}

// Rotate rotates the instance. The backing store spins a body about its
// own rotational center regardless of the requested origin, the way a
// host CAD instance regenerates about its internal origin; the reported
// location therefore drifts whenever the anchor offset is non-zero, and
// callers re-read the location and translate back.
func (i *Instance) Rotate(axis, origin geom.Vec3, angle float64) error {
	t := geom.RotationAbout(axis, angle, i.center)
	i.center = t.Apply(i.center)
	i.rotation = geom.Transform{
		BasisX: t.ApplyVec(i.rotation.BasisX),
		BasisY: t.ApplyVec(i.rotation.BasisY),
		BasisZ: t.ApplyVec(i.rotation.BasisZ),
	}
	return nil
}

// Params returns the instance's parameter set.
func (i *Instance) Params() *model.ParamSet { return i.params }
