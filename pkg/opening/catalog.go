package opening

import (
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
)

// TemplateKey selects an opening box template.
type TemplateKey struct {
	Host     model.HostKind
	Shape    model.SectionShape
	Category model.RunCategory
}

// TemplatePath locates a template definition in the catalog.
type TemplatePath string

// TemplateHandle is an opaque handle to a loaded template.
type TemplateHandle interface {
	Path() TemplatePath
}

// Catalog is the source of placeable box templates. LoadOrGet is
// idempotent: loading an already-loaded template returns the existing
// handle without a second load.
type Catalog interface {
	Resolve(key TemplateKey) (TemplatePath, error)
	LoadOrGet(path TemplatePath) (TemplateHandle, error)
	Activate(h TemplateHandle) error
}

// Instance is one placed opening box in the target document. Rotations
// about an axis through the anchor may displace the instance because the
// template anchor does not coincide with its rotational center; callers
// re-read Location after every rotation and translate the instance back.
type Instance interface {
	ID() string
	Location() geom.Vec3
	Facing() geom.Vec3 // unit vector the box faces, horizontal for wall boxes
	Hand() geom.Vec3   // unit vector along the box's local width axis

	Move(delta geom.Vec3) error
	Rotate(axis, origin geom.Vec3, angle float64) error

	Params() *model.ParamSet
}

// Document is the mutable target model that owns created instances. One
// exclusive mutation session spans a whole batch; nothing else may touch
// the document while the engine runs.
type Document interface {
	// Writable reports whether the document can be mutated at all. A
	// read-only document or a template document is not a valid target.
	Writable() bool

	CreateInstance(h TemplateHandle, at geom.Vec3, host model.HostDescriptor) (Instance, error)

	// Markers enumerates the opening boxes already present in the
	// document, including ones created by earlier batches.
	Markers() []Instance
}

// Instance parameters written back after creation. Display names are the
// fallback when an instance lacks the stable identifier.
const (
	ParamOpeningWidth     = "OPENING_WIDTH"
	ParamOpeningHeight    = "OPENING_HEIGHT" // secondary dimension, wall hosts
	ParamOpeningDepth     = "OPENING_DEPTH"  // secondary dimension, floor hosts
	ParamHostThickness    = "OPENING_HOST_THICKNESS"
	ParamProtrusionTop    = "OPENING_PROTRUSION_TOP"
	ParamProtrusionBottom = "OPENING_PROTRUSION_BOTTOM"
	ParamIdentityTag      = "OPENING_IDENTITY"
)

// paramDisplay maps stable identifiers to display names for fallback
// lookup on instances imported without identifiers.
var paramDisplay = map[string]string{
	ParamOpeningWidth:     "Opening Width",
	ParamOpeningHeight:    "Opening Height",
	ParamOpeningDepth:     "Opening Depth",
	ParamHostThickness:    "Host Thickness",
	ParamProtrusionTop:    "Protrusion Top",
	ParamProtrusionBottom: "Protrusion Bottom",
	ParamIdentityTag:      "Opening Identity",
}

// Identity composes the persisted per-instance identity tag from the run
// and host element identifiers. Two placements with the same tag mark the
// same physical penetration.
func Identity(run, host model.ElementID) string {
	return string(run) + "|" + string(host)
}
