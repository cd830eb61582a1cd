// Package model defines the building-element data model shared by the
// clash finder and the opening placement engine: run and host elements,
// cross-sections, authored parameters, and the descriptors that bind an
// element to the rigid transform of the federated sub-model it lives in.
package model

// ElementID identifies an element within its source sub-model.
type ElementID string

// RunCategory classifies a slender run element by its source category.
type RunCategory int

const (
	CategoryUnknown RunCategory = iota
	CategoryPipe
	CategoryDuct
	CategoryTray // cable tray or conduit
)

func (c RunCategory) String() string {
	switch c {
	case CategoryPipe:
		return "pipe"
	case CategoryDuct:
		return "duct"
	case CategoryTray:
		return "tray"
	default:
		return "unknown"
	}
}

// HostKind distinguishes the two host element families.
type HostKind int

const (
	HostWall HostKind = iota
	HostFloor
)

func (k HostKind) String() string {
	switch k {
	case HostWall:
		return "wall"
	case HostFloor:
		return "floor"
	default:
		return "unknown"
	}
}

// SectionShape distinguishes round from rectangular cross-sections.
type SectionShape int

const (
	SectionRectangular SectionShape = iota
	SectionRound
)

func (s SectionShape) String() string {
	switch s {
	case SectionRound:
		return "round"
	case SectionRectangular:
		return "rectangular"
	default:
		return "unknown"
	}
}

// CrossSection describes a run element's cross-section. For a round
// section only Diameter is meaningful; for a rectangular section only
// Width and Height are.
type CrossSection struct {
	Shape    SectionShape
	Diameter float64
	Width    float64
	Height   float64
}
