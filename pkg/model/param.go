package model

import (
	"errors"
	"fmt"
)

// Well-known authored parameter identifiers read by the finder.
const (
	ParamDiameter   = "RUN_DIAMETER"
	ParamWidth      = "RUN_WIDTH"
	ParamHeight     = "RUN_HEIGHT"
	ParamTrayWidth  = "TRAY_WIDTH"
	ParamTrayHeight = "TRAY_HEIGHT"
	ParamWallWidth  = "WALL_WIDTH"
)

// Errors returned by parameter lookup and write-back.
var (
	ErrParamMissing  = errors.New("parameter not found")
	ErrParamReadOnly = errors.New("parameter is read-only")
)

// Param is a single authored parameter. A parameter may carry a numeric
// value, a text value, or neither (present but unset).
type Param struct {
	ID       string // stable identifier, may be empty on legacy elements
	Name     string // display name, always present
	Value    float64
	Text     string
	HasValue bool
	ReadOnly bool
}

// ParamSet holds an element's parameters with identifier-first lookup and
// display-name fallback. The fallback exists because elements imported
// from older sub-models may lack stable identifiers on custom parameters.
type ParamSet struct {
	byID   map[string]*Param
	byName map[string]*Param
	all    []*Param
}

// NewParamSet builds a ParamSet from a list of parameters.
func NewParamSet(params ...Param) *ParamSet {
	ps := &ParamSet{
		byID:   make(map[string]*Param),
		byName: make(map[string]*Param),
	}
	for i := range params {
		p := params[i]
		ps.add(&p)
	}
	return ps
}

func (ps *ParamSet) add(p *Param) {
	ps.all = append(ps.all, p)
	if p.ID != "" {
		ps.byID[p.ID] = p
	}
	if p.Name != "" {
		ps.byName[p.Name] = p
	}
}

// Lookup finds a parameter by stable identifier, falling back to the
// display name when no parameter carries that identifier.
func (ps *ParamSet) Lookup(id, name string) (*Param, bool) {
	if ps == nil {
		return nil, false
	}
	if p, ok := ps.byID[id]; ok {
		return p, true
	}
	if p, ok := ps.byName[name]; ok {
		return p, true
	}
	return nil, false
}

// Number returns the numeric value of the parameter with the given
// identifier. The boolean is false when the parameter is absent or unset.
func (ps *ParamSet) Number(id string) (float64, bool) {
	p, ok := ps.Lookup(id, id)
	if !ok || !p.HasValue {
		return 0, false
	}
	return p.Value, true
}

// SetNumber writes a numeric value, trying the stable identifier first and
// the display name second.
func (ps *ParamSet) SetNumber(id, name string, v float64) error {
	p, ok := ps.Lookup(id, name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrParamMissing, id)
	}
	if p.ReadOnly {
		return fmt.Errorf("%w: %s", ErrParamReadOnly, id)
	}
	p.Value = v
	p.HasValue = true
	return nil
}

// SetText writes a text value with the same lookup rules as SetNumber.
func (ps *ParamSet) SetText(id, name, v string) error {
	p, ok := ps.Lookup(id, name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrParamMissing, id)
	}
	if p.ReadOnly {
		return fmt.Errorf("%w: %s", ErrParamReadOnly, id)
	}
	p.Text = v
	return nil
}

// Text returns the text value of the parameter with the given identifier.
func (ps *ParamSet) Text(id string) (string, bool) {
	p, ok := ps.Lookup(id, id)
	if !ok {
		return "", false
	}
	return p.Text, true
}
