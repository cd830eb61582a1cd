package inmem

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
)

// Scene is a YAML description of a federated set of sub-models, each with
// its own rigid transform into working space. Lengths are in the model
// unit (millimeters by convention); angles are in degrees.
type Scene struct {
	Models []SceneModel `yaml:"models"`
}

// SceneModel is one linked sub-model.
type SceneModel struct {
	Name      string         `yaml:"name"`
	Transform SceneTransform `yaml:"transform"`
	Runs      []SceneRun     `yaml:"runs"`
	Walls     []SceneWall    `yaml:"walls"`
	Floors    []SceneFloor   `yaml:"floors"`
}

// SceneTransform is a plan rotation plus a translation, the rigid link
// transform of a federated sub-model.
type SceneTransform struct {
	RotationZDeg float64    `yaml:"rotation_z_deg"`
	Translation  [3]float64 `yaml:"translation"`
}

// SceneSegment is a straight path curve.
type SceneSegment struct {
	Start [3]float64 `yaml:"start"`
	End   [3]float64 `yaml:"end"`
}

// SceneFrame is an authored connector frame.
type SceneFrame struct {
	Origin [3]float64 `yaml:"origin"`
	X      [3]float64 `yaml:"x"`
	Y      [3]float64 `yaml:"y"`
	Z      [3]float64 `yaml:"z"`
}

// SceneRun is one run element.
type SceneRun struct {
	ID         string        `yaml:"id"`
	Category   string        `yaml:"category"` // pipe, duct, tray
	Path       *SceneSegment `yaml:"path"`
	Diameter   *float64      `yaml:"diameter"`
	Width      *float64      `yaml:"width"`
	Height     *float64      `yaml:"height"`
	TrayWidth  *float64      `yaml:"tray_width"`
	TrayHeight *float64      `yaml:"tray_height"`
	Connector  *SceneFrame   `yaml:"connector"`
}

// SceneWall is one wall element.
type SceneWall struct {
	ID     string       `yaml:"id"`
	Path   SceneSegment `yaml:"path"`
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
}

// SceneFloor is one floor element.
type SceneFloor struct {
	ID     string     `yaml:"id"`
	Origin [3]float64 `yaml:"origin"`
	Extent [2]float64 `yaml:"extent"`
	Layers []float64  `yaml:"layers"`
}

// LoadScene reads and resolves a scene file into descriptor collections.
func LoadScene(path string) ([]model.RunDescriptor, []model.HostDescriptor, []model.HostDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read scene: %w", err)
	}
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, nil, nil, fmt.Errorf("parse scene: %w", err)
	}
	return scene.Descriptors()
}

// Descriptors resolves the scene into run, wall and floor descriptors
// carrying their sub-model transforms.
func (s *Scene) Descriptors() ([]model.RunDescriptor, []model.HostDescriptor, []model.HostDescriptor, error) {
	var runs []model.RunDescriptor
	var walls, floors []model.HostDescriptor

	for mi := range s.Models {
		m := &s.Models[mi]
		t := m.Transform.resolve()

		for _, r := range m.Runs {
			el, err := r.element()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("model %q: %w", m.Name, err)
			}
			runs = append(runs, model.RunDescriptor{Element: el, Transform: t})
		}
		for _, w := range m.Walls {
			walls = append(walls, model.HostDescriptor{
				Element:   w.element(),
				Kind:      model.HostWall,
				Transform: t,
			})
		}
		for _, f := range m.Floors {
			floors = append(floors, model.HostDescriptor{
				Element:   f.element(),
				Kind:      model.HostFloor,
				Transform: t,
			})
		}
	}
	return runs, walls, floors, nil
}

func (t SceneTransform) resolve() geom.Transform {
	out := geom.RotationZ(t.RotationZDeg*math.Pi/180, geom.Vec3{})
	out.Origin = vec(t.Translation)
	return out
}

func (r *SceneRun) element() (*model.Element, error) {
	cat, err := parseCategory(r.Category)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", r.ID, err)
	}

	var params []model.Param
	addNumber := func(id string, v *float64) {
		if v != nil {
			params = append(params, model.Param{ID: id, Name: id, Value: *v, HasValue: true})
		}
	}
	addNumber(model.ParamDiameter, r.Diameter)
	addNumber(model.ParamWidth, r.Width)
	addNumber(model.ParamHeight, r.Height)
	addNumber(model.ParamTrayWidth, r.TrayWidth)
	addNumber(model.ParamTrayHeight, r.TrayHeight)

	el := &model.Element{
		ID:       model.ElementID(r.ID),
		Name:     r.ID,
		Category: cat,
		Params:   model.NewParamSet(params...),
	}
	if r.Path != nil {
		el.Path = &model.Segment{Start: vec(r.Path.Start), End: vec(r.Path.End)}
	}
	if r.Connector != nil {
		el.Connector = &geom.Frame{
			Origin: vec(r.Connector.Origin),
			X:      vec(r.Connector.X),
			Y:      vec(r.Connector.Y),
			Z:      vec(r.Connector.Z),
		}
	}
	return el, nil
}

func (w *SceneWall) element() *model.Element {
	return &model.Element{
		ID:   model.ElementID(w.ID),
		Name: w.ID,
		Params: model.NewParamSet(model.Param{
			ID: model.ParamWallWidth, Name: model.ParamWallWidth,
			Value: w.Width, HasValue: true,
		}),
		Path:   &model.Segment{Start: vec(w.Path.Start), End: vec(w.Path.End)},
		Extent: geom.Vec3{Z: w.Height},
	}
}

func (f *SceneFloor) element() *model.Element {
	return &model.Element{
		ID:     model.ElementID(f.ID),
		Name:   f.ID,
		Params: model.NewParamSet(),
		Origin: vec(f.Origin),
		Extent: geom.Vec3{X: f.Extent[0], Y: f.Extent[1]},
		Layers: f.Layers,
	}
}

func parseCategory(s string) (model.RunCategory, error) {
	switch s {
	case "pipe":
		return model.CategoryPipe, nil
	case "duct":
		return model.CategoryDuct, nil
	case "tray", "conduit":
		return model.CategoryTray, nil
	case "":
		return model.CategoryUnknown, nil
	default:
		return model.CategoryUnknown, fmt.Errorf("unknown category %q", s)
	}
}

func vec(v [3]float64) geom.Vec3 {
	return geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
