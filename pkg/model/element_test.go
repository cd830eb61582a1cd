package model

import (
	"math"
	"testing"

	"github.com/chazu/aperture/pkg/geom"
)

func numParam(id string, v float64) Param {
	return Param{ID: id, Name: id, Value: v, HasValue: true}
}

func TestSectionDerivation(t *testing.T) {
	tests := []struct {
		name   string
		params []Param
		want   CrossSection
	}{
		{
			"diameter wins",
			[]Param{numParam(ParamDiameter, 110), numParam(ParamWidth, 200)},
			CrossSection{Shape: SectionRound, Diameter: 110},
		},
		{
			"rectangular from width and height",
			[]Param{numParam(ParamWidth, 300), numParam(ParamHeight, 200)},
			CrossSection{Shape: SectionRectangular, Width: 300, Height: 200},
		},
		{
			"tray parameters take precedence",
			[]Param{
				numParam(ParamWidth, 300), numParam(ParamHeight, 200),
				numParam(ParamTrayWidth, 400), numParam(ParamTrayHeight, 100),
			},
			CrossSection{Shape: SectionRectangular, Width: 400, Height: 100},
		},
		{
			"no parameters defaults to rectangular",
			nil,
			CrossSection{Shape: SectionRectangular},
		},
		{
			"unset diameter does not force round",
			[]Param{{ID: ParamDiameter, Name: ParamDiameter}, numParam(ParamWidth, 250)},
			CrossSection{Shape: SectionRectangular, Width: 250},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Element{Params: NewParamSet(tt.params...)}
			if got := e.Section(); got != tt.want {
				t.Errorf("Section = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunDirection(t *testing.T) {
	run := RunDescriptor{
		Element: &Element{
			Params: NewParamSet(),
			Path:   &Segment{Start: geom.Vec3{}, End: geom.Vec3{X: 0, Y: 500, Z: 0}},
		},
		Transform: geom.Identity(),
	}
	if got := run.Direction(); !near(got, geom.UnitY) {
		t.Errorf("Direction = %v, want +Y", got)
	}

	// No path curve: default to the local X axis.
	run.Element.Path = nil
	if got := run.Direction(); !near(got, geom.UnitX) {
		t.Errorf("Direction without path = %v, want +X", got)
	}

	// The sub-model transform rotates directions into working space.
	run.Transform = geom.RotationZ(math.Pi/2, geom.Vec3{})
	if got := run.Direction(); !near(got, geom.UnitY) {
		t.Errorf("Direction under link rotation = %v, want +Y", got)
	}
}

func TestWallNormal(t *testing.T) {
	wall := HostDescriptor{
		Element: &Element{
			Params: NewParamSet(numParam(ParamWallWidth, 200)),
			Path:   &Segment{Start: geom.Vec3{}, End: geom.Vec3{X: 1000}},
		},
		Kind:      HostWall,
		Transform: geom.Identity(),
	}
	// Wall runs along +X; the perpendicular rotated 90 degrees CCW is +Y.
	if got := wall.Normal(); !near(got, geom.UnitY) {
		t.Errorf("Normal = %v, want +Y", got)
	}
	if got := wall.Thickness(); got != 200 {
		t.Errorf("Thickness = %f, want 200", got)
	}
}

func TestFloorNormalAndThickness(t *testing.T) {
	floor := HostDescriptor{
		Element:   &Element{Params: NewParamSet(), Layers: []float64{150, 30, 20}},
		Kind:      HostFloor,
		Transform: geom.RotationZ(1.2, geom.Vec3{X: 9}),
	}
	// Floor normal is always vertical regardless of the link transform.
	if got := floor.Normal(); !near(got, geom.UnitZ) {
		t.Errorf("Normal = %v, want +Z", got)
	}
	if got := floor.Thickness(); got != 200 {
		t.Errorf("Thickness = %f, want 200", got)
	}
}

func TestConnectorFrameTransformed(t *testing.T) {
	run := RunDescriptor{
		Element: &Element{
			Params: NewParamSet(),
			Connector: &geom.Frame{
				Origin: geom.Vec3{X: 1},
				X:      geom.UnitX, Y: geom.UnitY, Z: geom.UnitZ,
			},
		},
		Transform: geom.RotationZ(math.Pi/2, geom.Vec3{}),
	}
	frame, ok := run.ConnectorFrame()
	if !ok {
		t.Fatal("ConnectorFrame not available")
	}
	if !near(frame.X, geom.UnitY) || !near(frame.Origin, geom.Vec3{Y: 1}) {
		t.Errorf("frame = %+v, want X=+Y origin=(0,1,0)", frame)
	}

	run.Element.Connector = nil
	if _, ok := run.ConnectorFrame(); ok {
		t.Error("ConnectorFrame reported ok without a connector")
	}
}

func near(a, b geom.Vec3) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9 && math.Abs(a.Z-b.Z) < 1e-9
}
