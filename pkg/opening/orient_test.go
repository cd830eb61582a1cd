package opening

import (
	"math"
	"testing"

	"github.com/chazu/aperture/pkg/clash"
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
)

// fakeInstance mimics a host CAD instance: it spins about its own
// rotational center regardless of the requested rotation origin, so the
// reported anchor location drifts whenever the anchor offset is non-zero.
type fakeInstance struct {
	rot    geom.Transform
	center geom.Vec3
	offset geom.Vec3 // anchor offset in local axes
}

func newFakeInstance(at, offset geom.Vec3) *fakeInstance {
	return &fakeInstance{
		rot:    geom.Identity(),
		center: at.Sub(offset),
		offset: offset,
	}
}

func (f *fakeInstance) ID() string { return "fake" }

func (f *fakeInstance) Location() geom.Vec3 {
	return f.center.Add(f.rot.ApplyVec(f.offset))
}

func (f *fakeInstance) Facing() geom.Vec3 { return f.rot.ApplyVec(geom.UnitY) }
func (f *fakeInstance) Hand() geom.Vec3   { return f.rot.ApplyVec(geom.UnitX) }

func (f *fakeInstance) Move(delta geom.Vec3) error {
	f.center = f.center.Add(delta)
	return nil
}

func (f *fakeInstance) Rotate(axis, origin geom.Vec3, angle float64) error {
	t := geom.RotationAbout(axis, angle, f.center)
	f.rot = geom.Transform{
		BasisX: t.ApplyVec(f.rot.BasisX),
		BasisY: t.ApplyVec(f.rot.BasisY),
		BasisZ: t.ApplyVec(f.rot.BasisZ),
	}
	return nil
}

func (f *fakeInstance) Params() *model.ParamSet { return model.NewParamSet() }

// fakeFrames serves one configured connector frame for every run.
type fakeFrames struct {
	frame geom.Frame
	ok    bool
}

func (f fakeFrames) CrossSectionFrame(model.RunDescriptor) (geom.Frame, bool) {
	return f.frame, f.ok
}

func runDesc(id string) model.RunDescriptor {
	return model.RunDescriptor{
		Element:   &model.Element{ID: model.ElementID(id), Params: model.NewParamSet()},
		Transform: geom.Identity(),
	}
}

func wallRecord(normal geom.Vec3, shape model.SectionShape) clash.Record {
	return clash.Record{
		Run:        runDesc("r"),
		HostKind:   model.HostWall,
		HostNormal: normal,
		Section:    model.CrossSection{Shape: shape, Width: 100, Height: 100},
	}
}

func floorRecord(dir geom.Vec3, shape model.SectionShape) clash.Record {
	return clash.Record{
		Run:          runDesc("r"),
		HostKind:     model.HostFloor,
		HostNormal:   geom.UnitZ,
		RunDirection: dir,
		Section:      model.CrossSection{Shape: shape, Width: 100, Height: 100},
	}
}

func TestOrientWallAlignsFacingAndReanchors(t *testing.T) {
	anchor := geom.Vec3{X: 10, Y: 20, Z: 5}
	// Horizontal offset makes every vertical-axis rotation displace the
	// instance; the solver must translate it back after each step.
	inst := newFakeInstance(anchor, geom.Vec3{X: 50, Z: -100})
	solver := NewSolver(nil, nil)

	rec := wallRecord(geom.UnitX, model.SectionRound)
	if err := solver.Orient(inst, rec, BoxSpec{}, anchor); err != nil {
		t.Fatalf("Orient: %v", err)
	}
	if !vecEq2(inst.Facing(), geom.UnitX) {
		t.Errorf("Facing = %v, want +X", inst.Facing())
	}
	if !vecEq2(inst.Location(), anchor) {
		t.Errorf("Location = %v drifted from anchor %v", inst.Location(), anchor)
	}
}

func TestOrientWallTwistedRunRotatesQuarterTurn(t *testing.T) {
	anchor := geom.Vec3{}
	inst := newFakeInstance(anchor, geom.Vec3{X: 30, Z: -100})
	// Section height axis is horizontal: the run is twisted about its own
	// long axis.
	frames := fakeFrames{frame: geom.Frame{X: geom.UnitZ, Y: geom.UnitX, Z: geom.UnitY}, ok: true}
	solver := NewSolver(frames, nil)

	rec := wallRecord(geom.UnitY, model.SectionRectangular)
	if err := solver.Orient(inst, rec, BoxSpec{}, anchor); err != nil {
		t.Fatalf("Orient: %v", err)
	}
	// The quarter turn about the facing axis tips the width axis vertical.
	if math.Abs(inst.Hand().Z) < 1-1e-9 {
		t.Errorf("Hand = %v, want vertical after twist correction", inst.Hand())
	}
	if !vecEq2(inst.Location(), anchor) {
		t.Errorf("Location = %v drifted from anchor", inst.Location())
	}
}

func TestOrientWallUprightRunKeepsOrientation(t *testing.T) {
	inst := newFakeInstance(geom.Vec3{}, geom.Vec3{})
	// Height axis vertical: faces are horizontal/vertical, no twist.
	frames := fakeFrames{frame: geom.Frame{X: geom.UnitZ, Y: geom.UnitZ, Z: geom.UnitX}, ok: true}
	solver := NewSolver(frames, nil)

	rec := wallRecord(geom.UnitY, model.SectionRectangular)
	if err := solver.Orient(inst, rec, BoxSpec{}, geom.Vec3{}); err != nil {
		t.Fatalf("Orient: %v", err)
	}
	if math.Abs(inst.Hand().Z) > 1e-9 {
		t.Errorf("Hand = %v, want horizontal", inst.Hand())
	}
}

func TestOrientWallMissingFrameSkipsTwistCheck(t *testing.T) {
	inst := newFakeInstance(geom.Vec3{}, geom.Vec3{})
	solver := NewSolver(fakeFrames{ok: false}, nil)

	rec := wallRecord(geom.UnitY, model.SectionRectangular)
	if err := solver.Orient(inst, rec, BoxSpec{}, geom.Vec3{}); err != nil {
		t.Fatalf("Orient: %v", err)
	}
	if !vecEq2(inst.Facing(), geom.UnitY) {
		t.Errorf("Facing = %v, want coarse orientation kept", inst.Facing())
	}
}

func TestOrientFloorHorizontalRun(t *testing.T) {
	anchor := geom.Vec3{Z: 100}
	inst := newFakeInstance(anchor, geom.Vec3{X: 25, Z: 75})
	solver := NewSolver(nil, nil)

	rec := floorRecord(geom.UnitY, model.SectionRound)
	if err := solver.Orient(inst, rec, BoxSpec{}, anchor); err != nil {
		t.Fatalf("Orient: %v", err)
	}
	if !vecEq2(inst.Hand(), geom.UnitY) {
		t.Errorf("Hand = %v, want +Y", inst.Hand())
	}
	if !vecEq2(inst.Location(), anchor) {
		t.Errorf("Location = %v drifted from anchor", inst.Location())
	}
}

func TestOrientFloorVerticalRunUsesFrame(t *testing.T) {
	inst := newFakeInstance(geom.Vec3{}, geom.Vec3{})
	frames := fakeFrames{
		frame: geom.Frame{X: geom.Vec3{X: 1, Y: 1, Z: 0.2}, Y: geom.UnitZ, Z: geom.UnitZ},
		ok:    true,
	}
	solver := NewSolver(frames, nil)

	rec := floorRecord(geom.UnitZ, model.SectionRound)
	if err := solver.Orient(inst, rec, BoxSpec{}, geom.Vec3{}); err != nil {
		t.Fatalf("Orient: %v", err)
	}
	want, _ := geom.Vec3{X: 1, Y: 1}.Normalize()
	if !vecEq2(inst.Hand(), want) {
		t.Errorf("Hand = %v, want frame X projected to %v", inst.Hand(), want)
	}
}

func TestOrientFloorVerticalRunFallback(t *testing.T) {
	// Without a connector frame the only hint is the aspect ratio. This
	// is a known approximation: near-square sections cannot be
	// disambiguated and stay unrotated.
	tests := []struct {
		name          string
		width, height float64
		wantRotated   bool
	}{
		{"tall section rotates", 200, 400, true},
		{"wide section stays", 400, 200, false},
		{"square section stays", 300, 300, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := newFakeInstance(geom.Vec3{}, geom.Vec3{})
			solver := NewSolver(fakeFrames{ok: false}, nil)

			rec := floorRecord(geom.UnitZ, model.SectionRectangular)
			spec := BoxSpec{Shape: model.SectionRectangular, Width: tt.width, Height: tt.height}
			if err := solver.Orient(inst, rec, spec, geom.Vec3{}); err != nil {
				t.Fatalf("Orient: %v", err)
			}
			rotated := math.Abs(inst.Hand().Dot(geom.UnitY)) > 0.5
			if rotated != tt.wantRotated {
				t.Errorf("Hand = %v, rotated = %v, want %v", inst.Hand(), rotated, tt.wantRotated)
			}
		})
	}
}

func TestAxisSwapCorrection(t *testing.T) {
	anchor := geom.Vec3{}
	inst := newFakeInstance(anchor, geom.Vec3{})
	// Put the width axis 60 degrees off the run direction so the
	// secondary axis is the better aligned one.
	if err := inst.Rotate(geom.UnitZ, anchor, math.Pi/3); err != nil {
		t.Fatal(err)
	}
	solver := NewSolver(nil, nil)

	rec := floorRecord(geom.UnitX, model.SectionRectangular)
	if err := solver.axisSwapCorrection(inst, rec, anchor); err != nil {
		t.Fatalf("axisSwapCorrection: %v", err)
	}
	hand := inst.Hand()
	other := geom.UnitZ.Cross(hand)
	if math.Abs(other.Dot(geom.UnitX)) > math.Abs(hand.Dot(geom.UnitX)) {
		t.Errorf("Hand = %v still worse aligned than secondary axis", hand)
	}
}

func TestAxisSwapCorrectionSkipsVerticalRun(t *testing.T) {
	inst := newFakeInstance(geom.Vec3{}, geom.Vec3{})
	solver := NewSolver(nil, nil)

	rec := floorRecord(geom.UnitZ, model.SectionRectangular)
	if err := solver.axisSwapCorrection(inst, rec, geom.Vec3{}); err != nil {
		t.Fatalf("axisSwapCorrection: %v", err)
	}
	if !vecEq2(inst.Hand(), geom.UnitX) {
		t.Errorf("Hand = %v, want untouched", inst.Hand())
	}
}

func vecEq2(a, b geom.Vec3) bool {
	return a.Sub(b).Length() < 1e-9
}
