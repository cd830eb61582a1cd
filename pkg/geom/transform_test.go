package geom

import (
	"math"
	"testing"
)

func TestRotationZ(t *testing.T) {
	// Quarter turn about the vertical axis through (1, 0, 0).
	r := RotationZ(math.Pi/2, Vec3{X: 1})

	if got := r.Apply(Vec3{X: 1}); !vecNear(got, Vec3{X: 1}) {
		t.Errorf("rotation origin moved to %v", got)
	}
	if got := r.Apply(Vec3{X: 2}); !vecNear(got, Vec3{X: 1, Y: 1}) {
		t.Errorf("Apply = %v, want (1,1,0)", got)
	}
	if got := r.ApplyVec(UnitX); !vecNear(got, UnitY) {
		t.Errorf("ApplyVec(X) = %v, want Y", got)
	}
}

func TestRotationAboutArbitraryAxis(t *testing.T) {
	// Half turn about the X axis maps +Y to -Y and +Z to -Z.
	r := RotationAbout(UnitX, math.Pi, Vec3{})
	if got := r.ApplyVec(UnitY); !vecNear(got, Vec3{Y: -1}) {
		t.Errorf("ApplyVec(Y) = %v, want -Y", got)
	}
	if got := r.ApplyVec(UnitZ); !vecNear(got, Vec3{Z: -1}) {
		t.Errorf("ApplyVec(Z) = %v, want -Z", got)
	}
}

func TestMulAndInverse(t *testing.T) {
	a := RotationZ(math.Pi/3, Vec3{X: 5, Y: -2})
	b := RotationAbout(UnitX, math.Pi/5, Vec3{Z: 1})
	p := Vec3{1, 2, 3}

	// Composition applies right-to-left.
	if got, want := a.Mul(b).Apply(p), a.Apply(b.Apply(p)); !vecNear(got, want) {
		t.Errorf("Mul.Apply = %v, want %v", got, want)
	}

	// Inverse round-trips.
	if got := a.Inverse().Apply(a.Apply(p)); !vecNear(got, p) {
		t.Errorf("Inverse round-trip = %v, want %v", got, p)
	}
}

func TestAxisAngle(t *testing.T) {
	tests := []struct {
		name      string
		axis      Vec3
		angle     float64
		wantAxis  Vec3
		wantAngle float64
	}{
		{"identity", UnitZ, 0, UnitZ, 0},
		{"quarter z", UnitZ, math.Pi / 2, UnitZ, math.Pi / 2},
		{"third y", UnitY, 2 * math.Pi / 3, UnitY, 2 * math.Pi / 3},
		{"negative angle folds", UnitZ, -math.Pi / 2, Vec3{Z: -1}, math.Pi / 2},
		{"half turn x", UnitX, math.Pi, UnitX, math.Pi},
		{"half turn diagonal", mustUnit(Vec3{1, 1, 0}), math.Pi, mustUnit(Vec3{1, 1, 0}), math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RotationAbout(tt.axis, tt.angle, Vec3{})
			axis, angle := r.AxisAngle()
			if math.Abs(angle-tt.wantAngle) > 1e-6 {
				t.Fatalf("angle = %f, want %f", angle, tt.wantAngle)
			}
			if tt.wantAngle == 0 {
				return // axis is conventional for the identity
			}
			// A half-turn axis is defined up to sign.
			if !vecNear(axis, tt.wantAxis) &&
				!(tt.wantAngle > math.Pi-1e-6 && vecNear(axis.Neg(), tt.wantAxis)) {
				t.Errorf("axis = %v, want %v", axis, tt.wantAxis)
			}
		})
	}
}

func TestAxisAngleRoundTrip(t *testing.T) {
	// Rebuilding the rotation from the extracted axis-angle must give the
	// same mapping. This is the property the sdfx backend relies on.
	axes := []Vec3{UnitX, UnitY, UnitZ, mustUnit(Vec3{1, 2, 3}), mustUnit(Vec3{-1, 1, 0.5})}
	angles := []float64{0.1, 1.0, math.Pi / 2, 2.5, math.Pi - 0.001}
	probes := []Vec3{UnitX, UnitY, UnitZ, {1, -2, 0.5}}

	for _, axis := range axes {
		for _, angle := range angles {
			orig := RotationAbout(axis, angle, Vec3{})
			gotAxis, gotAngle := orig.AxisAngle()
			rebuilt := RotationAbout(gotAxis, gotAngle, Vec3{})
			for _, p := range probes {
				if a, b := orig.ApplyVec(p), rebuilt.ApplyVec(p); !vecNear(a, b) {
					t.Fatalf("axis %v angle %f: rebuilt maps %v to %v, want %v",
						axis, angle, p, b, a)
				}
			}
		}
	}
}

func mustUnit(v Vec3) Vec3 {
	u, ok := v.Normalize()
	if !ok {
		panic("degenerate test vector")
	}
	return u
}
