package opening

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/aperture/pkg/clash"
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
)

const (
	// horizontalEps is the minimum length of a direction's horizontal
	// projection for the run to count as non-vertical.
	horizontalEps = 0.01

	// twistEps bounds the vertical component of a cross-section's height
	// axis. Below it the run is twisted about its long axis and its
	// rectangular faces are no longer horizontal/vertical.
	twistEps = 0.1

	// angleEps suppresses rotations too small to matter.
	angleEps = 1e-9
)

// Solver aligns a placed instance with the host surface and the run's
// cross-section axes. Any step that cannot obtain a needed vector skips
// that refinement and leaves the coarser orientation already applied; it
// never aborts the placement.
type Solver struct {
	frames clash.FrameSource
	log    *zap.Logger
}

// NewSolver builds a Solver. frames may be nil when no connector frames
// are available at all; every frame-dependent refinement then degrades to
// its fallback. A nil logger disables logging.
func NewSolver(frames clash.FrameSource, log *zap.Logger) *Solver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{frames: frames, log: log}
}

// Orient runs the full orientation sequence for one placed instance.
// Parameters must already be written: parameter changes can alter the
// instance's geometry and have to settle before any rotation.
func (s *Solver) Orient(inst Instance, rec clash.Record, spec BoxSpec, anchor geom.Vec3) error {
	if rec.HostKind == model.HostWall {
		return s.orientWall(inst, rec, anchor)
	}
	return s.orientFloor(inst, rec, spec, anchor)
}

// rotate applies one rotation about an axis through origin, then re-reads
// the instance position and translates it back onto the anchor. The
// template anchor does not coincide with the rotational center, so every
// rotation can displace the instance.
func (s *Solver) rotate(inst Instance, axis, origin geom.Vec3, angle float64, anchor geom.Vec3) error {
	if math.Abs(angle) < angleEps {
		return nil
	}
	if err := inst.Rotate(axis, origin, angle); err != nil {
		return err
	}
	if drift := anchor.Sub(inst.Location()); !drift.IsZero() {
		return inst.Move(drift)
	}
	return nil
}

// orientWall rotates the box about the vertical axis through the anchor
// until its facing direction equals the wall normal, then checks
// rectangular runs for twist about their own long axis.
func (s *Solver) orientWall(inst Instance, rec clash.Record, anchor geom.Vec3) error {
	angle := geom.SignedAngle(inst.Facing(), rec.HostNormal, geom.UnitZ)
	if err := s.rotate(inst, geom.UnitZ, anchor, angle, anchor); err != nil {
		return err
	}

	if rec.Section.Shape != model.SectionRectangular {
		return nil
	}

	// The twist check needs the section's connector frame; the path curve
	// carries no roll information.
	frame, ok := s.crossSectionFrame(rec.Run)
	if !ok {
		s.log.Debug("no connector frame, skipping twist check",
			zap.String("run", string(rec.Run.Element.ID)))
		return nil
	}
	if math.Abs(frame.Y.Z) < twistEps {
		// Height axis is nearly horizontal: the run is rotated a quarter
		// turn about its own axis, so the box follows.
		return s.rotate(inst, rec.HostNormal, anchor, math.Pi/2, anchor)
	}
	return nil
}

// orientFloor aligns the box's local X axis with the run's horizontal
// direction, deriving that direction from the connector frame when the
// run passes vertically through the slab.
func (s *Solver) orientFloor(inst Instance, rec clash.Record, spec BoxSpec, anchor geom.Vec3) error {
	horiz := rec.RunDirection.Horizontal()
	if horiz.Length() > horizontalEps {
		target, _ := horiz.Normalize()
		angle := geom.SignedAngle(inst.Hand(), target, geom.UnitZ)
		if err := s.rotate(inst, geom.UnitZ, anchor, angle, anchor); err != nil {
			return err
		}
	} else if err := s.orientVerticalRun(inst, rec, spec, anchor); err != nil {
		return err
	}

	if rec.Section.Shape == model.SectionRectangular {
		return s.axisSwapCorrection(inst, rec, anchor)
	}
	return nil
}

// orientVerticalRun handles runs that pass straight through the slab: the
// horizontal projection of their direction carries no orientation
// information, so the target comes from the cross-section frame instead.
func (s *Solver) orientVerticalRun(inst Instance, rec clash.Record, spec BoxSpec, anchor geom.Vec3) error {
	if frame, ok := s.crossSectionFrame(rec.Run); ok {
		target, ok := frame.X.Horizontal().Normalize()
		if !ok {
			// Frame X is itself vertical; nothing to align to.
			s.log.Debug("degenerate frame projection, keeping coarse orientation",
				zap.String("run", string(rec.Run.Element.ID)))
			return nil
		}
		angle := geom.SignedAngle(inst.Hand(), target, geom.UnitZ)
		return s.rotate(inst, geom.UnitZ, anchor, angle, anchor)
	}

	// Coarse fallback, lower confidence: without a frame the only hint is
	// the computed aspect ratio. Near-square sections stay unrotated.
	if spec.Shape == model.SectionRectangular && spec.Height > spec.Width {
		s.log.Debug("no connector frame, applying aspect-ratio fallback",
			zap.String("run", string(rec.Run.Element.ID)))
		return s.rotate(inst, geom.UnitZ, anchor, math.Pi/2, anchor)
	}
	return nil
}

// axisSwapCorrection is a best-effort disambiguation pass, not a proven
// identity: after the primary rotation it re-checks whether the box's
// width axis or its secondary in-plane axis is better aligned with the
// run direction, and applies a quarter-turn correction when the wrong
// axis carries the larger dimension. The sign comes from the cross
// product of the run direction and the current secondary axis.
func (s *Solver) axisSwapCorrection(inst Instance, rec clash.Record, anchor geom.Vec3) error {
	dir, ok := rec.RunDirection.Horizontal().Normalize()
	if !ok {
		// Vertical run: no direction to compare against.
		return nil
	}
	hand := inst.Hand()
	other := geom.UnitZ.Cross(hand)

	if math.Abs(other.Dot(dir)) <= math.Abs(hand.Dot(dir)) {
		return nil
	}
	angle := math.Pi / 2
	if dir.Cross(other).Dot(geom.UnitZ) < 0 {
		angle = -angle
	}
	return s.rotate(inst, geom.UnitZ, anchor, angle, anchor)
}

func (s *Solver) crossSectionFrame(run model.RunDescriptor) (geom.Frame, bool) {
	if s.frames == nil {
		return geom.Frame{}, false
	}
	return s.frames.CrossSectionFrame(run)
}
