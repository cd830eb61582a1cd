// Package opening computes and places parametric opening markers at the
// clashes detected by the clash finder: box sizing from cross-section and
// tolerances, anchor-point correction for template origin semantics,
// orientation solving against the host surface and the run's section
// axes, and batch orchestration with duplicate bookkeeping.
package opening

// Config is the user-authored settings file. All lengths are in
// millimeters regardless of the working model's unit; they are converted
// exactly once, at FromConfig. Nil booleans take their documented
// defaults, so an empty file yields the default settings.
type Config struct {
	RoundingGranularityMM *float64 `yaml:"rounding_granularity_mm"`
	MinimumClearanceMM    *float64 `yaml:"minimum_clearance_mm"`
	ProtrusionMM          *float64 `yaml:"protrusion_mm"`
	RoundBoxForRoundPipe  *bool    `yaml:"round_box_for_round_pipe"`
	RoundBoxForRoundDuct  *bool    `yaml:"round_box_for_round_duct"`
}

// Defaults, in millimeters.
const (
	DefaultRoundingMM   = 50.0
	DefaultClearanceMM  = 30.0
	DefaultProtrusionMM = 100.0
)

// Settings holds the resolved placement settings in model units,
// immutable for the duration of one batch.
type Settings struct {
	Rounding   float64 // granularity for rounding box sizes up; <= 0 disables rounding
	Clearance  float64 // minimum clearance added around the run on each side
	Protrusion float64 // how far the box protrudes past each host face

	RoundBoxForRoundPipe bool
	RoundBoxForRoundDuct bool
}

// DefaultSettings returns the default settings for a model authored in
// millimeters.
func DefaultSettings() Settings {
	return FromConfig(Config{}, 1)
}

// FromConfig resolves a Config into Settings, converting millimeter
// lengths into model units. unitsPerMM is the number of model units per
// millimeter (1 for a millimeter model).
func FromConfig(c Config, unitsPerMM float64) Settings {
	s := Settings{
		Rounding:             DefaultRoundingMM * unitsPerMM,
		Clearance:            DefaultClearanceMM * unitsPerMM,
		Protrusion:           DefaultProtrusionMM * unitsPerMM,
		RoundBoxForRoundPipe: true,
		RoundBoxForRoundDuct: false,
	}
	if c.RoundingGranularityMM != nil {
		s.Rounding = *c.RoundingGranularityMM * unitsPerMM
	}
	if c.MinimumClearanceMM != nil {
		s.Clearance = *c.MinimumClearanceMM * unitsPerMM
	}
	if c.ProtrusionMM != nil {
		s.Protrusion = *c.ProtrusionMM * unitsPerMM
	}
	if c.RoundBoxForRoundPipe != nil {
		s.RoundBoxForRoundPipe = *c.RoundBoxForRoundPipe
	}
	if c.RoundBoxForRoundDuct != nil {
		s.RoundBoxForRoundDuct = *c.RoundBoxForRoundDuct
	}
	return s
}
