package opening

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/aperture/pkg/clash"
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
)

// BatchInput is one placement batch request.
type BatchInput struct {
	Runs   []model.RunDescriptor
	Walls  []model.HostDescriptor
	Floors []model.HostDescriptor

	Settings Settings
}

// PlacementResult records the outcome of one intersection record.
type PlacementResult struct {
	Record clash.Record
	Spec   BoxSpec
	Anchor geom.Vec3

	Instance Instance // nil on failure
	Identity string

	// Duplicate is set when a marker with the same run/host identity was
	// already present before this batch. The new instance is still
	// created; resolution is left to the operator.
	Duplicate bool

	Err error
}

// BatchResult is the terminal result of one batch.
type BatchResult struct {
	CreatedCount        int
	DuplicateIdentities []string
	ErrorMessage        string
	Success             bool

	// Message is the neutral end-of-batch summary shown to the operator.
	Message string

	Placements []PlacementResult
	Stats      clash.Stats
}

// Engine drives one placement batch end-to-end: clash detection, sizing,
// anchoring, instantiation, parameter write-back, orientation, and
// duplicate bookkeeping. Scheduling is single-threaded and synchronous so
// boolean results stay deterministic and every failure is attributable to
// a specific pair.
type Engine struct {
	finder  *clash.Finder
	frames  clash.FrameSource
	catalog Catalog
	doc     Document
	log     *zap.Logger
}

// NewEngine builds an Engine. frames may be nil; the orientation solver
// then degrades to its frame-free fallbacks. A nil logger disables
// logging.
func NewEngine(finder *clash.Finder, frames clash.FrameSource, catalog Catalog, doc Document, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{finder: finder, frames: frames, catalog: catalog, doc: doc, log: log}
}

// Run executes one batch synchronously. It must be called from the
// designated model-mutation context; the whole batch runs inside one
// exclusive mutation session. Input validation failures abort before any
// mutation; every per-record failure is absorbed and the batch proceeds.
func (e *Engine) Run(ctx context.Context, in BatchInput) BatchResult {
	if err := ctx.Err(); err != nil {
		// Aborted before the batch started: neutral non-error result.
		return BatchResult{Success: true, Message: ErrUserCancelled.Error()}
	}
	if e.doc == nil || !e.doc.Writable() {
		return BatchResult{
			Success:      false,
			ErrorMessage: ErrInvalidInput.Error(),
		}
	}

	records, stats := e.finder.Find(in.Runs, in.Walls, in.Floors)
	if len(records) == 0 {
		return BatchResult{
			Success: true,
			Message: "no clashes found",
			Stats:   stats,
		}
	}

	// Snapshot the identity tags of markers already in the document, so
	// this batch's own creations do not flag each other.
	existing := e.existingIdentities()

	solver := NewSolver(e.frames, e.log)
	templates := make(map[TemplateKey]TemplateHandle)

	res := BatchResult{Success: true, Stats: stats}
	for _, rec := range records {
		pr := e.placeOne(rec, in.Settings, solver, templates)
		if pr.Err != nil {
			e.log.Warn("placement failed",
				zap.String("run", string(rec.Run.Element.ID)),
				zap.String("host", string(rec.Host.Element.ID)),
				zap.Error(pr.Err))
		} else {
			res.CreatedCount++
		}
		res.Placements = append(res.Placements, pr)
	}

	// Duplicate scan: report matches against pre-existing markers without
	// deleting or skipping anything.
	for i := range res.Placements {
		pr := &res.Placements[i]
		if pr.Err == nil && existing[pr.Identity] {
			pr.Duplicate = true
			res.DuplicateIdentities = append(res.DuplicateIdentities, pr.Identity)
		}
	}

	res.Message = fmt.Sprintf("created %d opening(s), %d duplicate(s)",
		res.CreatedCount, len(res.DuplicateIdentities))
	return res
}

// RunAsync executes the batch in the model-mutation goroutine and
// publishes exactly one terminal result on the returned channel. The
// caller's (UI) context must receive rather than block inside the
// mutation context.
func (e *Engine) RunAsync(ctx context.Context, in BatchInput) <-chan BatchResult {
	ch := make(chan BatchResult, 1)
	go func() {
		ch <- e.Run(ctx, in)
		close(ch)
	}()
	return ch
}

func (e *Engine) existingIdentities() map[string]bool {
	tags := make(map[string]bool)
	for _, m := range e.doc.Markers() {
		if tag, ok := m.Params().Text(ParamIdentityTag); ok && tag != "" {
			tags[tag] = true
		}
	}
	return tags
}

// placeOne handles a single intersection record. A panic anywhere inside
// is converted to a per-record error; one failed placement never aborts
// the batch.
func (e *Engine) placeOne(rec clash.Record, s Settings, solver *Solver, templates map[TemplateKey]TemplateHandle) (pr PlacementResult) {
	pr.Record = rec
	pr.Identity = Identity(rec.Run.Element.ID, rec.Host.Element.ID)

	defer func() {
		if r := recover(); r != nil {
			pr.Instance = nil
			pr.Err = fmt.Errorf("panic during placement: %v", r)
		}
	}()

	key := TemplateKey{
		Host:     rec.HostKind,
		Shape:    effectiveShape(rec, s),
		Category: rec.Category,
	}
	handle, err := e.template(key, templates)
	if err != nil {
		pr.Err = err
		return pr
	}

	pr.Spec = Calculate(rec, s)
	pr.Anchor = Anchor(rec, pr.Spec)

	inst, err := e.doc.CreateInstance(handle, pr.Anchor, rec.Host)
	if err != nil {
		pr.Err = fmt.Errorf("create instance: %w", err)
		return pr
	}
	pr.Instance = inst

	// Parameters first: writes can change the instance's geometry and
	// must settle before the orientation solver runs.
	e.writeParams(inst, rec, pr.Spec, pr.Identity)

	if err := solver.Orient(inst, rec, pr.Spec, pr.Anchor); err != nil {
		pr.Err = fmt.Errorf("orient: %w", err)
		return pr
	}
	return pr
}

// template resolves, loads and activates the template for a key, caching
// by key within the batch so the catalog sees each key at most once.
func (e *Engine) template(key TemplateKey, cache map[TemplateKey]TemplateHandle) (TemplateHandle, error) {
	if h, ok := cache[key]; ok {
		return h, nil
	}
	path, err := e.catalog.Resolve(key)
	if err != nil {
		return nil, err
	}
	h, err := e.catalog.LoadOrGet(path)
	if err != nil {
		return nil, err
	}
	if err := e.catalog.Activate(h); err != nil {
		return nil, err
	}
	cache[key] = h
	return h, nil
}

// writeParams applies the computed dimensions onto the instance. A single
// missing or read-only parameter is logged and given up on without
// failing the record.
func (e *Engine) writeParams(inst Instance, rec clash.Record, spec BoxSpec, identity string) {
	secondary := ParamOpeningHeight
	if rec.HostKind == model.HostFloor {
		secondary = ParamOpeningDepth
	}

	writes := []struct {
		id    string
		value float64
	}{
		{ParamOpeningWidth, spec.Width},
		{secondary, spec.StackingHeight()},
		{ParamHostThickness, rec.HostThickness},
		{ParamProtrusionTop, spec.Protrusion},
		{ParamProtrusionBottom, spec.Protrusion},
	}
	for _, w := range writes {
		if err := inst.Params().SetNumber(w.id, paramDisplay[w.id], w.value); err != nil {
			e.log.Warn("parameter write failed",
				zap.String("instance", inst.ID()),
				zap.String("param", w.id),
				zap.Error(err))
		}
	}
	if err := inst.Params().SetText(ParamIdentityTag, paramDisplay[ParamIdentityTag], identity); err != nil {
		e.log.Warn("identity tag write failed",
			zap.String("instance", inst.ID()),
			zap.Error(err))
	}
}

// effectiveShape folds round sections to rectangular unless the
// per-category round-box preference is enabled.
func effectiveShape(rec clash.Record, s Settings) model.SectionShape {
	if rec.Section.Shape != model.SectionRound {
		return model.SectionRectangular
	}
	switch rec.Category {
	case model.CategoryPipe:
		if s.RoundBoxForRoundPipe {
			return model.SectionRound
		}
	case model.CategoryDuct:
		if s.RoundBoxForRoundDuct {
			return model.SectionRound
		}
	}
	return model.SectionRectangular
}
