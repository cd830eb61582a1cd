package clash

import (
	"github.com/dhconnelly/rtreego"
	"go.uber.org/zap"

	"github.com/chazu/aperture/pkg/kernel"
	"github.com/chazu/aperture/pkg/model"
)

// DefaultVolumeEpsilon is the minimum intersection volume (model units³)
// for a pair to count as a clash. Surface-touching geometry produces
// near-zero volumes and must not trigger a placement.
const DefaultVolumeEpsilon = 1.0

// Stats summarizes one finder pass. Skipped pairs are not errors; they
// are pairs the kernel could not evaluate or elements without geometry.
type Stats struct {
	PairsTested     int
	SkippedElements int
	SkippedPairs    int
}

// Finder detects run-vs-host clashes.
type Finder struct {
	kernel  kernel.Kernel
	solids  SolidSource
	log     *zap.Logger
	epsilon float64
}

// NewFinder builds a Finder. A nil logger disables logging.
func NewFinder(k kernel.Kernel, solids SolidSource, log *zap.Logger) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{kernel: k, solids: solids, log: log, epsilon: DefaultVolumeEpsilon}
}

// SetVolumeEpsilon overrides the degeneracy threshold.
func (f *Finder) SetVolumeEpsilon(eps float64) { f.epsilon = eps }

// hostEntry is a host with its pre-extracted solids, indexed by the
// bounding box of all of them. Implements rtreego.Spatial.
type hostEntry struct {
	desc   model.HostDescriptor
	solids []kernel.Solid
	rect   rtreego.Rect
}

func (h *hostEntry) Bounds() rtreego.Rect { return h.rect }

// boundsOf computes the combined AABB rect of a solid list.
func boundsOf(solids []kernel.Solid) (rtreego.Rect, bool) {
	min, max := solids[0].BoundingBox()
	for _, s := range solids[1:] {
		lo, hi := s.BoundingBox()
		if lo.X < min.X {
			min.X = lo.X
		}
		if lo.Y < min.Y {
			min.Y = lo.Y
		}
		if lo.Z < min.Z {
			min.Z = lo.Z
		}
		if hi.X > max.X {
			max.X = hi.X
		}
		if hi.Y > max.Y {
			max.Y = hi.Y
		}
		if hi.Z > max.Z {
			max.Z = hi.Z
		}
	}
	r, err := rtreego.NewRect(
		rtreego.Point{min.X, min.Y, min.Z},
		[]float64{max.X - min.X, max.Y - min.Y, max.Z - min.Z},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return r, true
}

// index builds an R-tree over a host collection, extracting solids once
// per host. Hosts without geometry are dropped.
func (f *Finder) index(hosts []model.HostDescriptor, stats *Stats) *rtreego.Rtree {
	tree := rtreego.NewTree(3, 2, 8)
	for _, h := range hosts {
		solids, err := f.solids.TransformedSolids(h.Element, h.Transform)
		if err != nil || len(solids) == 0 {
			stats.SkippedElements++
			continue
		}
		rect, ok := boundsOf(solids)
		if !ok {
			stats.SkippedElements++
			continue
		}
		tree.Insert(&hostEntry{desc: h, solids: solids, rect: rect})
	}
	return tree
}

// Find pairs every run against every wall and floor whose bounding boxes
// overlap, evaluates the boolean intersection of the candidates, and
// emits one Record per pair with intersection volume above the epsilon.
// Records come out run-major, walls before floors for each run.
func (f *Finder) Find(runs []model.RunDescriptor, walls, floors []model.HostDescriptor) ([]Record, Stats) {
	var stats Stats
	wallTree := f.index(walls, &stats)
	floorTree := f.index(floors, &stats)

	var records []Record
	for _, run := range runs {
		solids, err := f.solids.TransformedSolids(run.Element, run.Transform)
		if err != nil || len(solids) == 0 {
			stats.SkippedElements++
			continue
		}
		rect, ok := boundsOf(solids)
		if !ok {
			stats.SkippedElements++
			continue
		}
		for _, tree := range []*rtreego.Rtree{wallTree, floorTree} {
			for _, spatial := range tree.SearchIntersect(rect) {
				host := spatial.(*hostEntry)
				rec, ok := f.testPair(run, solids, host, &stats)
				if ok {
					records = append(records, rec)
				}
			}
		}
	}
	return records, stats
}

// testPair evaluates one run×host candidate. Boolean failures on a single
// solid combination skip that combination, not the batch.
func (f *Finder) testPair(run model.RunDescriptor, runSolids []kernel.Solid, host *hostEntry, stats *Stats) (Record, bool) {
	stats.PairsTested++
	for _, rs := range runSolids {
		for _, hs := range host.solids {
			overlap, err := f.kernel.Intersect(rs, hs)
			if err != nil {
				stats.SkippedPairs++
				f.log.Debug("boolean intersection failed",
					zap.String("run", string(run.Element.ID)),
					zap.String("host", string(host.desc.Element.ID)),
					zap.Error(err))
				continue
			}
			if f.kernel.Volume(overlap) <= f.epsilon {
				continue
			}
			return Record{
				Run:           run,
				Host:          host.desc,
				Centroid:      f.kernel.Centroid(overlap),
				HostNormal:    host.desc.Normal(),
				RunDirection:  run.Direction(),
				HostKind:      host.desc.Kind,
				HostThickness: host.desc.Thickness(),
				Category:      run.Element.Category,
				Section:       run.Element.Section(),
			}, true
		}
	}
	return Record{}, false
}
