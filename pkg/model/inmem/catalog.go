package inmem

import (
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/model"
	"github.com/chazu/aperture/pkg/opening"
)

// Template is one registered opening box definition.
type Template struct {
	Path opening.TemplatePath

	// AnchorOffset is the template's authored anchor point expressed in
	// the instance's local axes, relative to its rotational center. A
	// non-zero offset makes rotations about the anchor displace the
	// instance, which the orientation solver must compensate for.
	AnchorOffset geom.Vec3

	// Params is the parameter schema stamped onto each new instance.
	Params []model.Param
}

// Handle is a loaded template. Implements opening.TemplateHandle.
type Handle struct {
	tmpl *Template
}

func (h *Handle) Path() opening.TemplatePath { return h.tmpl.Path }

// Catalog is an in-memory template catalog. Implements opening.Catalog.
type Catalog struct {
	keys      map[opening.TemplateKey]opening.TemplatePath
	templates map[opening.TemplatePath]*Template
	loaded    map[opening.TemplatePath]*Handle

	// LoadCounts tracks how many real loads each path has seen; LoadOrGet
	// is idempotent so the count stays at one per path.
	LoadCounts map[opening.TemplatePath]int
}

var _ opening.Catalog = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		keys:       make(map[opening.TemplateKey]opening.TemplatePath),
		templates:  make(map[opening.TemplatePath]*Template),
		loaded:     make(map[opening.TemplatePath]*Handle),
		LoadCounts: make(map[opening.TemplatePath]int),
	}
}

// Register binds a template to a key. Several keys may share one path.
func (c *Catalog) Register(key opening.TemplateKey, tmpl *Template) {
	c.keys[key] = tmpl.Path
	c.templates[tmpl.Path] = tmpl
}

// Resolve maps a key to a template path.
func (c *Catalog) Resolve(key opening.TemplateKey) (opening.TemplatePath, error) {
	path, ok := c.keys[key]
	if !ok {
		return "", &opening.MissingTemplateError{Key: key}
	}
	return path, nil
}

// LoadOrGet loads a template once and returns the existing handle on
// every later call.
func (c *Catalog) LoadOrGet(path opening.TemplatePath) (opening.TemplateHandle, error) {
	if h, ok := c.loaded[path]; ok {
		return h, nil
	}
	tmpl, ok := c.templates[path]
	if !ok {
		return nil, &opening.MissingTemplateError{}
	}
	h := &Handle{tmpl: tmpl}
	c.loaded[path] = h
	c.LoadCounts[path]++
	return h, nil
}

// Activate is a no-op for the in-memory catalog.
func (c *Catalog) Activate(h opening.TemplateHandle) error { return nil }

// MarkerParams returns the standard writable parameter schema for opening
// marker templates.
func MarkerParams() []model.Param {
	ids := []string{
		opening.ParamOpeningWidth,
		opening.ParamOpeningHeight,
		opening.ParamOpeningDepth,
		opening.ParamHostThickness,
		opening.ParamProtrusionTop,
		opening.ParamProtrusionBottom,
		opening.ParamIdentityTag,
	}
	params := make([]model.Param, 0, len(ids))
	for _, id := range ids {
		params = append(params, model.Param{ID: id, Name: id})
	}
	return params
}
