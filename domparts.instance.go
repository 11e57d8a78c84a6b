package domparts

import (
	"errors"

	"github.com/itsatony/go-domparts/internal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// errHydrationMismatch reports markup that cannot be adopted for a template.
// It never leaves the package: callers fall back to a fresh render.
var errHydrationMismatch = errors.New("hydration mismatch")

// part is a live binding created from one descriptor.
type part interface {
	// setValue receives the value for one of the part's placeholders.
	// Parts spanning several placeholders commit on the last slot.
	setValue(slot int, v any) error
	// detach releases out-of-markup state such as listeners.
	detach()
}

// slot routes a value index to its part.
type slot struct {
	p   part
	sub int
}

// renderer carries what parts need from the engine.
type renderer struct {
	doc      *Document
	logger   *zap.Logger
	cache    *templateCache
	maxDepth int
}

// instance is one rendered copy of a template. Its nodes run from a scope
// start marker to the matching end marker.
type instance struct {
	tmpl  *Template
	start *html.Node
	parts []part
	slots []slot
	depth int
}

func (r *renderer) checkDepth(depth int) error {
	if r.maxDepth > 0 && depth > r.maxDepth {
		return NewDepthExceededError(depth, r.maxDepth)
	}
	return nil
}

// newInstance clones the template's cached fragment and binds parts by
// descriptor path. The clone sits in a detached holder until inserted.
func (r *renderer) newInstance(t *Template, depth int) (*instance, error) {
	if err := r.checkDepth(depth); err != nil {
		return nil, err
	}
	entry, err := r.cache.client(t)
	if err != nil {
		return nil, err
	}

	roots := r.doc.CloneNodes(entry.fragment)
	holder := &html.Node{Type: html.ElementNode, Data: internal.TagTemplate, DataAtom: atom.Template}
	for _, n := range roots {
		holder.AppendChild(n)
	}

	nodes := make([]*html.Node, len(entry.descriptors))
	for i, d := range entry.descriptors {
		n, err := internal.Resolve(roots, d.Path)
		if err != nil {
			return nil, NewShapeMismatchError(t, entry.markup, err)
		}
		nodes[i] = n
	}

	inst := &instance{tmpl: t, start: roots[0], depth: depth}
	if err := inst.bind(r, entry.descriptors, nodes, false); err != nil {
		return nil, NewShapeMismatchError(t, entry.markup, err)
	}
	return inst, nil
}

// hydrateInstance binds a template to an existing scope region, locating
// parts by marker index. Returns errHydrationMismatch when the region was
// not rendered from t.
func (r *renderer) hydrateInstance(t *Template, g internal.Group, depth int) (*instance, error) {
	if err := r.checkDepth(depth); err != nil {
		return nil, err
	}
	entry, err := r.cache.client(t)
	if err != nil {
		return nil, err
	}
	if !internal.IsScopeGroup(g) {
		return nil, errHydrationMismatch
	}

	located := internal.LocateParts(g)
	if len(located) != len(entry.descriptors) {
		return nil, errHydrationMismatch
	}
	nodes := make([]*html.Node, len(entry.descriptors))
	for i, d := range entry.descriptors {
		n, ok := located[d.Index]
		if !ok {
			return nil, errHydrationMismatch
		}
		ref, err := internal.Resolve(entry.fragment, d.Path)
		if err != nil || !matchesDescriptor(n, ref, d, g[0].Parent) {
			return nil, errHydrationMismatch
		}
		nodes[i] = n
	}

	inst := &instance{tmpl: t, start: g[0], depth: depth}
	if err := inst.bind(r, entry.descriptors, nodes, true); err != nil {
		return nil, errHydrationMismatch
	}
	return inst, nil
}

// matchesDescriptor checks a located node against the template's own
// fragment: bound elements must have the same tag and content markers the
// same parent tag. Static text is not compared.
func matchesDescriptor(n, ref *html.Node, d internal.PartDescriptor, scopeParent *html.Node) bool {
	switch d.Type {
	case internal.PartTypeNode:
		if n.Type != html.CommentNode || internal.ParseComment(n.Data).Kind != internal.MarkerPartStart {
			return false
		}
		if len(d.Path) == 1 {
			return n.Parent == scopeParent
		}
		return n.Parent != nil && ref.Parent != nil && n.Parent.Data == ref.Parent.Data
	default:
		return n.Type == html.ElementNode && n.Data == ref.Data
	}
}

func (in *instance) bind(r *renderer, descs []internal.PartDescriptor, nodes []*html.Node, adopt bool) error {
	in.slots = make([]slot, in.tmpl.Placeholders())
	in.parts = make([]part, 0, len(descs))
	for i, d := range descs {
		var p part
		switch d.Type {
		case internal.PartTypeNode:
			end := internal.FindRegionEnd(nodes[i])
			if end == nil {
				return internal.NewShapeError(internal.ErrMsgPartMissing, d.Index, -1, d.Index)
			}
			p = newChildPart(r, nodes[i], end, in.depth, adopt)
		case internal.PartTypeAttribute:
			p = newAttributePart(r, nodes[i], d)
		case internal.PartTypeRawText:
			p = newRawTextPart(r, nodes[i], d)
		case internal.PartTypeDirective:
			p = newElementPart(r, nodes[i], d)
		default:
			return internal.NewShapeError(internal.ErrMsgPartMissing, d.Index, -1, d.Index)
		}
		in.parts = append(in.parts, p)
		for k := 0; k < max(d.Count, 1); k++ {
			if d.Index+k >= len(in.slots) {
				return internal.NewShapeError(internal.ErrMsgPartCountMismatch, len(in.slots), d.Index+k+1, d.Index)
			}
			in.slots[d.Index+k] = slot{p: p, sub: k}
		}
	}
	return nil
}

// update applies values positionally.
func (in *instance) update(values []any) error {
	if len(values) != len(in.slots) {
		return NewValueCountError(in.tmpl, len(in.slots), len(values))
	}
	for i, v := range values {
		s := in.slots[i]
		if err := s.p.setValue(s.sub, v); err != nil {
			return err
		}
	}
	return nil
}

// group returns the instance's current nodes, markers included.
func (in *instance) group() internal.Group {
	return internal.CollectRegionNodes(in.start)
}

func (in *instance) detach() {
	for _, p := range in.parts {
		p.detach()
	}
}
