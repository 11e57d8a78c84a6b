package domparts

import (
	"github.com/itsatony/go-domparts/internal"
	"golang.org/x/net/html"
)

// elementPart binds a directive to an element.
type elementPart struct {
	r     *renderer
	el    *html.Node
	index int
	dctx  *DirectiveContext
}

func newElementPart(r *renderer, el *html.Node, d internal.PartDescriptor) *elementPart {
	return &elementPart{r: r, el: el, index: d.Index}
}

func (p *elementPart) setValue(_ int, v any) error {
	kind, val := classify(v)
	if kind != kindDirective {
		return NewDirectiveContractError(p.index, v)
	}
	if p.dctx == nil {
		p.dctx = &DirectiveContext{Kind: PartKindElement, Element: p.el, doc: p.r.doc}
	}
	return val.(Directive).Apply(p.dctx)
}

func (p *elementPart) detach() {}
