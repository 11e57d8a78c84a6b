package domparts

import (
	"github.com/itsatony/go-domparts/internal"
	"golang.org/x/net/html"
)

// rawTextPart binds the content of a script, style, textarea or title
// element. Like attributes, several interpolations share one part and the
// text is written once per render.
type rawTextPart struct {
	r     *renderer
	el    *html.Node
	text  string
	count int
	buf   []any
	last  string
}

func newRawTextPart(r *renderer, el *html.Node, d internal.PartDescriptor) *rawTextPart {
	p := &rawTextPart{
		r:     r,
		el:    el,
		text:  d.Text,
		count: max(d.Count, 1),
	}
	p.buf = make([]any, p.count)
	p.last = internal.TextContent(el)
	return p
}

func (p *rawTextPart) setValue(slot int, v any) error {
	if kind, _ := classify(v); kind == kindDirective {
		return NewDirectivePositionError(PartKindRawText, v)
	}
	p.buf[slot] = v
	if slot < p.count-1 {
		return nil
	}
	s := interpolate(p.text, p.buf)
	if s == p.last {
		return nil
	}
	p.r.doc.SetTextContent(p.el, s)
	p.last = s
	return nil
}

func (p *rawTextPart) detach() {}
