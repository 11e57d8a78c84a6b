package domparts

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/safehtml"
	"github.com/itsatony/go-domparts/internal"
	"golang.org/x/net/html"
)

// Directive is a value with its own update and stringify behaviour. Apply
// runs on every client render of the position the directive is bound to;
// RenderHTML produces the markup for server output.
//
// At child positions RenderHTML returns content markup. At attribute
// positions it returns the unescaped attribute value. At element positions
// it returns text inserted into the open tag, leading space included.
type Directive interface {
	Apply(ctx *DirectiveContext) error
	RenderHTML(info DirectiveInfo) (string, error)
}

// DirectiveInfo describes the position a directive is serialized at.
type DirectiveInfo struct {
	Kind PartKind
	Name string // attribute name, sigil included
	Tag  string // element name for raw-text positions
}

// DirectiveContext is handed to Directive.Apply. It lives as long as the
// binding, so directives can keep state between renders.
type DirectiveContext struct {
	Kind      PartKind
	Element   *html.Node // bound element at attribute and element positions
	Start     *html.Node // region start marker at child positions
	End       *html.Node // region end marker at child positions
	Name      string     // attribute name at attribute positions
	Hydrating bool       // the position holds server-rendered content

	doc     *Document
	state   any
	content []*html.Node
}

// Document returns the document owning the bound nodes.
func (c *DirectiveContext) Document() *Document {
	return c.doc
}

// State returns the value stored with SetState on a previous render.
func (c *DirectiveContext) State() any {
	return c.state
}

// SetState stores a value for the next render of this binding.
func (c *DirectiveContext) SetState(v any) {
	c.state = v
}

// Content returns the nodes the directive currently owns in a child region.
// While hydrating it holds the server-rendered nodes.
func (c *DirectiveContext) Content() []*html.Node {
	return c.content
}

// SetContent replaces the directive's nodes in a child region.
func (c *DirectiveContext) SetContent(nodes []*html.Node) error {
	if c.Kind != PartKindChild || c.End == nil {
		return NewDirectivePositionError(c.Kind, nil)
	}
	c.content = c.doc.ReconcileNodes(c.End.Parent, c.content, nodes, c.End)
	return nil
}

// ParseHTML parses markup into detached nodes owned by the document.
func (c *DirectiveContext) ParseHTML(markup string) ([]*html.Node, error) {
	nodes, err := c.doc.ParseHTML(markup)
	if err != nil {
		return nil, NewRenderError(ErrMsgParseMarkupFailed, err)
	}
	return nodes, nil
}

// SetAttribute writes an attribute on the bound element.
func (c *DirectiveContext) SetAttribute(name, value string) {
	if c.Element != nil {
		c.doc.SetAttr(c.Element, name, value)
	}
}

// RemoveAttribute removes an attribute from the bound element.
func (c *DirectiveContext) RemoveAttribute(name string) {
	if c.Element != nil {
		c.doc.RemoveAttr(c.Element, name)
	}
}

// funcDirective adapts two functions to the Directive interface.
type funcDirective struct {
	apply  func(*DirectiveContext) error
	render func(DirectiveInfo) (string, error)
}

// NewDirective builds a directive from an apply and a render function.
// A nil render serializes to nothing.
func NewDirective(apply func(*DirectiveContext) error, render func(DirectiveInfo) (string, error)) Directive {
	return &funcDirective{apply: apply, render: render}
}

func (d *funcDirective) Apply(ctx *DirectiveContext) error {
	if d.apply == nil {
		return nil
	}
	return d.apply(ctx)
}

func (d *funcDirective) RenderHTML(info DirectiveInfo) (string, error) {
	if d.render == nil {
		return "", nil
	}
	return d.render(info)
}

type unsafeHTML struct {
	markup string
}

// UnsafeHTML inserts markup at a child position without escaping it.
// Only pass markup from trusted sources.
func UnsafeHTML(markup string) Directive {
	return &unsafeHTML{markup: markup}
}

// TrustedHTML inserts a safehtml.HTML value at a child position. Plain
// safehtml.HTML values are treated the same way.
func TrustedHTML(h safehtml.HTML) Directive {
	return &unsafeHTML{markup: h.String()}
}

func (d *unsafeHTML) Apply(ctx *DirectiveContext) error {
	if ctx.Kind != PartKindChild {
		return NewDirectivePositionError(ctx.Kind, d)
	}
	if prev, ok := ctx.State().(string); ok && prev == d.markup {
		return nil
	}
	ctx.SetState(d.markup)
	if ctx.Hydrating && len(ctx.Content()) > 0 {
		return nil
	}
	nodes, err := ctx.ParseHTML(d.markup)
	if err != nil {
		return err
	}
	return ctx.SetContent(nodes)
}

func (d *unsafeHTML) RenderHTML(info DirectiveInfo) (string, error) {
	if info.Kind != PartKindChild {
		return "", NewDirectivePositionError(info.Kind, d)
	}
	return d.markup, nil
}

type refDirective struct {
	fn func(*html.Node)
}

// Ref hands the bound element to fn when it is first bound.
func Ref(fn func(*html.Node)) Directive {
	return &refDirective{fn: fn}
}

func (d *refDirective) Apply(ctx *DirectiveContext) error {
	if ctx.Kind != PartKindElement {
		return NewDirectivePositionError(ctx.Kind, d)
	}
	if ctx.State() == ctx.Element {
		return nil
	}
	ctx.SetState(ctx.Element)
	if d.fn != nil {
		d.fn(ctx.Element)
	}
	return nil
}

func (d *refDirective) RenderHTML(info DirectiveInfo) (string, error) {
	if info.Kind != PartKindElement {
		return "", NewDirectivePositionError(info.Kind, d)
	}
	return "", nil
}

type spreadDirective struct {
	attrs map[string]string
}

// Spread binds a set of attributes at an element position. Attributes
// dropped from the set on a later render are removed.
func Spread(attrs map[string]string) Directive {
	return &spreadDirective{attrs: attrs}
}

func (d *spreadDirective) Apply(ctx *DirectiveContext) error {
	if ctx.Kind != PartKindElement {
		return NewDirectivePositionError(ctx.Kind, d)
	}
	prev, _ := ctx.State().(map[string]string)
	for _, name := range sortedKeys(prev) {
		if _, keep := d.attrs[name]; !keep {
			ctx.RemoveAttribute(strings.ToLower(name))
		}
	}
	for _, name := range sortedKeys(d.attrs) {
		key, val := strings.ToLower(name), d.attrs[name]
		if cur, ok := internal.GetAttr(ctx.Element, key); ok && cur == val {
			continue
		}
		ctx.SetAttribute(key, val)
	}
	ctx.SetState(maps.Clone(d.attrs))
	return nil
}

func (d *spreadDirective) RenderHTML(info DirectiveInfo) (string, error) {
	if info.Kind != PartKindElement {
		return "", NewDirectivePositionError(info.Kind, d)
	}
	var b strings.Builder
	for _, name := range sortedKeys(d.attrs) {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(name))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(d.attrs[name]))
		b.WriteByte('"')
	}
	return b.String(), nil
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
