package domparts

import (
	"slices"
	"sync/atomic"

	"golang.org/x/net/html"
)

// templateSeq hands out template ids. Ids are never reused.
var templateSeq atomic.Uint64

// Template is the static half of a tagged template: the literal segments
// surrounding each interpolation. Create one Template per call site and
// reuse it; every cache in the engine is keyed by the Template's id.
type Template struct {
	id      uint64
	strings []string
}

// NewTemplate creates a template from its static segments. A template with
// n interpolations has n+1 segments.
func NewTemplate(segments ...string) *Template {
	if len(segments) == 0 {
		segments = []string{""}
	}
	s := make([]string, len(segments))
	copy(s, segments)
	return &Template{id: templateSeq.Add(1), strings: s}
}

// ID returns the template's generational id.
func (t *Template) ID() uint64 {
	return t.id
}

// Strings returns a copy of the static segments.
func (t *Template) Strings() []string {
	s := make([]string, len(t.strings))
	copy(s, t.strings)
	return s
}

// Placeholders returns the number of interpolations.
func (t *Template) Placeholders() int {
	return len(t.strings) - 1
}

// With is shorthand for HTML(t, values...).
func (t *Template) With(values ...any) *Result {
	return HTML(t, values...)
}

// Result is one evaluation of a template: the template and its values.
// Results are immutable and cheap; create a new one for every render.
type Result struct {
	tmpl   *Template
	values []any
}

// HTML evaluates a template with values. The values slice is copied.
func HTML(t *Template, values ...any) *Result {
	return &Result{tmpl: t, values: slices.Clone(values)}
}

// Template returns the result's template.
func (r *Result) Template() *Template {
	return r.tmpl
}

// Values returns a copy of the result's dynamic values.
func (r *Result) Values() []any {
	return slices.Clone(r.values)
}

// String renders the result with the default engine. Errors yield an empty
// string; use ToString to observe them.
func (r *Result) String() string {
	s, err := Default().ToString(r)
	if err != nil {
		return ""
	}
	return s
}

// ToString renders the result to server markup with the default engine.
func (r *Result) ToString() (string, error) {
	return Default().ToString(r)
}

// RenderInto mounts or updates the result in container with the default engine.
func (r *Result) RenderInto(container *html.Node) error {
	return Default().Render(r, container)
}

// PartKind identifies the position a value is bound to.
type PartKind int

// Part kinds
const (
	PartKindChild PartKind = iota
	PartKindAttribute
	PartKindRawText
	PartKindElement
)

// String returns the part kind name used in diagnostics.
func (k PartKind) String() string {
	switch k {
	case PartKindChild:
		return "child"
	case PartKindAttribute:
		return "attribute"
	case PartKindRawText:
		return "raw-text"
	case PartKindElement:
		return "element"
	default:
		return "unknown"
	}
}
