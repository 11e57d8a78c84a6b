// Package domparts compiles tagged HTML templates into reusable fragments,
// keeps live html.Node trees in sync with repeated evaluations of the same
// template, serializes templates to strings for server output, and adopts
// server-rendered markup on the client without rebuilding it.
//
// A template is declared once per call site and evaluated with fresh values
// on every render:
//
//	var greeting = domparts.NewTemplate(`<div class="`, `">Hello `, `</div>`)
//
//	func view(theme, name string) *domparts.Result {
//	    return domparts.HTML(greeting, theme, name)
//	}
//
// # Rendering
//
// Render mounts a result into a container node, or updates it in place when
// the container already holds the same template:
//
//	engine := domparts.MustNew()
//	body := &html.Node{Type: html.ElementNode, Data: "body"}
//	err := engine.Render(view("dark", "Ada"), body)
//
// ToString produces server markup. Rendering the same result on top of that
// markup adopts the existing nodes instead of creating new ones:
//
//	markup, err := engine.ToString(view("dark", "Ada"))
//
// # Bindings
//
// Values bind by position. Child content accepts primitives, nil, slices,
// nested results, *html.Node values, thunks and directives. Attribute names
// choose their behaviour by sigil:
//
//	?hidden="${v}"   boolean attribute, present when v is truthy
//	.value="${v}"    property assignment, never serialized
//	@click="${fn}"   event listener (also on-prefixed names)
//	class="${v}"     plain attribute, nil removes it
//
// A bare interpolation inside a tag binds an element directive such as Ref
// or Spread. UnsafeHTML and safehtml.HTML values insert markup verbatim.
//
// # Markers
//
// Rendered markup keeps its markers: comments named dom-part-N delimit child
// regions, template-part comments delimit template instances, and
// dom-part-N attributes carry attribute bindings. StripMarkers removes them.
package domparts
