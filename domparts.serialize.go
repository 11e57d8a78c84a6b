package domparts

import (
	"strings"

	"github.com/itsatony/go-domparts/internal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// serialFrame is one entry of the serializer's work stack: either a
// template program being replayed or a list of content values.
type serialFrame struct {
	ops    []internal.Op
	values []any
	items  []any
	next   int
	depth  int // template nesting depth
	nest   int // list and thunk nesting within the current template
	inList bool
	run    *textRun
}

// textRun tracks whether the last item written into a content region was
// text, so adjacent text items stay separate nodes once parsed.
type textRun struct {
	text bool
}

// serialize renders r to markup. Nested templates, lists and thunks are
// pushed onto an explicit stack instead of recursing.
func (e *Engine) serialize(r *Result) (string, error) {
	var b strings.Builder
	root, err := e.programFrame(r, 1)
	if err != nil {
		return "", err
	}
	stack := []serialFrame{root}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.ops != nil {
			if top.next >= len(top.ops) {
				stack = stack[:len(stack)-1]
				continue
			}
			op := top.ops[top.next]
			top.next++
			if op.Placeholder == nil {
				b.WriteString(op.Literal)
				continue
			}
			ph := op.Placeholder
			vals := top.values[ph.Index : ph.Index+ph.Count]
			switch ph.Type {
			case internal.PartTypeNode:
				stack = append(stack, serialFrame{items: vals[:1], depth: top.depth, run: &textRun{}})
			case internal.PartTypeAttribute:
				s, err := serializeAttr(ph, vals)
				if err != nil {
					return "", err
				}
				b.WriteString(s)
			case internal.PartTypeRawText:
				s, err := serializeRawText(ph, vals)
				if err != nil {
					return "", err
				}
				b.WriteString(s)
			case internal.PartTypeDirective:
				kind, val := classify(vals[0])
				if kind != kindDirective {
					return "", NewDirectiveContractError(ph.Index, vals[0])
				}
				s, err := val.(Directive).RenderHTML(DirectiveInfo{Kind: PartKindElement})
				if err != nil {
					return "", err
				}
				b.WriteString(s)
			}
			continue
		}

		if top.next >= len(top.items) {
			stack = stack[:len(stack)-1]
			continue
		}
		item := top.items[top.next]
		top.next++
		depth, nest, inList, run := top.depth, top.nest, top.inList, top.run

		kind, val := classify(item)
		switch kind {
		case kindNull:
		case kindPrimitive:
			text := stringify(val)
			if needsTextMarker(run.text, text) {
				b.WriteString(internal.StrCommentOpen + internal.TextMarker + internal.StrCommentClose)
			}
			b.WriteString(html.EscapeString(text))
			run.text = true
		case kindList, kindThunk:
			if e.config.maxDepth > 0 && nest+1 >= e.config.maxDepth {
				return "", NewDepthExceededError(nest+1, e.config.maxDepth)
			}
			items, _ := val.([]any)
			if kind == kindThunk {
				items = []any{val.(Thunk)(nil)}
			}
			stack = append(stack, serialFrame{items: items, depth: depth, nest: nest + 1, inList: inList || kind == kindList, run: run})
		case kindTemplate:
			run.text = false
			frame, err := e.programFrame(val.(*Result), depth+1)
			if err != nil {
				return "", err
			}
			stack = append(stack, frame)
		case kindNode:
			run.text = false
			if err := html.Render(&b, val.(*html.Node)); err != nil {
				return "", NewRenderError(ErrMsgRenderFailed, err)
			}
		case kindDirective:
			if inList {
				e.logger.Warn(LogMsgUnknownServerValue,
					zap.String(LogFieldValueType, typeName(val)),
					zap.Any(LogFieldValue, val))
				continue
			}
			s, err := val.(Directive).RenderHTML(DirectiveInfo{Kind: PartKindChild})
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		default:
			e.logger.Warn(LogMsgUnknownServerValue,
				zap.String(LogFieldValueType, typeName(val)),
				zap.Any(LogFieldValue, val))
		}
	}
	return b.String(), nil
}

func (e *Engine) programFrame(r *Result, depth int) (serialFrame, error) {
	if err := e.renderer.checkDepth(depth); err != nil {
		return serialFrame{}, err
	}
	entry, err := e.cache.server(r.tmpl)
	if err != nil {
		return serialFrame{}, err
	}
	if len(r.values) != r.tmpl.Placeholders() {
		return serialFrame{}, NewValueCountError(r.tmpl, r.tmpl.Placeholders(), len(r.values))
	}
	ops := entry.program
	if ops == nil {
		ops = []internal.Op{}
	}
	return serialFrame{ops: ops, values: r.values, depth: depth}, nil
}

// serializeAttr renders an attribute placeholder, leading space included.
func serializeAttr(ph *internal.Placeholder, vals []any) (string, error) {
	mode, key := parseAttrName(ph.Name)
	if ph.Count == 1 {
		if kind, val := classify(vals[0]); kind == kindDirective {
			s, err := val.(Directive).RenderHTML(DirectiveInfo{Kind: PartKindAttribute, Name: ph.Name})
			if err != nil {
				return "", err
			}
			return formatAttr(key, s), nil
		}
	}

	switch mode {
	case attrBoolean:
		if truthy(boundValue(ph.Text, vals)) {
			return formatAttr(key, ""), nil
		}
		return "", nil
	case attrProperty, attrEvent:
		return "", nil
	default:
		if ph.Count == 1 && vals[0] == nil {
			return "", nil
		}
		return formatAttr(key, interpolate(ph.Text, vals)), nil
	}
}

func serializeRawText(ph *internal.Placeholder, vals []any) (string, error) {
	for _, v := range vals {
		if kind, _ := classify(v); kind == kindDirective {
			return "", NewDirectivePositionError(PartKindRawText, v)
		}
	}
	s := interpolate(ph.Text, vals)
	if internal.IsEscapedRawTextElement(ph.Tag) {
		return html.EscapeString(s), nil
	}
	return s, nil
}

func formatAttr(key, val string) string {
	return " " + key + `="` + html.EscapeString(val) + `"`
}

// boundValue returns the raw value for an attribute that is exactly one
// interpolation, the interpolated string otherwise.
func boundValue(text string, vals []any) any {
	if len(vals) == 1 && text == internal.Boundary {
		return vals[0]
	}
	return interpolate(text, vals)
}
