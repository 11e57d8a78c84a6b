package domparts

import (
	"errors"

	"github.com/itsatony/go-domparts/internal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

type entryKind int

const (
	entryText entryKind = iota
	entryTemplate
	entryNode
)

// childEntry is one item of a child region: a text node, a template
// instance or a caller-supplied node. A text entry that follows another text
// entry, or holds the empty string, is anchored by a text marker comment and
// has no text node while empty.
type childEntry struct {
	kind   entryKind
	node   *html.Node
	anchor *html.Node
	inst   *instance
	scope  internal.Group // adopted scope region not yet bound to a template
}

func (e *childEntry) group() internal.Group {
	switch {
	case e.inst != nil:
		return e.inst.group()
	case e.scope != nil:
		return e.scope
	case e.anchor == nil:
		return internal.Group{e.node}
	case e.node == nil:
		return internal.Group{e.anchor}
	default:
		return internal.Group{e.anchor, e.node}
	}
}

// needsTextMarker reports whether a text item must be preceded by a text
// marker: parsed markup merges adjacent text and drops empty text.
func needsTextMarker(afterText bool, text string) bool {
	return afterText || text == ""
}

// childPart owns the nodes between a pair of content markers. Every value is
// turned into a list of entries which is diffed against the previous list
// position by position. An entry is reused only when its kind and template
// match; any other change tears the entry down and builds a new one.
type childPart struct {
	r       *renderer
	start   *html.Node
	end     *html.Node
	depth   int
	adopt   bool
	entries []*childEntry

	last     any
	lastKind valueKind
	dctx     *DirectiveContext
}

func newChildPart(r *renderer, start, end *html.Node, depth int, adopt bool) *childPart {
	return &childPart{
		r:        r,
		start:    start,
		end:      end,
		depth:    depth,
		adopt:    adopt,
		lastKind: kindUnknown,
	}
}

func (p *childPart) setValue(_ int, v any) error {
	return p.commit(v)
}

func (p *childPart) commit(v any) error {
	kind, val := classify(v)
	for n := 0; kind == kindThunk; n++ {
		if p.r.maxDepth > 0 && n >= p.r.maxDepth {
			return NewDepthExceededError(n, p.r.maxDepth)
		}
		kind, val = classify(val.(Thunk)(p.start))
	}

	if kind == kindUnknown {
		p.r.logger.Warn(LogMsgUnknownValue,
			zap.String(LogFieldValueType, typeName(val)),
			zap.Any(LogFieldValue, val))
		return nil
	}

	adopt := p.adopt
	p.adopt = false

	if kind == kindDirective {
		return p.commitDirective(val.(Directive), adopt)
	}
	if p.dctx != nil {
		_ = p.dctx.SetContent(nil)
		p.dctx = nil
	}

	if kind == kindPrimitive && !adopt && p.lastKind == kindPrimitive && sameValue(p.last, val) {
		return nil
	}

	var items []any
	switch kind {
	case kindNull:
	case kindList:
		flat, err := p.flatten(val.([]any))
		if err != nil {
			return err
		}
		items = flat
	case kindPrimitive, kindTemplate, kindNode:
		items = []any{val}
	}

	old := p.entries
	if adopt {
		old = p.provisional()
	}
	if err := p.reconcile(old, items, adopt); err != nil {
		return err
	}

	p.lastKind = kind
	p.last = nil
	if kind == kindPrimitive {
		p.last = val
	}
	return nil
}

type flattenFrame struct {
	items []any
	next  int
}

// flatten expands nested lists and thunks into a flat list of primitives,
// results and nodes, using an explicit stack.
func (p *childPart) flatten(list []any) ([]any, error) {
	var out []any
	stack := []flattenFrame{{items: list}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.items) {
			stack = stack[:len(stack)-1]
			continue
		}
		item := top.items[top.next]
		top.next++

		kind, val := classify(item)
		switch kind {
		case kindNull:
		case kindPrimitive, kindTemplate, kindNode:
			out = append(out, val)
		case kindList, kindThunk:
			if p.r.maxDepth > 0 && len(stack) >= p.r.maxDepth {
				return nil, NewDepthExceededError(len(stack), p.r.maxDepth)
			}
			items, _ := val.([]any)
			if kind == kindThunk {
				items = []any{val.(Thunk)(p.start)}
			}
			stack = append(stack, flattenFrame{items: items})
		default:
			p.r.logger.Warn(LogMsgUnknownValue,
				zap.String(LogFieldValueType, typeName(val)),
				zap.Any(LogFieldValue, val))
		}
	}
	return out, nil
}

// provisional turns server-rendered region content into entries the next
// reconcile can adopt.
func (p *childPart) provisional() []*childEntry {
	groups := internal.SplitGroups(internal.RegionContent(p.start, p.end))
	entries := make([]*childEntry, 0, len(groups))
	for i := 0; i < len(groups); i++ {
		g := groups[i]
		switch {
		case internal.IsScopeGroup(g):
			entries = append(entries, &childEntry{kind: entryTemplate, scope: g})
		case internal.IsTextMarker(g[0]):
			e := &childEntry{kind: entryText, anchor: g[0]}
			if i+1 < len(groups) && groups[i+1][0].Type == html.TextNode {
				i++
				e.node = groups[i][0]
			}
			entries = append(entries, e)
		case g[0].Type == html.TextNode:
			entries = append(entries, &childEntry{kind: entryText, node: g[0]})
		default:
			for _, n := range g {
				entries = append(entries, &childEntry{kind: entryNode, node: n})
			}
		}
	}
	return entries
}

func (p *childPart) reconcile(old []*childEntry, items []any, adopt bool) error {
	oldGroups := make([]internal.Group, len(old))
	for i, e := range old {
		oldGroups[i] = e.group()
	}

	next := make([]*childEntry, len(items))
	for i, item := range items {
		var prev *childEntry
		if i < len(old) {
			prev = old[i]
		}
		e, err := p.entryFor(prev, item, i > 0 && isTextItem(items[i-1]), adopt)
		if err != nil {
			return err
		}
		next[i] = e
	}

	kept := make(map[*instance]struct{}, len(next))
	for _, e := range next {
		if e.inst != nil {
			kept[e.inst] = struct{}{}
		}
	}
	for _, e := range old {
		if e.inst != nil {
			if _, ok := kept[e.inst]; !ok {
				e.inst.detach()
			}
		}
	}

	nextGroups := make([]internal.Group, len(next))
	for i, e := range next {
		nextGroups[i] = e.group()
	}
	p.r.doc.Reconcile(p.end.Parent, oldGroups, nextGroups, p.end)
	p.entries = next
	return nil
}

// isTextItem reports whether a flattened item renders as text.
func isTextItem(item any) bool {
	switch item.(type) {
	case *Result, *html.Node:
		return false
	}
	return true
}

func (p *childPart) entryFor(prev *childEntry, item any, afterText, adopt bool) (*childEntry, error) {
	switch v := item.(type) {
	case *Result:
		if prev != nil && prev.kind == entryTemplate {
			if prev.inst != nil && prev.inst.tmpl == v.tmpl {
				return prev, prev.inst.update(v.values)
			}
			if prev.inst == nil && adopt {
				inst, err := p.r.hydrateInstance(v.tmpl, prev.scope, p.depth+1)
				switch {
				case err == nil:
					return &childEntry{kind: entryTemplate, inst: inst}, inst.update(v.values)
				case !errors.Is(err, errHydrationMismatch):
					return nil, err
				}
				p.r.logger.Debug(LogMsgHydrateMismatch, zap.Uint64(LogFieldTemplateID, v.tmpl.id))
			}
		}
		inst, err := p.r.newInstance(v.tmpl, p.depth+1)
		if err != nil {
			return nil, err
		}
		if err := inst.update(v.values); err != nil {
			return nil, err
		}
		return &childEntry{kind: entryTemplate, inst: inst}, nil

	case *html.Node:
		if prev != nil && prev.kind == entryNode && prev.node == v {
			return prev, nil
		}
		return &childEntry{kind: entryNode, node: v}, nil

	default:
		s := stringify(v)
		anchored := needsTextMarker(afterText, s)
		if prev != nil && prev.kind == entryText && (prev.anchor != nil) == anchored && (prev.node != nil) == (s != "") {
			if prev.node != nil && prev.node.Data != s {
				p.r.doc.SetText(prev.node, s)
			}
			return prev, nil
		}
		e := &childEntry{kind: entryText}
		if anchored {
			e.anchor = p.r.doc.CreateComment(internal.TextMarker)
		}
		if s != "" {
			e.node = p.r.doc.CreateText(s)
		}
		return e, nil
	}
}

func (p *childPart) commitDirective(d Directive, adopt bool) error {
	if p.dctx == nil {
		var content []*html.Node
		if adopt {
			content = internal.RegionContent(p.start, p.end)
		} else if err := p.reconcile(p.entries, nil, false); err != nil {
			return err
		}
		p.entries = nil
		p.dctx = &DirectiveContext{
			Kind:      PartKindChild,
			Start:     p.start,
			End:       p.end,
			Hydrating: len(content) > 0,
			doc:       p.r.doc,
			content:   content,
		}
	}
	err := d.Apply(p.dctx)
	p.dctx.Hydrating = false
	p.last, p.lastKind = nil, kindDirective
	if err != nil {
		p.r.logger.Debug(LogMsgDirectiveFailed, zap.Error(err))
	}
	return err
}

func (p *childPart) detach() {
	for _, e := range p.entries {
		if e.inst != nil {
			e.inst.detach()
		}
	}
}
