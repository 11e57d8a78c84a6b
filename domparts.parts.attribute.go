package domparts

import (
	"strings"

	"github.com/itsatony/go-domparts/internal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// attrMode is decided once from the bound attribute name.
type attrMode int

const (
	attrPlain attrMode = iota
	attrBoolean
	attrProperty
	attrEvent
)

// EventHandler receives events from an event binding. Handlers implementing
// it are compared by identity, so re-binding the same handler is a no-op.
type EventHandler interface {
	HandleEvent(ev *Event)
}

// parseAttrName splits a bound attribute name into its mode and the key
// used on the element.
func parseAttrName(name string) (attrMode, string) {
	switch {
	case strings.HasPrefix(name, SigilBoolean):
		return attrBoolean, strings.ToLower(name[len(SigilBoolean):])
	case strings.HasPrefix(name, SigilProperty):
		return attrProperty, name[len(SigilProperty):]
	case strings.HasPrefix(name, SigilEvent):
		return attrEvent, name[len(SigilEvent):]
	case strings.HasPrefix(strings.ToLower(name), PrefixEvent):
		return attrEvent, strings.ToLower(name[len(PrefixEvent):])
	default:
		return attrPlain, strings.ToLower(name)
	}
}

// attributePart binds one attribute. Attributes with several interpolations
// share one part: sub-values are buffered and the attribute is written once,
// when the last of them arrives.
type attributePart struct {
	r     *renderer
	el    *html.Node
	name  string
	key   string
	mode  attrMode
	text  string
	count int
	buf   []any

	// memo
	present  bool
	last     string
	lastProp any
	hasProp  bool

	listener    internal.ListenerID
	hasListener bool
	handler     EventHandler

	dctx *DirectiveContext
}

func newAttributePart(r *renderer, el *html.Node, d internal.PartDescriptor) *attributePart {
	mode, key := parseAttrName(d.Name)
	p := &attributePart{
		r:     r,
		el:    el,
		name:  d.Name,
		key:   key,
		mode:  mode,
		text:  d.Text,
		count: max(d.Count, 1),
	}
	p.buf = make([]any, p.count)
	p.last, p.present = internal.GetAttr(el, key)
	return p
}

func (p *attributePart) setValue(slot int, v any) error {
	p.buf[slot] = v
	if slot < p.count-1 {
		return nil
	}
	return p.commit()
}

func (p *attributePart) commit() error {
	if p.count == 1 {
		if kind, val := classify(p.buf[0]); kind == kindDirective {
			return p.applyDirective(val.(Directive))
		}
	}
	p.dctx = nil

	switch p.mode {
	case attrBoolean:
		on := truthy(boundValue(p.text, p.buf))
		if on == p.present {
			return nil
		}
		if on {
			p.r.doc.SetAttr(p.el, p.key, "")
			p.last = ""
		} else {
			p.r.doc.RemoveAttr(p.el, p.key)
		}
		p.present = on

	case attrProperty:
		v := boundValue(p.text, p.buf)
		if p.hasProp && sameValue(v, p.lastProp) {
			return nil
		}
		p.r.doc.SetProperty(p.el, p.key, v)
		p.lastProp, p.hasProp = v, true

	case attrEvent:
		p.bindListener(p.buf[0])

	default:
		if p.count == 1 && p.buf[0] == nil {
			if p.present {
				p.r.doc.RemoveAttr(p.el, p.key)
				p.present = false
			}
			return nil
		}
		s := interpolate(p.text, p.buf)
		if p.present && s == p.last {
			return nil
		}
		p.r.doc.SetAttr(p.el, p.key, s)
		p.last, p.present = s, true
	}
	return nil
}

func (p *attributePart) bindListener(v any) {
	var fn internal.Listener
	var handler EventHandler
	switch h := v.(type) {
	case nil:
	case EventHandler:
		if p.hasListener && sameValue(p.handler, h) {
			return
		}
		handler = h
		fn = h.HandleEvent
	case func(*Event):
		fn = h
	case internal.Listener:
		fn = h
	case func():
		if h != nil {
			fn = func(*Event) { h() }
		}
	default:
		p.r.logger.Warn(LogMsgEventHandlerInvalid,
			zap.String(LogFieldAttribute, p.name),
			zap.String(LogFieldValueType, typeName(v)))
	}

	if p.hasListener {
		p.r.doc.RemoveEventListener(p.el, p.listener)
		p.hasListener = false
		p.handler = nil
	}
	if fn == nil {
		return
	}
	p.listener = p.r.doc.AddEventListener(p.el, p.key, fn)
	p.hasListener = true
	p.handler = handler
}

func (p *attributePart) applyDirective(d Directive) error {
	if p.dctx == nil {
		p.dctx = &DirectiveContext{
			Kind:      PartKindAttribute,
			Element:   p.el,
			Name:      p.name,
			Hydrating: p.present,
			doc:       p.r.doc,
		}
	}
	err := d.Apply(p.dctx)
	p.dctx.Hydrating = false
	p.last, p.present = internal.GetAttr(p.el, p.key)
	return err
}

func (p *attributePart) detach() {
	if p.hasListener {
		p.r.doc.RemoveEventListener(p.el, p.listener)
		p.hasListener = false
	}
}
