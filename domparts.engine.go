package domparts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/safehtml"
	"github.com/itsatony/go-domparts/internal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Document owns the out-of-markup state of rendered trees: properties,
// event listeners and mutation statistics.
type Document = internal.Document

// Event is delivered to listeners bound with event attributes.
type Event = internal.Event

// Listener handles a dispatched event.
type Listener = internal.Listener

// MutationStats counts DOM mutations performed by an engine.
type MutationStats = internal.MutationStats

// rootState is what the engine remembers about a container it rendered into.
type rootState struct {
	inst *instance
}

// Engine renders templates into html.Node trees and to strings. Client
// renders are serialized by the engine; string rendering only reads the
// template caches and may run concurrently.
type Engine struct {
	config   *engineConfig
	logger   *zap.Logger
	doc      *Document
	cache    *templateCache
	metrics  *engineMetrics
	tracer   trace.Tracer
	renderer *renderer

	mu    sync.Mutex // guards roots and every DOM mutation
	roots map[*html.Node]*rootState
}

// New creates a new Engine with the given options.
// Registering two engines with the same Prometheus registerer panics, as
// with any duplicate collector.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.maxDepth < 0 {
		return nil, NewConfigError(ErrMsgConfigInvalidDepth, "", nil)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := newEngineMetrics(config.registerer, config.metricsNamespace)
	doc := config.document
	if doc == nil {
		doc = internal.NewDocument(logger)
	}
	if metrics != nil {
		doc.SetObserver(metrics.mutation)
	}

	tp := config.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	cache := newTemplateCache(logger, metrics)
	e := &Engine{
		config:  config,
		logger:  logger,
		doc:     doc,
		cache:   cache,
		metrics: metrics,
		tracer:  tp.Tracer(DefaultTracerName),
		roots:   make(map[*html.Node]*rootState),
		renderer: &renderer{
			doc:      doc,
			logger:   logger,
			cache:    cache,
			maxDepth: config.maxDepth,
		},
	}

	logger.Debug(LogMsgEngineCreated, zap.Int(LogFieldDepth, config.maxDepth))
	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Document returns the document the engine mutates through.
func (e *Engine) Document() *Document {
	return e.doc
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Render mounts value into container or updates what a previous call
// mounted there. value is a *Result, a markup string or a safehtml.HTML;
// strings replace the container's content without any bindings. nil clears
// the container.
func (e *Engine) Render(value any, container *html.Node) error {
	return e.RenderContext(context.Background(), value, container)
}

// RenderContext is Render with a context for tracing.
func (e *Engine) RenderContext(ctx context.Context, value any, container *html.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, span := e.tracer.Start(ctx, SpanRender, trace.WithAttributes(
		attribute.String(AttrKeyMode, ModeClient),
	))
	defer span.End()

	start := time.Now()
	err := e.render(value, container, span)
	e.metrics.observeRender(ModeClient, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (e *Engine) render(value any, container *html.Node, span trace.Span) error {
	if container == nil {
		return NewRenderError(ErrMsgNilContainer, nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch v := value.(type) {
	case nil:
		e.dropRoot(container)
		e.doc.ReplaceChildren(container, nil)
		return nil
	case string:
		return e.renderMarkup(v, container)
	case safehtml.HTML:
		return e.renderMarkup(v.String(), container)
	case *Result:
		if v == nil || v.tmpl == nil {
			return NewRenderError(ErrMsgNilTemplate, nil)
		}
		span.SetAttributes(
			attribute.Int64(AttrKeyTemplateID, int64(v.tmpl.id)),
			attribute.Int(AttrKeyValueCount, len(v.values)),
		)
		e.logger.Debug(LogMsgRenderStart, zap.Uint64(LogFieldTemplateID, v.tmpl.id), zap.Int(LogFieldValues, len(v.values)))
		if err := e.renderResult(v, container); err != nil {
			return err
		}
		e.logger.Debug(LogMsgRenderEnd, zap.Uint64(LogFieldTemplateID, v.tmpl.id))
		return nil
	default:
		return NewUnsupportedValueError(value)
	}
}

func (e *Engine) renderMarkup(markup string, container *html.Node) error {
	e.logger.Debug(LogMsgRenderString, zap.Int(LogFieldBytes, len(markup)))
	nodes, err := e.doc.ParseHTML(markup)
	if err != nil {
		return NewRenderError(ErrMsgParseMarkupFailed, err)
	}
	e.dropRoot(container)
	e.doc.ReplaceChildren(container, nodes)
	return nil
}

func (e *Engine) renderResult(r *Result, container *html.Node) error {
	st := e.roots[container]
	if st != nil && st.inst.tmpl == r.tmpl {
		return st.inst.update(r.values)
	}

	if st == nil {
		if g := internal.FindScope(container); g != nil {
			inst, err := e.renderer.hydrateInstance(r.tmpl, g, 1)
			switch {
			case err == nil:
				e.logger.Debug(LogMsgHydrateRoot, zap.Uint64(LogFieldTemplateID, r.tmpl.id))
				e.roots[container] = &rootState{inst: inst}
				return inst.update(r.values)
			case !errors.Is(err, errHydrationMismatch):
				return err
			}
			e.logger.Debug(LogMsgHydrateMismatch, zap.Uint64(LogFieldTemplateID, r.tmpl.id))
		}
	}

	inst, err := e.renderer.newInstance(r.tmpl, 1)
	if err != nil {
		return err
	}
	if err := inst.update(r.values); err != nil {
		return err
	}

	if st != nil {
		old := st.inst.group()
		st.inst.detach()
		e.doc.Reconcile(container, []internal.Group{old}, []internal.Group{inst.group()}, nil)
	} else {
		e.doc.ReplaceChildren(container, inst.group())
	}
	e.roots[container] = &rootState{inst: inst}
	return nil
}

func (e *Engine) dropRoot(container *html.Node) *rootState {
	st, ok := e.roots[container]
	if !ok {
		return nil
	}
	st.inst.detach()
	delete(e.roots, container)
	return st
}

// Unmount removes what Render mounted into container and forgets its
// bindings. Returns false when nothing was mounted.
func (e *Engine) Unmount(container *html.Node) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.dropRoot(container)
	if st == nil {
		return false
	}
	e.doc.RemoveGroups(container, []internal.Group{st.inst.group()})
	e.logger.Debug(LogMsgUnmount, zap.Uint64(LogFieldTemplateID, st.inst.tmpl.id))
	return true
}

// Forget drops the cached fragment, descriptors and string program of t.
// Mounted instances keep working and update in place without the cache; the
// next new instance or ToString of t rebuilds it.
func (e *Engine) Forget(t *Template) bool {
	dropped := e.cache.forget(t)
	if dropped {
		e.logger.Debug(LogMsgCacheForget, zap.Uint64(LogFieldTemplateID, t.id))
	}
	return dropped
}

// CachedTemplates returns the number of client and server cache entries.
func (e *Engine) CachedTemplates() (client, server int) {
	return e.cache.size()
}

// ToString renders r to markup that Render later adopts without rebuilding.
func (e *Engine) ToString(r *Result) (string, error) {
	return e.ToStringContext(context.Background(), r)
}

// ToStringContext is ToString with a context for tracing.
func (e *Engine) ToStringContext(ctx context.Context, r *Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r == nil || r.tmpl == nil {
		return "", NewRenderError(ErrMsgNilTemplate, nil)
	}
	_, span := e.tracer.Start(ctx, SpanToString, trace.WithAttributes(
		attribute.String(AttrKeyMode, ModeServer),
		attribute.Int64(AttrKeyTemplateID, int64(r.tmpl.id)),
		attribute.Int(AttrKeyValueCount, len(r.values)),
	))
	defer span.End()

	e.logger.Debug(LogMsgToStringStart, zap.Uint64(LogFieldTemplateID, r.tmpl.id))
	start := time.Now()
	out, err := e.serialize(r)
	e.metrics.observeRender(ModeServer, start, err)
	if err != nil {
		e.logger.Debug(LogMsgToStringFailed, zap.Uint64(LogFieldTemplateID, r.tmpl.id), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetStatus(codes.Ok, "")
	e.logger.Debug(LogMsgToStringEnd, zap.Uint64(LogFieldTemplateID, r.tmpl.id), zap.Int(LogFieldBytes, len(out)))
	return out, nil
}

var defaultEngine atomic.Pointer[Engine]

// Default returns the package-level engine, creating it on first use.
func Default() *Engine {
	if e := defaultEngine.Load(); e != nil {
		return e
	}
	defaultEngine.CompareAndSwap(nil, MustNew())
	return defaultEngine.Load()
}

// SetDefault replaces the package-level engine.
func SetDefault(e *Engine) {
	defaultEngine.Store(e)
}

// Render mounts value into container with the default engine.
func Render(value any, container *html.Node) error {
	return Default().Render(value, container)
}

// ToString renders r to markup with the default engine.
func ToString(r *Result) (string, error) {
	return Default().ToString(r)
}
