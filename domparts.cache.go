package domparts

import (
	"errors"
	"sync"

	"github.com/itsatony/go-domparts/internal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// clientEntry is the cached client-side form of a template: the parsed
// fragment that instances clone and the descriptors replayed against each
// clone. Both are read-only once built.
type clientEntry struct {
	once        sync.Once
	markup      string
	fragment    []*html.Node
	descriptors []internal.PartDescriptor
	err         error
}

// serverEntry is the cached string-rendering program of a template.
type serverEntry struct {
	once    sync.Once
	markup  string
	program []internal.Op
	err     error
}

// templateCache holds both caches, keyed by template id. Each entry is
// built exactly once; concurrent readers wait for the build.
type templateCache struct {
	compiler *internal.Compiler
	logger   *zap.Logger
	metrics  *engineMetrics

	mu      sync.RWMutex
	clients map[uint64]*clientEntry
	servers map[uint64]*serverEntry
}

func newTemplateCache(logger *zap.Logger, metrics *engineMetrics) *templateCache {
	return &templateCache{
		compiler: internal.NewCompiler(logger),
		logger:   logger,
		metrics:  metrics,
		clients:  make(map[uint64]*clientEntry),
		servers:  make(map[uint64]*serverEntry),
	}
}

// client returns the client entry for t, building it on first use.
func (c *templateCache) client(t *Template) (*clientEntry, error) {
	c.mu.RLock()
	e, ok := c.clients[t.id]
	c.mu.RUnlock()
	if !ok {
		c.mu.Lock()
		if e, ok = c.clients[t.id]; !ok {
			e = &clientEntry{}
			c.clients[t.id] = e
		}
		c.mu.Unlock()
	}
	c.metrics.cacheLookup(CacheClient, ok)

	e.once.Do(func() {
		c.logger.Debug(LogMsgCacheBuild, zap.Uint64(LogFieldTemplateID, t.id), zap.String(LogFieldCache, CacheClient))
		e.markup, e.fragment, e.descriptors, e.err = c.buildClient(t)
	})
	return e, e.err
}

func (c *templateCache) buildClient(t *Template) (string, []*html.Node, []internal.PartDescriptor, error) {
	compiled, err := c.compiler.Compile(t.strings, false)
	if err != nil {
		return "", nil, nil, compileFailure(t, err)
	}
	fragment, err := internal.ParseFragment(compiled.HTML)
	if err != nil {
		return compiled.HTML, nil, nil, NewRenderError(ErrMsgParseMarkupFailed, err)
	}
	if err := internal.CheckScopeClosed(fragment); err != nil {
		return compiled.HTML, nil, nil, NewShapeMismatchError(t, compiled.HTML, err)
	}
	// Descriptors come from a throwaway clone so the cached fragment is
	// never touched by the walk.
	scratch := internal.NewDocument(nil).CloneNodes(fragment)
	descriptors, err := internal.BuildDescriptors(scratch, compiled.Placeholders, c.logger)
	if err != nil {
		return compiled.HTML, nil, nil, NewShapeMismatchError(t, compiled.HTML, err)
	}
	return compiled.HTML, fragment, descriptors, nil
}

// server returns the server entry for t, building it on first use.
func (c *templateCache) server(t *Template) (*serverEntry, error) {
	c.mu.RLock()
	e, ok := c.servers[t.id]
	c.mu.RUnlock()
	if !ok {
		c.mu.Lock()
		if e, ok = c.servers[t.id]; !ok {
			e = &serverEntry{}
			c.servers[t.id] = e
		}
		c.mu.Unlock()
	}
	c.metrics.cacheLookup(CacheServer, ok)

	e.once.Do(func() {
		c.logger.Debug(LogMsgCacheBuild, zap.Uint64(LogFieldTemplateID, t.id), zap.String(LogFieldCache, CacheServer))
		compiled, err := c.compiler.Compile(t.strings, true)
		if err != nil {
			e.err = compileFailure(t, err)
			return
		}
		e.markup = compiled.HTML
		if e.err = checkServerScope(t, compiled.HTML); e.err != nil {
			return
		}
		e.program, err = internal.ParseProgram(compiled.HTML, compiled.Placeholders)
		if err != nil {
			e.err = NewShapeMismatchError(t, compiled.HTML, err)
		}
	})
	return e, e.err
}

// forget drops both entries for t. Returns whether anything was cached.
func (c *templateCache) forget(t *Template) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, hadClient := c.clients[t.id]
	_, hadServer := c.servers[t.id]
	delete(c.clients, t.id)
	delete(c.servers, t.id)
	return hadClient || hadServer
}

// size returns the number of client and server entries.
func (c *templateCache) size() (client, server int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients), len(c.servers)
}

func compileFailure(t *Template, err error) error {
	var se *internal.ShapeError
	if errors.As(err, &se) {
		return NewShapeMismatchError(t, "", err)
	}
	return NewCompileError(t, err)
}

// checkServerScope parses the server markup the way a browser would and
// rejects templates whose scope the client could not mount.
func checkServerScope(t *Template, markup string) error {
	roots, err := internal.ParseFragment(markup)
	if err != nil {
		return NewRenderError(ErrMsgParseMarkupFailed, err)
	}
	if err := internal.CheckScopeClosed(roots); err != nil {
		return NewShapeMismatchError(t, markup, err)
	}
	return nil
}
