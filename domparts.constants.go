package domparts

// Default configuration values
const (
	DefaultMaxDepth         = 64
	DefaultMetricsNamespace = "domparts"
	DefaultTracerName       = "github.com/itsatony/go-domparts"
)

// Marker protocol literals, mirrored from the internal schema for callers
// that inspect rendered markup.
const (
	MarkerPrefix     = "dom-part-"
	ScopeMarker      = "template-part"
	PlaceholderQuery = "{{dom-part?"
)

// Attribute sigils
const (
	SigilBoolean  = "?"
	SigilProperty = "."
	SigilEvent    = "@"
	PrefixEvent   = "on"
)

// Boolean attribute string treated as false
const (
	AttrValueFalse = "false"
)

// Render modes used in metrics and spans
const (
	ModeClient = "client"
	ModeServer = "server"
)

// Cache names used in metrics
const (
	CacheClient = "client"
	CacheServer = "server"
)

// Cache lookup results used in metrics
const (
	CacheResultHit  = "hit"
	CacheResultMiss = "miss"
)

// Span names
const (
	SpanRender   = "domparts.Render"
	SpanToString = "domparts.ToString"
)

// Span attribute keys
const (
	AttrKeyTemplateID = "domparts.template_id"
	AttrKeyValueCount = "domparts.value_count"
	AttrKeyMode       = "domparts.mode"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyCode         = "code"
	MetaKeyTemplateID   = "template_id"
	MetaKeyTemplate     = "template"
	MetaKeyStrings      = "strings"
	MetaKeyExpected     = "expected"
	MetaKeyActual       = "actual"
	MetaKeyIndex        = "index"
	MetaKeyLine         = "line"
	MetaKeyColumn       = "column"
	MetaKeyOffset       = "offset"
	MetaKeyPartType     = "part_type"
	MetaKeyValueType    = "value_type"
	MetaKeyCurrentDepth = "current_depth"
	MetaKeyMaxDepth     = "max_depth"
	MetaKeyPath         = "path"
)

// Log message constants
const (
	LogMsgEngineCreated       = "engine created"
	LogMsgRenderStart         = "render started"
	LogMsgRenderEnd           = "render complete"
	LogMsgRenderString        = "rendering plain string content"
	LogMsgToStringStart       = "server render started"
	LogMsgToStringEnd         = "server render complete"
	LogMsgToStringFailed      = "server render failed"
	LogMsgCacheBuild          = "building template cache entry"
	LogMsgCacheForget         = "template cache entries dropped"
	LogMsgHydrateRoot         = "adopting server-rendered root region"
	LogMsgHydrateMismatch     = "hydration mismatch, rendering fresh"
	LogMsgUnknownValue        = "unsupported value type at content position, skipping"
	LogMsgUnknownServerValue  = "unsupported value type in server render, skipping"
	LogMsgDirectiveFailed     = "directive apply failed"
	LogMsgEventHandlerInvalid = "unsupported event handler type, listener cleared"
	LogMsgUnmount             = "container unmounted"
)

// Log field names
const (
	LogFieldTemplateID = "template_id"
	LogFieldValues     = "value_count"
	LogFieldValue      = "value"
	LogFieldValueType  = "value_type"
	LogFieldCache      = "cache"
	LogFieldDepth      = "depth"
	LogFieldBytes      = "bytes"
	LogFieldAttribute  = "attribute"
)
