package internal

// PartType identifies what kind of binding a placeholder represents
type PartType string

// Part type constants. The string values are part of the wire format used in
// SSR placeholders and must not change.
const (
	PartTypeNode      PartType = "node"
	PartTypeAttribute PartType = "attribute"
	PartTypeRawText   PartType = "raw-text-node"
	PartTypeDirective PartType = "directive"
)

// Valid reports whether the part type is one of the known types
func (t PartType) Valid() bool {
	switch t {
	case PartTypeNode, PartTypeAttribute, PartTypeRawText, PartTypeDirective:
		return true
	default:
		return false
	}
}

// Sentinel characters. Boundary marks an interpolation in the joined template
// source and in attribute marker values; CommentSentinel replaces it inside
// raw-text marker comments.
const (
	Boundary        = "\x03"
	BoundaryByte    = '\x03'
	CommentSentinel = "\x02"
)

// Marker protocol literals
const (
	MarkerPrefix          = "dom-part-"
	MarkerClosePrefix     = "/"
	ScopeMarker           = "template-part"
	ScopeEndMarker        = MarkerClosePrefix + ScopeMarker
	TextMarker            = MarkerPrefix + "text"
	RawMarkerSeparator    = ":raw="
	DirectiveMarkerSuffix = "-directive"
	AttrMarkerSeparator   = "="
	PlaceholderOpen       = "{{dom-part?"
	PlaceholderClose      = "}}"
)

// Placeholder query keys
const (
	QueryKeyType  = "type"
	QueryKeyIndex = "index"
	QueryKeyCount = "count"
	QueryKeyName  = "name"
	QueryKeyText  = "text"
	QueryKeyTag   = "tag"
)

// Attribute name sigils
const (
	SigilBoolean  = "?"
	SigilProperty = "."
	SigilEvent    = "@"
	PrefixEvent   = "on"
)

// Raw-text element names. Their content cannot hold comment nodes.
const (
	TagScript   = "script"
	TagStyle    = "style"
	TagTextarea = "textarea"
	TagTitle    = "title"
	TagTemplate = "template"
)

// Character constants used by the compiler scanner
const (
	CharLess        = '<'
	CharGreater     = '>'
	CharSlash       = '/'
	CharEquals      = '='
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharBang        = '!'
)

// String constants used by the compiler scanner
const (
	StrCommentOpen  = "<!--"
	StrCommentClose = "-->"
	StrCloseTagOpen = "</"
	StrSelfClose    = "/>"
)

// Log message constants
const (
	LogMsgCompileStart        = "starting template compile"
	LogMsgCompileEnd          = "template compile complete"
	LogMsgDescriptorsBuilt    = "part descriptors built"
	LogMsgReconcileNotChild   = "node is not a child of the expected parent, skipping"
	LogMsgReconcileMissingRef = "reference node detached, inserting before anchor"
	LogMsgDocumentCreated     = "document created"
)

// Log field names
const (
	LogFieldSource       = "source_length"
	LogFieldPlaceholders = "placeholder_count"
	LogFieldParts        = "part_count"
	LogFieldNodeType     = "node_type"
	LogFieldNodeData     = "node_data"
	LogFieldOperation    = "operation"
	LogFieldSSR          = "ssr"
)

// Error message constants
const (
	ErrMsgBindingInComment     = "bindings inside comments are not supported"
	ErrMsgBindingInCloseTag    = "bindings inside closing tags are not supported"
	ErrMsgBindingInAttrName    = "bindings inside attribute names are not supported"
	ErrMsgBindingInTagName     = "bindings inside tag names are not supported"
	ErrMsgUnterminatedTag      = "unterminated tag"
	ErrMsgUnterminatedComment  = "unterminated comment"
	ErrMsgUnterminatedRawText  = "unterminated raw-text element"
	ErrMsgUnterminatedAttr     = "unterminated attribute value"
	ErrMsgPlaceholderMalformed = "malformed placeholder"
	ErrMsgPlaceholderUnclosed  = "unclosed placeholder"
	ErrMsgPartCountMismatch    = "recovered parts do not match the template placeholders"
	ErrMsgPartMissing          = "placeholder has no bound part"
	ErrMsgPartDuplicate        = "placeholder bound more than once"
	ErrMsgNotChild             = "node is not a child of the given parent"
	ErrMsgPathInvalid          = "part path does not resolve"
	ErrMsgScopeUnclosed        = "template leaves an element open"
)

// Operation names used for mutation statistics and logging
const (
	OpCreate     = "create"
	OpInsert     = "insert"
	OpRemove     = "remove"
	OpSetAttr    = "set_attribute"
	OpRemoveAttr = "remove_attribute"
	OpSetText    = "set_text"
)
