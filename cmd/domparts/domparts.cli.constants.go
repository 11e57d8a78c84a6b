package main

// Command names
const (
	CmdNameCompile = "compile"
	CmdNameRender  = "render"
	CmdNameStrip   = "strip"
	CmdNameInspect = "inspect"
	CmdNameVersion = "version"
)

// Flag names - long form
const (
	FlagConfig   = "config"
	FlagTemplate = "template"
	FlagValues   = "values"
	FlagInput    = "input"
	FlagOutput   = "output"
	FlagFormat   = "format"
	FlagSSR      = "ssr"
	FlagClient   = "client"
	FlagStrip    = "strip"
)

// Flag names - short form
const (
	FlagConfigShort   = "c"
	FlagTemplateShort = "t"
	FlagValuesShort   = "f"
	FlagInputShort    = "i"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultInput  = "-" // stdin
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess       = 0
	ExitCodeError         = 1
	ExitCodeUsageError    = 2
	ExitCodeTemplateError = 3
	ExitCodeInputError    = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Template source syntax
const (
	PlaceholderOpen  = "${"
	PlaceholderClose = "}"
)

// Values file keys
const (
	ValueKeyHTML = "html" // {html: "<b>x</b>"} binds markup without escaping
)

// Error messages - ALL must be constants
const (
	ErrMsgUsage              = "invalid usage"
	ErrMsgMissingTemplate    = "template source required"
	ErrMsgReadFileFailed     = "failed to read file"
	ErrMsgReadStdinFailed    = "failed to read from stdin"
	ErrMsgWriteOutputFailed  = "failed to write output"
	ErrMsgCompileFailed      = "template compilation failed"
	ErrMsgRenderFailed       = "template rendering failed"
	ErrMsgStripFailed        = "marker stripping failed"
	ErrMsgInspectFailed      = "marker inspection failed"
	ErrMsgInvalidFormat      = "invalid output format"
	ErrMsgInvalidValues      = "invalid values file"
	ErrMsgLoadConfigFailed   = "failed to load configuration"
	ErrMsgCreateEngineFailed = "failed to create engine"
	ErrMsgJSONMarshalFailed  = "failed to marshal JSON"
	ErrMsgUnclosedName       = "unclosed placeholder name"
	ErrMsgEmptyName          = "empty placeholder name"
)

// Help texts
const (
	HelpRootShort = "Compile, render and inspect DOM part templates"
	HelpRootLong  = `domparts compiles HTML templates with ${name} placeholders into
marker-annotated markup, renders them to strings and inspects or strips
the markers of rendered output.`

	HelpCompileShort = "Print the compiled markup of a template"
	HelpCompileLong  = `Print the markup a template compiles to. Client markup carries the
marker comments and attributes; --ssr markup additionally carries the
{{dom-part?...}} placeholders the string renderer fills in.

Examples:
    domparts compile -t card.html
    domparts compile -t card.html --ssr`

	HelpRenderShort = "Render a template with values from a YAML file"
	HelpRenderLong  = `Render a template to markup. Values are read from a YAML mapping keyed
by placeholder name. Lists render as repeated content; a mapping of the
form {html: "<b>x</b>"} is inserted without escaping.

Examples:
    domparts render -t card.html -f values.yaml
    domparts render -t card.html -f values.yaml --client
    cat card.html | domparts render -t - -f values.yaml --strip`

	HelpStripShort = "Remove part markers from markup"
	HelpStripLong  = `Remove marker comments and marker attributes from rendered markup.

Examples:
    domparts strip -i page.html
    domparts render -t card.html -f values.yaml | domparts strip`

	HelpInspectShort = "List the marker regions of markup"
	HelpInspectLong  = `List the marker regions of rendered markup and whether each one
already holds content.

Examples:
    domparts inspect -i page.html
    domparts inspect -i page.html -F json`

	HelpVersionShort = "Show version information"

	HelpFlagConfig   = "engine configuration file (YAML)"
	HelpFlagTemplate = "template file (use \"-\" for stdin)"
	HelpFlagValues   = "values file (YAML)"
	HelpFlagInput    = "markup file (use \"-\" for stdin)"
	HelpFlagOutput   = "output file (default: stdout)"
	HelpFlagFormat   = "output format: text, json"
	HelpFlagSSR      = "print string-render markup with placeholders"
	HelpFlagClient   = "render through the client DOM instead of the string renderer"
	HelpFlagStrip    = "remove part markers from the output"
)

// Version output format templates
const (
	VersionTextTemplate = "go-domparts version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Inspect output format templates
const (
	InspectTextEmpty  = "no marker regions"
	InspectTextRegion = "%-24s index=%d depth=%d nodes=%d closed=%t prerendered=%t"
)

// CLI metadata
const (
	CLIName = "domparts"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithCause = "%s: %v\n"
	FmtNewline        = "\n"
)
