package domparts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-domparts/internal"
)

// Error message constants - ALL error messages must be constants
const (
	ErrMsgCompileFailed       = "template compilation failed"
	ErrMsgShapeMismatch       = "template shape mismatch"
	ErrMsgValueCount          = "value count does not match template placeholders"
	ErrMsgDirectiveContract   = "value at a directive position is not a directive"
	ErrMsgDirectivePosition   = "directive does not support this position"
	ErrMsgDepthExceeded       = "maximum template nesting depth exceeded"
	ErrMsgNilTemplate         = "template result has no template"
	ErrMsgNilContainer        = "container node is nil"
	ErrMsgUnsupportedRoot     = "render accepts a *Result, a markup string, safehtml.HTML or nil"
	ErrMsgRenderFailed        = "render failed"
	ErrMsgParseMarkupFailed   = "markup parsing failed"
	ErrMsgConfigReadFailed    = "failed to read configuration"
	ErrMsgConfigParseFailed   = "failed to parse configuration"
	ErrMsgConfigInvalidLevel  = "invalid log level"
	ErrMsgConfigInvalidDepth  = "max depth must not be negative"
	ErrMsgConfigInvalidFormat = "log format must be json or console"
	ErrMsgConfigBuildLogger   = "failed to build logger"
)

// Error code constants for categorization
const (
	ErrCodeCompile   = "DOMPARTS_COMPILE"
	ErrCodeShape     = "DOMPARTS_SHAPE"
	ErrCodeDirective = "DOMPARTS_DIRECTIVE"
	ErrCodeRender    = "DOMPARTS_RENDER"
	ErrCodeConfig    = "DOMPARTS_CONFIG"
)

// NewCompileError wraps a compiler failure with the template diagnostics.
func NewCompileError(t *Template, cause error) error {
	err := cuserr.WrapStdError(cause, ErrCodeCompile, ErrMsgCompileFailed).
		WithMetadata(MetaKeyCode, ErrCodeCompile).
		WithMetadata(MetaKeyTemplateID, templateID(t)).
		WithMetadata(MetaKeyStrings, quoteStrings(t))

	var ce *internal.CompileError
	if errors.As(cause, &ce) {
		err = err.
			WithMetadata(MetaKeyLine, strconv.Itoa(ce.Position.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(ce.Position.Column)).
			WithMetadata(MetaKeyOffset, strconv.Itoa(ce.Position.Offset)).
			WithMetadata(MetaKeyTemplate, ce.Source)
	}
	return err
}

// NewShapeMismatchError reports that placeholders, recovered parts and
// values do not line up. compiled is the computed template markup.
func NewShapeMismatchError(t *Template, compiled string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeShape, ErrMsgShapeMismatch)
	} else {
		err = cuserr.NewValidationError(ErrCodeShape, ErrMsgShapeMismatch)
	}
	err = err.
		WithMetadata(MetaKeyCode, ErrCodeShape).
		WithMetadata(MetaKeyTemplateID, templateID(t)).
		WithMetadata(MetaKeyStrings, quoteStrings(t)).
		WithMetadata(MetaKeyTemplate, compiled)

	var se *internal.ShapeError
	if errors.As(cause, &se) {
		err = err.
			WithMetadata(MetaKeyExpected, strconv.Itoa(se.Expected)).
			WithMetadata(MetaKeyActual, strconv.Itoa(se.Actual))
		if se.Index >= 0 {
			err = err.WithMetadata(MetaKeyIndex, strconv.Itoa(se.Index))
		}
	}
	return err
}

// NewValueCountError reports a result whose value count differs from its
// template's placeholder count.
func NewValueCountError(t *Template, expected, actual int) error {
	return cuserr.NewValidationError(ErrCodeShape, ErrMsgValueCount).
		WithMetadata(MetaKeyCode, ErrCodeShape).
		WithMetadata(MetaKeyTemplateID, templateID(t)).
		WithMetadata(MetaKeyStrings, quoteStrings(t)).
		WithMetadata(MetaKeyExpected, strconv.Itoa(expected)).
		WithMetadata(MetaKeyActual, strconv.Itoa(actual))
}

// NewDirectiveContractError reports a non-directive value at a directive position.
func NewDirectiveContractError(index int, value any) error {
	return cuserr.NewValidationError(ErrCodeDirective, ErrMsgDirectiveContract).
		WithMetadata(MetaKeyCode, ErrCodeDirective).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index)).
		WithMetadata(MetaKeyValueType, fmt.Sprintf("%T", value))
}

// NewDirectivePositionError reports a directive used where it cannot work.
func NewDirectivePositionError(kind PartKind, directive any) error {
	return cuserr.NewValidationError(ErrCodeDirective, ErrMsgDirectivePosition).
		WithMetadata(MetaKeyCode, ErrCodeDirective).
		WithMetadata(MetaKeyPartType, kind.String()).
		WithMetadata(MetaKeyValueType, fmt.Sprintf("%T", directive))
}

// NewDepthExceededError reports template nesting beyond the configured limit.
func NewDepthExceededError(current, max int) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgDepthExceeded).
		WithMetadata(MetaKeyCode, ErrCodeRender).
		WithMetadata(MetaKeyCurrentDepth, strconv.Itoa(current)).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(max))
}

// NewRenderError wraps an unexpected failure during rendering.
func NewRenderError(msg string, cause error) error {
	if cause == nil {
		return cuserr.NewValidationError(ErrCodeRender, msg).WithMetadata(MetaKeyCode, ErrCodeRender)
	}
	return cuserr.WrapStdError(cause, ErrCodeRender, msg).WithMetadata(MetaKeyCode, ErrCodeRender)
}

// NewUnsupportedValueError reports a value Render cannot mount.
func NewUnsupportedValueError(value any) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgUnsupportedRoot).
		WithMetadata(MetaKeyCode, ErrCodeRender).
		WithMetadata(MetaKeyValueType, fmt.Sprintf("%T", value))
}

// NewConfigError wraps a configuration failure.
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	err = err.WithMetadata(MetaKeyCode, ErrCodeConfig)
	if path != "" {
		err = err.WithMetadata(MetaKeyPath, path)
	}
	return err
}

// IsShapeMismatch reports whether err is a template shape mismatch.
func IsShapeMismatch(err error) bool {
	return hasCode(err, ErrCodeShape)
}

// IsDirectiveError reports whether err is a directive contract violation.
func IsDirectiveError(err error) bool {
	return hasCode(err, ErrCodeDirective)
}

func hasCode(err error, code string) bool {
	var ce *cuserr.CustomError
	if !errors.As(err, &ce) {
		return false
	}
	got, ok := ce.GetMetadata(MetaKeyCode)
	return ok && got == code
}

func templateID(t *Template) string {
	if t == nil {
		return ""
	}
	return strconv.FormatUint(t.id, 10)
}

func quoteStrings(t *Template) string {
	if t == nil {
		return ""
	}
	quoted := make([]string, len(t.strings))
	for i, s := range t.strings {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
