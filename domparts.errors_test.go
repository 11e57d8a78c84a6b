package domparts

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadata(t *testing.T, err error, key string) string {
	t.Helper()
	var ce *cuserr.CustomError
	require.True(t, errors.As(err, &ce), "expected *cuserr.CustomError, got %T", err)
	v, ok := ce.GetMetadata(key)
	require.True(t, ok, "missing metadata %q", key)
	return v
}

func TestCompileError_Metadata(t *testing.T) {
	e := newTestEngine(t)
	tmpl := NewTemplate(`<p`, `>`)

	err := e.Render(tmpl.With("x"), newBody())

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgCompileFailed)
	assert.Equal(t, ErrCodeCompile, metadata(t, err, MetaKeyCode))
	assert.Equal(t, "1", metadata(t, err, MetaKeyLine))
	assert.Equal(t, "3", metadata(t, err, MetaKeyColumn))
	assert.Equal(t, "2", metadata(t, err, MetaKeyOffset))
	assert.Equal(t, `["<p", ">"]`, metadata(t, err, MetaKeyStrings))
	assert.False(t, IsShapeMismatch(err))
}

func TestCompileError_Cached(t *testing.T) {
	e := newTestEngine(t)
	tmpl := NewTemplate(`<p>`, `</`, `>`)

	first := e.Render(tmpl.With("a", "p"), newBody())
	second := e.Render(tmpl.With("a", "p"), newBody())
	_, third := e.ToString(tmpl.With("a", "p"))

	require.Error(t, first)
	require.Error(t, second)
	require.Error(t, third)
	assert.Equal(t, first.Error(), second.Error())
	assert.Contains(t, third.Error(), ErrMsgCompileFailed)
}

func TestValueCountError_Metadata(t *testing.T) {
	e := newTestEngine(t)
	tmpl := NewTemplate(`<p>`, `</p>`)

	_, err := e.ToString(tmpl.With(1, 2, 3))

	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err))
	assert.Contains(t, err.Error(), ErrMsgValueCount)
	assert.Equal(t, "1", metadata(t, err, MetaKeyExpected))
	assert.Equal(t, "3", metadata(t, err, MetaKeyActual))
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name string
		err  error
		code string
		msg  string
	}{
		{"render with cause", NewRenderError(ErrMsgRenderFailed, cause), ErrCodeRender, ErrMsgRenderFailed},
		{"render", NewRenderError(ErrMsgNilContainer, nil), ErrCodeRender, ErrMsgNilContainer},
		{"unsupported", NewUnsupportedValueError(3.5), ErrCodeRender, ErrMsgUnsupportedRoot},
		{"config", NewConfigError(ErrMsgConfigReadFailed, "/x.yaml", cause), ErrCodeConfig, ErrMsgConfigReadFailed},
		{"depth", NewDepthExceededError(5, 4), ErrCodeRender, ErrMsgDepthExceeded},
		{"directive position", NewDirectivePositionError(PartKindRawText, nil), ErrCodeDirective, ErrMsgDirectivePosition},
		{"shape", NewShapeMismatchError(nil, "", nil), ErrCodeShape, ErrMsgShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.msg)
			assert.Equal(t, tt.code, metadata(t, tt.err, MetaKeyCode))
		})
	}

	assert.ErrorIs(t, NewRenderError(ErrMsgRenderFailed, cause), cause)
	assert.Equal(t, "/x.yaml", metadata(t, NewConfigError(ErrMsgConfigReadFailed, "/x.yaml", cause), MetaKeyPath))
	assert.Equal(t, "float64", metadata(t, NewUnsupportedValueError(3.5), MetaKeyValueType))
	assert.Equal(t, "raw-text", metadata(t, NewDirectivePositionError(PartKindRawText, nil), MetaKeyPartType))
	assert.Equal(t, "5", metadata(t, NewDepthExceededError(5, 4), MetaKeyCurrentDepth))
	assert.True(t, IsDirectiveError(NewDirectiveContractError(0, "x")))
	assert.False(t, IsDirectiveError(errors.New("plain")))
	assert.False(t, IsShapeMismatch(nil))
}
