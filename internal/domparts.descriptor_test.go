package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

func compileRoots(t *testing.T, segments ...string) ([]*html.Node, *Compiled) {
	t.Helper()
	compiled, err := NewCompiler(nil).Compile(segments, false)
	require.NoError(t, err)
	return roots(t, compiled.HTML), compiled
}

func TestBuildDescriptors_AllPartTypes(t *testing.T) {
	fragment, compiled := compileRoots(t,
		`<div class="`, `">`, `<textarea>`, `</textarea><b `, `></b></div>`)

	descriptors, err := BuildDescriptors(fragment, compiled.Placeholders, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, descriptors, 4)

	assert.Equal(t, PartDescriptor{Type: PartTypeAttribute, Index: 0, Count: 1, Path: []int{1}, Name: "class", Text: Boundary}, descriptors[0])
	assert.Equal(t, PartDescriptor{Type: PartTypeNode, Index: 1, Count: 1, Path: []int{1, 0}}, descriptors[1])
	assert.Equal(t, PartDescriptor{Type: PartTypeRawText, Index: 2, Count: 1, Path: []int{1, 3}, Text: Boundary, Tag: "textarea"}, descriptors[2])
	assert.Equal(t, PartDescriptor{Type: PartTypeDirective, Index: 3, Count: 1, Path: []int{1, 4}}, descriptors[3])

	for _, d := range descriptors {
		n, err := Resolve(fragment, d.Path)
		require.NoError(t, err)
		switch d.Type {
		case PartTypeNode:
			assert.Equal(t, html.CommentNode, n.Type)
		case PartTypeRawText:
			assert.Equal(t, "textarea", n.Data)
		default:
			assert.Equal(t, html.ElementNode, n.Type)
		}
	}
}

func TestBuildDescriptors_MultiInterpolationAttribute(t *testing.T) {
	fragment, compiled := compileRoots(t, `<a href="/`, `/`, `" title="`, `">x</a>`)

	descriptors, err := BuildDescriptors(fragment, compiled.Placeholders, nil)
	require.NoError(t, err)
	require.Len(t, descriptors, 2)
	assert.Equal(t, 0, descriptors[0].Index)
	assert.Equal(t, 2, descriptors[0].Count)
	assert.Equal(t, "href", descriptors[0].Name)
	assert.Equal(t, 2, descriptors[1].Index)
	assert.Equal(t, "title", descriptors[1].Name)
}

func TestScanMarkers_SkipsNestedScopes(t *testing.T) {
	markup := "<!--template-part--><!--dom-part-0-->" +
		"<!--template-part--><p dom-part-0=\"class=\x03\"><!--dom-part-1--><!--/dom-part-1--></p><!--/template-part-->" +
		"<!--/dom-part-0--><!--/template-part-->"

	found := ScanMarkers(roots(t, markup))

	require.Len(t, found, 1)
	assert.Equal(t, PartTypeNode, found[0].Type)
	assert.Equal(t, 0, found[0].Index)
}

func TestBuildDescriptors_ShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected int
		message  string
	}{
		{
			name:     "missing index",
			markup:   "<!--template-part--><!--dom-part-1--><!--/dom-part-1--><!--/template-part-->",
			expected: 2,
			message:  ErrMsgPartMissing,
		},
		{
			name:     "duplicate index",
			markup:   "<!--template-part--><!--dom-part-0--><!--/dom-part-0--><!--dom-part-0--><!--/dom-part-0--><!--/template-part-->",
			expected: 2,
			message:  ErrMsgPartDuplicate,
		},
		{
			name:     "too few parts",
			markup:   "<!--template-part--><!--dom-part-0--><!--/dom-part-0--><!--/template-part-->",
			expected: 2,
			message:  ErrMsgPartCountMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDescriptors(roots(t, tt.markup), tt.expected, nil)
			var se *ShapeError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.message, se.Message)
		})
	}
}

func TestResolve_InvalidPath(t *testing.T) {
	fragment := roots(t, "<p><b></b></p>")

	_, err := Resolve(fragment, nil)
	assert.Error(t, err)
	_, err = Resolve(fragment, []int{3})
	assert.Error(t, err)
	_, err = Resolve(fragment, []int{0, 4})
	assert.Error(t, err)

	n, err := Resolve(fragment, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "b", n.Data)
}

func TestLocateParts_RenderedMarkup(t *testing.T) {
	markup := "<!--template-part--><p dom-part-0=\"class=\x03\" class=\"x\">" +
		"<!--dom-part-1--><b>a</b>text<!--/dom-part-1--></p><!--/template-part-->"

	located := LocateParts(roots(t, markup))

	require.Len(t, located, 2)
	assert.Equal(t, "p", located[0].Data)
	assert.Equal(t, html.CommentNode, located[1].Type)
	assert.Equal(t, "dom-part-1", located[1].Data)
}

func TestBuildDescriptors_RootLevelRawText(t *testing.T) {
	compiled, err := NewCompiler(nil).Compile([]string{"<textarea>a ", " b</textarea>"}, false)
	require.NoError(t, err)
	fragment, err := ParseFragment(compiled.HTML)
	require.NoError(t, err)
	require.Nil(t, fragment[1].NextSibling)

	descriptors, err := BuildDescriptors(fragment, compiled.Placeholders, nil)
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, PartTypeRawText, descriptors[0].Type)
	assert.Equal(t, []int{2}, descriptors[0].Path)
	assert.Equal(t, "textarea", descriptors[0].Tag)

	n, err := Resolve(fragment, descriptors[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "textarea", n.Data)
}
