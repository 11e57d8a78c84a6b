package domparts

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/itsatony/go-domparts/internal"
	"golang.org/x/net/html"
)

// valueKind is the closed set of value shapes the runtime dispatches on.
type valueKind int

const (
	kindNull valueKind = iota
	kindPrimitive
	kindList
	kindTemplate
	kindNode
	kindDirective
	kindThunk
	kindUnknown
)

// String returns the kind name used in log fields.
func (k valueKind) String() string {
	switch k {
	case kindNull:
		return "null"
	case kindPrimitive:
		return "primitive"
	case kindList:
		return "list"
	case kindTemplate:
		return "template"
	case kindNode:
		return "node"
	case kindDirective:
		return "directive"
	case kindThunk:
		return "thunk"
	default:
		return "unknown"
	}
}

// Thunk computes content lazily. It receives the start marker of the region
// it renders into, or nil when rendering to a string.
type Thunk func(marker *html.Node) any

// classify maps an arbitrary value onto a valueKind and a normalized value:
// lists become []any, thunks become Thunk, trusted markup becomes a Directive.
func classify(v any) (valueKind, any) {
	switch x := v.(type) {
	case nil:
		return kindNull, nil
	case Directive:
		return kindDirective, x
	case safehtml.HTML:
		return kindDirective, TrustedHTML(x)
	case *Result:
		if x == nil || x.tmpl == nil {
			return kindNull, nil
		}
		return kindTemplate, x
	case *html.Node:
		if x == nil {
			return kindNull, nil
		}
		return kindNode, x
	case []*html.Node:
		items := make([]any, len(x))
		for i, n := range x {
			items[i] = n
		}
		return kindList, items
	case []any:
		return kindList, x
	case []byte:
		return kindPrimitive, string(x)
	case Thunk:
		if x == nil {
			return kindNull, nil
		}
		return kindThunk, x
	case func(*html.Node) any:
		if x == nil {
			return kindNull, nil
		}
		return kindThunk, Thunk(x)
	case func() any:
		if x == nil {
			return kindNull, nil
		}
		return kindThunk, Thunk(func(*html.Node) any { return x() })
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return kindPrimitive, x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindPrimitive, v
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func:
		if rv.IsNil() {
			return kindNull, nil
		}
	case reflect.Slice:
		if rv.IsNil() {
			return kindNull, nil
		}
		fallthrough
	case reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return kindList, items
	}
	return kindUnknown, v
}

// stringify converts a primitive to its text form.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// truthy reports whether a value switches a boolean attribute on. The
// string "false" counts as false.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		s := rv.String()
		return s != "" && s != AttrValueFalse
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// sameValue compares two values without panicking on uncomparable types.
// Uncomparable values are never the same.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() { _ = recover() }()
	return a == b
}

// interpolate substitutes values into a sentinel-marked text. Nil values
// contribute nothing.
func interpolate(text string, values []any) string {
	pieces := strings.Split(text, internal.Boundary)
	var b strings.Builder
	for i, piece := range pieces {
		b.WriteString(piece)
		if i < len(values) && i < len(pieces)-1 {
			b.WriteString(stringify(values[i]))
		}
	}
	return b.String()
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
