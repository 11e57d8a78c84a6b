package internal

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// voidElements cannot have children and never take a closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text the HTML parser never splits into nodes.
// The value reports whether character references are decoded (RCDATA).
var rawTextElements = map[string]bool{
	TagScript:   false,
	TagStyle:    false,
	TagTextarea: true,
	TagTitle:    true,
}

// IsVoidElement reports whether the tag is an HTML void element.
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}

// IsRawTextElement reports whether the tag's content is raw text.
func IsRawTextElement(tag string) bool {
	_, ok := rawTextElements[strings.ToLower(tag)]
	return ok
}

// IsEscapedRawTextElement reports whether raw text content of the tag is
// escaped when serialized (textarea, title).
func IsEscapedRawTextElement(tag string) bool {
	return rawTextElements[strings.ToLower(tag)]
}

// Compiled holds the output of a compile run.
type Compiled struct {
	HTML         string // markup with markers (and placeholders in SSR mode)
	Source       string // joined source, Boundary marks each interpolation
	Placeholders int
}

// Compiler turns template segments into marker-annotated markup.
type Compiler struct {
	logger *zap.Logger
}

// NewCompiler creates a compiler
func NewCompiler(logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{logger: logger}
}

// Compile joins the static segments with the boundary sentinel and produces
// the canonical markup. Placeholders are numbered in source order. In SSR mode
// every placeholder additionally carries a self-describing query string.
func (c *Compiler) Compile(segments []string, ssr bool) (*Compiled, error) {
	src := strings.TrimSpace(strings.Join(segments, Boundary))
	c.logger.Debug(LogMsgCompileStart, zap.Int(LogFieldSource, len(src)), zap.Bool(LogFieldSSR, ssr))

	s := &compileState{src: src, ssr: ssr}
	s.out.Grow(len(src) + 64)
	s.out.WriteString(StrCommentOpen + ScopeMarker + StrCommentClose)
	if err := s.run(); err != nil {
		return nil, err
	}
	s.out.WriteString(StrCommentOpen + ScopeEndMarker + StrCommentClose)

	expected := len(segments) - 1
	if expected < 0 {
		expected = 0
	}
	if s.next != expected {
		return nil, NewShapeError(ErrMsgPartCountMismatch, expected, s.next, -1)
	}

	c.logger.Debug(LogMsgCompileEnd, zap.Int(LogFieldPlaceholders, s.next))
	return &Compiled{HTML: s.out.String(), Source: src, Placeholders: s.next}, nil
}

// compileState is the scanner over one joined source.
type compileState struct {
	src  string
	pos  int
	next int // next placeholder index
	ssr  bool
	out  strings.Builder
}

// attrBinding is an attribute (or element directive) found in an open tag.
type attrBinding struct {
	marker AttrMarker
	count  int
}

func (s *compileState) run() error {
	n := len(s.src)
	for s.pos < n {
		ch := s.src[s.pos]
		rest := s.src[s.pos:]
		switch {
		case ch == BoundaryByte:
			s.emitNodePart()
			s.pos++
		case strings.HasPrefix(rest, StrCommentOpen):
			if err := s.scanComment(); err != nil {
				return err
			}
		case strings.HasPrefix(rest, StrCloseTagOpen):
			if err := s.copyUntilGreater(ErrMsgBindingInCloseTag); err != nil {
				return err
			}
		case ch == CharLess && s.pos+1 < n && s.src[s.pos+1] == CharBang:
			if err := s.copyUntilGreater(ErrMsgBindingInComment); err != nil {
				return err
			}
		case ch == CharLess && s.pos+1 < n && isASCIILetter(s.src[s.pos+1]):
			if err := s.scanOpenTag(); err != nil {
				return err
			}
		default:
			s.out.WriteByte(ch)
			s.pos++
		}
	}
	return nil
}

// emitNodePart writes a content marker pair for the next placeholder.
func (s *compileState) emitNodePart() {
	i := s.next
	s.next++
	s.out.WriteString(StrCommentOpen + FormatPartStart(i) + StrCommentClose)
	if s.ssr {
		s.out.WriteString(FormatPlaceholder(Placeholder{Type: PartTypeNode, Index: i, Count: 1}))
	}
	s.out.WriteString(StrCommentOpen + FormatPartEnd(i) + StrCommentClose)
}

func (s *compileState) scanComment() error {
	bodyStart := s.pos + len(StrCommentOpen)
	end := strings.Index(s.src[bodyStart:], StrCommentClose)
	if end < 0 {
		return NewCompileError(ErrMsgUnterminatedComment, s.src, s.pos)
	}
	body := s.src[bodyStart : bodyStart+end]
	if i := strings.Index(body, Boundary); i >= 0 {
		return NewCompileError(ErrMsgBindingInComment, s.src, bodyStart+i)
	}
	stop := bodyStart + end + len(StrCommentClose)
	s.out.WriteString(s.src[s.pos:stop])
	s.pos = stop
	return nil
}

// copyUntilGreater copies closing tags and declarations verbatim.
func (s *compileState) copyUntilGreater(bindingMsg string) error {
	end := strings.IndexByte(s.src[s.pos:], CharGreater)
	if end < 0 {
		return NewCompileError(ErrMsgUnterminatedTag, s.src, s.pos)
	}
	chunk := s.src[s.pos : s.pos+end+1]
	if i := strings.Index(chunk, Boundary); i >= 0 {
		return NewCompileError(bindingMsg, s.src, s.pos+i)
	}
	s.out.WriteString(chunk)
	s.pos += end + 1
	return nil
}

func (s *compileState) scanOpenTag() error {
	src, n := s.src, len(s.src)
	start := s.pos
	p := s.pos + 1
	for p < n && !isSpace(src[p]) && src[p] != CharGreater && src[p] != CharSlash && src[p] != BoundaryByte {
		p++
	}
	if p < n && src[p] == BoundaryByte {
		return NewCompileError(ErrMsgBindingInTagName, src, p)
	}
	tag := src[start+1 : p]
	lower := strings.ToLower(tag)

	var static []string
	var bindings []attrBinding
	selfClose := false

attrs:
	for {
		for p < n && isSpace(src[p]) {
			p++
		}
		if p >= n {
			return NewCompileError(ErrMsgUnterminatedTag, src, start)
		}
		switch src[p] {
		case CharGreater:
			p++
			break attrs
		case CharSlash:
			if selfCloseAt(src, p) {
				selfClose = true
				p += 2
				break attrs
			}
			p++
			continue
		case BoundaryByte:
			bindings = append(bindings, attrBinding{
				marker: AttrMarker{Index: s.next, Directive: true},
				count:  1,
			})
			s.next++
			p++
			continue
		}

		nameStart := p
		for p < n && !isSpace(src[p]) && src[p] != CharEquals && src[p] != CharGreater {
			if selfCloseAt(src, p) {
				break
			}
			if src[p] == BoundaryByte {
				return NewCompileError(ErrMsgBindingInAttrName, src, p)
			}
			p++
		}
		name := src[nameStart:p]

		q := p
		for q < n && isSpace(src[q]) {
			q++
		}
		if q >= n || src[q] != CharEquals {
			if name == "" {
				p++
				continue
			}
			static = append(static, name)
			continue
		}

		q++
		for q < n && isSpace(src[q]) {
			q++
		}
		if q >= n {
			return NewCompileError(ErrMsgUnterminatedAttr, src, nameStart)
		}
		var value string
		if quote := src[q]; quote == CharDoubleQuote || quote == CharSingleQuote {
			end := strings.IndexByte(src[q+1:], quote)
			if end < 0 {
				return NewCompileError(ErrMsgUnterminatedAttr, src, q)
			}
			value = src[q+1 : q+1+end]
			p = q + 1 + end + 1
		} else {
			vs := q
			for q < n && !isSpace(src[q]) && src[q] != CharGreater && !selfCloseAt(src, q) {
				q++
			}
			value = src[vs:q]
			p = q
		}

		count := strings.Count(value, Boundary)
		if count == 0 {
			static = append(static, src[nameStart:p])
			continue
		}
		bindings = append(bindings, attrBinding{
			marker: AttrMarker{Index: s.next, Name: name, Text: html.UnescapeString(value)},
			count:  count,
		})
		s.next += count
	}

	var tagBuf strings.Builder
	tagBuf.WriteByte(CharLess)
	tagBuf.WriteString(tag)
	for _, a := range static {
		tagBuf.WriteByte(' ')
		tagBuf.WriteString(a)
	}
	for _, b := range bindings {
		key, val := FormatAttr(b.marker)
		tagBuf.WriteByte(' ')
		tagBuf.WriteString(key)
		tagBuf.WriteString(`="`)
		tagBuf.WriteString(escapeMarkerValue(val))
		tagBuf.WriteByte(CharDoubleQuote)
		if s.ssr {
			ph := Placeholder{Type: PartTypeAttribute, Index: b.marker.Index, Count: b.count, Name: b.marker.Name, Text: b.marker.Text}
			if b.marker.Directive {
				ph = Placeholder{Type: PartTypeDirective, Index: b.marker.Index, Count: 1}
			}
			tagBuf.WriteString(FormatPlaceholder(ph))
		}
	}
	tagBuf.WriteByte(CharGreater)

	if selfClose {
		s.out.WriteString(tagBuf.String())
		if !voidElements[lower] {
			s.out.WriteString(StrCloseTagOpen + tag + string(CharGreater))
		}
		s.pos = p
		return nil
	}

	if _, raw := rawTextElements[lower]; raw {
		closeAt := indexCloseTag(src[p:], lower)
		if closeAt < 0 {
			return NewCompileError(ErrMsgUnterminatedRawText, src, start)
		}
		content := src[p : p+closeAt]
		count := strings.Count(content, Boundary)
		if count == 0 {
			s.out.WriteString(tagBuf.String())
			s.out.WriteString(content)
			s.pos = p + closeAt
			return nil
		}

		text := content
		if rawTextElements[lower] {
			text = html.UnescapeString(text)
		}
		idx := s.next
		s.next += count
		s.out.WriteString(StrCommentOpen + FormatRawText(idx, text) + StrCommentClose)
		s.out.WriteString(tagBuf.String())
		if s.ssr {
			s.out.WriteString(FormatPlaceholder(Placeholder{Type: PartTypeRawText, Index: idx, Count: count, Text: text, Tag: lower}))
		} else {
			s.out.WriteString(strings.ReplaceAll(content, Boundary, ""))
		}
		s.pos = p + closeAt
		return nil
	}

	s.out.WriteString(tagBuf.String())
	s.pos = p
	return nil
}

// indexCloseTag finds `</tag` (case-insensitive) followed by a tag terminator.
func indexCloseTag(s, tag string) int {
	off := 0
	for {
		i := strings.Index(s[off:], StrCloseTagOpen)
		if i < 0 {
			return -1
		}
		at := off + i
		nameEnd := at + len(StrCloseTagOpen) + len(tag)
		if nameEnd <= len(s) && strings.EqualFold(s[at+len(StrCloseTagOpen):nameEnd], tag) {
			if nameEnd == len(s) || isSpace(s[nameEnd]) || s[nameEnd] == CharGreater || s[nameEnd] == CharSlash {
				return at
			}
		}
		off = at + len(StrCloseTagOpen)
	}
}

// escapeMarkerValue escapes an attribute value for a double-quoted attribute.
func escapeMarkerValue(s string) string {
	if !strings.ContainsAny(s, `&"`) {
		return s
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	return strings.ReplaceAll(s, `"`, "&quot;")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// selfCloseAt reports whether a self-closing "/>" starts at p.
func selfCloseAt(src string, p int) bool {
	return strings.HasPrefix(src[p:], StrSelfClose)
}
