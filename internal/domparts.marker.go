package internal

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// MarkerKind classifies a comment marker
type MarkerKind int

// Marker kind constants
const (
	MarkerNone MarkerKind = iota
	MarkerScopeStart
	MarkerScopeEnd
	MarkerPartStart
	MarkerPartEnd
	MarkerRawText
	MarkerText
)

// Marker is the decoded form of a marker comment.
type Marker struct {
	Kind  MarkerKind
	Index int
	Text  string // raw-text template, Boundary marks interpolations
}

// FormatPartStart returns the comment data opening content region i.
func FormatPartStart(i int) string {
	return MarkerPrefix + strconv.Itoa(i)
}

// FormatPartEnd returns the comment data closing content region i.
func FormatPartEnd(i int) string {
	return MarkerClosePrefix + MarkerPrefix + strconv.Itoa(i)
}

// FormatRawText returns the comment data describing raw-text part i.
func FormatRawText(i int, text string) string {
	return MarkerPrefix + strconv.Itoa(i) + RawMarkerSeparator + strings.ReplaceAll(text, Boundary, CommentSentinel)
}

// IsTextMarker reports whether n is the comment that anchors a text entry
// of a content region.
func IsTextMarker(n *html.Node) bool {
	return n != nil && n.Type == html.CommentNode && n.Data == TextMarker
}

// CloseMarker returns the data of the comment closing the region opened by data.
func CloseMarker(data string) string {
	return MarkerClosePrefix + data
}

// ParseComment decodes comment data. Comments that are not markers yield MarkerNone.
func ParseComment(data string) Marker {
	switch data {
	case ScopeMarker:
		return Marker{Kind: MarkerScopeStart, Index: -1}
	case ScopeEndMarker:
		return Marker{Kind: MarkerScopeEnd, Index: -1}
	case TextMarker:
		return Marker{Kind: MarkerText, Index: -1}
	}

	kind := MarkerPartStart
	rest := data
	if strings.HasPrefix(rest, MarkerClosePrefix) {
		kind = MarkerPartEnd
		rest = rest[len(MarkerClosePrefix):]
	}
	if !strings.HasPrefix(rest, MarkerPrefix) {
		return Marker{Kind: MarkerNone, Index: -1}
	}
	rest = rest[len(MarkerPrefix):]

	text := ""
	if sep := strings.Index(rest, RawMarkerSeparator); sep >= 0 {
		if kind == MarkerPartEnd {
			return Marker{Kind: MarkerNone, Index: -1}
		}
		kind = MarkerRawText
		text = strings.ReplaceAll(rest[sep+len(RawMarkerSeparator):], CommentSentinel, Boundary)
		rest = rest[:sep]
	}

	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 0 {
		return Marker{Kind: MarkerNone, Index: -1}
	}
	return Marker{Kind: kind, Index: idx, Text: text}
}

// AttrMarker is the decoded form of a synthetic marker attribute.
type AttrMarker struct {
	Index     int
	Directive bool
	Name      string // bound attribute name, sigil included, original case
	Text      string // literal attribute value, Boundary marks interpolations
}

// FormatAttr encodes an attribute marker into an attribute key and value.
func FormatAttr(m AttrMarker) (key, val string) {
	key = MarkerPrefix + strconv.Itoa(m.Index)
	if m.Directive {
		return key + DirectiveMarkerSuffix, ""
	}
	return key, m.Name + AttrMarkerSeparator + m.Text
}

// IsMarkerAttr reports whether an attribute key belongs to the marker protocol.
func IsMarkerAttr(key string) bool {
	_, ok := ParseAttr(key, "")
	return ok
}

// ParseAttr decodes a marker attribute. The value is ignored for directive markers.
func ParseAttr(key, val string) (AttrMarker, bool) {
	if !strings.HasPrefix(key, MarkerPrefix) {
		return AttrMarker{}, false
	}
	rest := key[len(MarkerPrefix):]
	m := AttrMarker{}
	if strings.HasSuffix(rest, DirectiveMarkerSuffix) {
		m.Directive = true
		rest = strings.TrimSuffix(rest, DirectiveMarkerSuffix)
	}
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 0 {
		return AttrMarker{}, false
	}
	m.Index = idx
	if m.Directive {
		return m, true
	}
	if sep := strings.Index(val, AttrMarkerSeparator); sep >= 0 {
		m.Name = val[:sep]
		m.Text = val[sep+len(AttrMarkerSeparator):]
	}
	return m, true
}

// CountSentinels returns the number of interpolations in a marker text.
func CountSentinels(text string) int {
	return strings.Count(text, Boundary)
}

// Placeholder is the decoded form of an SSR placeholder.
type Placeholder struct {
	Type  PartType
	Index int
	Count int
	Name  string // attribute name for attribute parts
	Text  string // literal template text for attribute and raw-text parts
	Tag   string // element name for raw-text parts
}

// FormatPlaceholder encodes a placeholder as `{{dom-part?query}}`.
func FormatPlaceholder(p Placeholder) string {
	q := url.Values{}
	q.Set(QueryKeyType, string(p.Type))
	q.Set(QueryKeyIndex, strconv.Itoa(p.Index))
	if p.Count > 1 {
		q.Set(QueryKeyCount, strconv.Itoa(p.Count))
	}
	if p.Name != "" {
		q.Set(QueryKeyName, p.Name)
	}
	if p.Text != "" {
		q.Set(QueryKeyText, p.Text)
	}
	if p.Tag != "" {
		q.Set(QueryKeyTag, p.Tag)
	}
	return PlaceholderOpen + q.Encode() + PlaceholderClose
}

var (
	errPlaceholderPrefix = errors.New("missing placeholder prefix")
	errPlaceholderType   = errors.New("unknown part type")
	errPlaceholderIndex  = errors.New("invalid index")
	errPlaceholderCount  = errors.New("invalid count")
)

// ParsePlaceholder decodes a placeholder including its delimiters.
func ParsePlaceholder(s string) (Placeholder, error) {
	if !strings.HasPrefix(s, PlaceholderOpen) || !strings.HasSuffix(s, PlaceholderClose) {
		return Placeholder{}, errPlaceholderPrefix
	}
	q, err := url.ParseQuery(s[len(PlaceholderOpen) : len(s)-len(PlaceholderClose)])
	if err != nil {
		return Placeholder{}, err
	}

	p := Placeholder{
		Type:  PartType(q.Get(QueryKeyType)),
		Name:  q.Get(QueryKeyName),
		Text:  q.Get(QueryKeyText),
		Tag:   q.Get(QueryKeyTag),
		Count: 1,
	}
	if !p.Type.Valid() {
		return Placeholder{}, errPlaceholderType
	}
	if p.Index, err = strconv.Atoi(q.Get(QueryKeyIndex)); err != nil || p.Index < 0 {
		return Placeholder{}, errPlaceholderIndex
	}
	if c := q.Get(QueryKeyCount); c != "" {
		if p.Count, err = strconv.Atoi(c); err != nil || p.Count < 1 {
			return Placeholder{}, errPlaceholderCount
		}
	}
	return p, nil
}
