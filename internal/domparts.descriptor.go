package internal

import (
	"slices"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// PartDescriptor is the cached, DOM-independent record of one binding.
// Descriptors are shared between every instance of a template and are
// never mutated after they are built.
type PartDescriptor struct {
	Type  PartType
	Index int   // first value index
	Count int   // number of values consumed
	Path  []int // child indices from the fragment roots
	Name  string
	Text  string
	Tag   string
}

// FoundMarker is a marker located during a scan, with the node it binds.
type FoundMarker struct {
	PartDescriptor
	Node *html.Node
}

type scanItem struct {
	node *html.Node
	path []int
}

// ScanMarkers walks sibling roots in document order and returns the markers
// that belong to the outermost scope. Markers inside nested scope regions
// are skipped by tracking scope depth. The walk uses an explicit stack.
func ScanMarkers(roots []*html.Node) []FoundMarker {
	var found []FoundMarker
	stack := make([]scanItem, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, scanItem{node: roots[i], path: []int{i}})
	}

	depth := 0
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := item.node

		switch n.Type {
		case html.CommentNode:
			m := ParseComment(n.Data)
			switch m.Kind {
			case MarkerScopeStart:
				depth++
			case MarkerScopeEnd:
				depth--
			case MarkerPartStart:
				if depth == 1 {
					found = append(found, FoundMarker{
						PartDescriptor: PartDescriptor{Type: PartTypeNode, Index: m.Index, Count: 1, Path: item.path},
						Node:           n,
					})
				}
			case MarkerRawText:
				el := n.NextSibling
				if el == nil && len(item.path) == 1 && item.path[0]+1 < len(roots) {
					// Parsed fragments leave their roots unlinked.
					el = roots[item.path[0]+1]
				}
				if depth == 1 && el != nil && el.Type == html.ElementNode {
					path := slices.Clone(item.path)
					path[len(path)-1]++
					found = append(found, FoundMarker{
						PartDescriptor: PartDescriptor{
							Type:  PartTypeRawText,
							Index: m.Index,
							Count: CountSentinels(m.Text),
							Path:  path,
							Text:  m.Text,
							Tag:   el.Data,
						},
						Node: el,
					})
				}
			}
		case html.ElementNode:
			if depth == 1 {
				for _, a := range n.Attr {
					am, ok := ParseAttr(a.Key, a.Val)
					if !ok {
						continue
					}
					d := PartDescriptor{Type: PartTypeAttribute, Index: am.Index, Count: CountSentinels(am.Text), Path: item.path, Name: am.Name, Text: am.Text}
					if am.Directive {
						d = PartDescriptor{Type: PartTypeDirective, Index: am.Index, Count: 1, Path: item.path}
					}
					found = append(found, FoundMarker{PartDescriptor: d, Node: n})
				}
			}
		}

		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		for i := len(children) - 1; i >= 0; i-- {
			path := make([]int, len(item.path)+1)
			copy(path, item.path)
			path[len(item.path)] = i
			stack = append(stack, scanItem{node: children[i], path: path})
		}
	}
	return found
}

// BuildDescriptors scans a fragment and returns its part descriptors ordered
// by index. The descriptors must cover placeholders 0..expected-1 exactly once.
func BuildDescriptors(roots []*html.Node, expected int, logger *zap.Logger) ([]PartDescriptor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	found := ScanMarkers(roots)
	slices.SortStableFunc(found, func(a, b FoundMarker) int { return a.Index - b.Index })

	descriptors := make([]PartDescriptor, 0, len(found))
	cursor := 0
	for _, f := range found {
		if f.Count < 1 {
			f.Count = 1
		}
		switch {
		case f.Index < cursor:
			return nil, NewShapeError(ErrMsgPartDuplicate, cursor, f.Index, f.Index)
		case f.Index > cursor:
			return nil, NewShapeError(ErrMsgPartMissing, f.Index, cursor, cursor)
		}
		descriptors = append(descriptors, f.PartDescriptor)
		cursor += f.Count
	}
	if cursor != expected {
		return nil, NewShapeError(ErrMsgPartCountMismatch, expected, cursor, -1)
	}

	logger.Debug(LogMsgDescriptorsBuilt, zap.Int(LogFieldParts, len(descriptors)))
	return descriptors, nil
}

// Resolve follows a descriptor path through a clone of the fragment.
func Resolve(roots []*html.Node, path []int) (*html.Node, error) {
	if len(path) == 0 || path[0] < 0 || path[0] >= len(roots) {
		return nil, NewShapeError(ErrMsgPathInvalid, len(roots), len(path), -1)
	}
	n := roots[path[0]]
	for _, idx := range path[1:] {
		c := n.FirstChild
		for i := 0; i < idx && c != nil; i++ {
			c = c.NextSibling
		}
		if c == nil {
			return nil, NewShapeError(ErrMsgPathInvalid, idx, 0, -1)
		}
		n = c
	}
	return n, nil
}

// LocateParts finds the nodes bound by each placeholder index in adopted
// markup, where content regions may already hold rendered nodes and paths
// no longer apply.
func LocateParts(roots []*html.Node) map[int]*html.Node {
	found := ScanMarkers(roots)
	nodes := make(map[int]*html.Node, len(found))
	for _, f := range found {
		nodes[f.Index] = f.Node
	}
	return nodes
}
