package internal

import (
	"strings"
)

// Op is one step of a server rendering program: either literal markup or a
// placeholder to be filled from the template values.
type Op struct {
	Literal     string
	Placeholder *Placeholder
}

// ParseProgram splits SSR-compiled markup into literal and placeholder ops.
// The placeholders must cover value indices 0..expected-1 in order.
func ParseProgram(markup string, expected int) ([]Op, error) {
	var ops []Op
	cursor := 0
	rest := markup
	offset := 0
	for {
		i := strings.Index(rest, PlaceholderOpen)
		if i < 0 {
			if rest != "" {
				ops = append(ops, Op{Literal: rest})
			}
			break
		}
		if i > 0 {
			ops = append(ops, Op{Literal: rest[:i]})
		}
		end := strings.Index(rest[i:], PlaceholderClose)
		if end < 0 {
			return nil, &PlaceholderError{Message: ErrMsgPlaceholderUnclosed, Offset: offset + i}
		}
		end += i + len(PlaceholderClose)
		p, err := ParsePlaceholder(rest[i:end])
		if err != nil {
			return nil, &PlaceholderError{Message: ErrMsgPlaceholderMalformed, Offset: offset + i, Cause: err}
		}
		if p.Index != cursor {
			return nil, NewShapeError(ErrMsgPartMissing, cursor, p.Index, p.Index)
		}
		cursor += p.Count
		ops = append(ops, Op{Placeholder: &p})
		offset += end
		rest = rest[end:]
	}
	if cursor != expected {
		return nil, NewShapeError(ErrMsgPartCountMismatch, expected, cursor, -1)
	}
	return ops, nil
}
