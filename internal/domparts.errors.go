package internal

import (
	"fmt"
	"strconv"
)

// Position represents a location in the joined template source
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// positionAt calculates the Position (line, column, offset) of an offset in source.
func positionAt(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	pos := Position{Offset: offset, Line: 1, Column: 1}
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// CompileError represents an error found while compiling template segments.
type CompileError struct {
	Message  string
	Position Position
	Source   string // joined template source, sentinels included
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return e.Message + " at " + e.Position.String()
}

// NewCompileError creates a compile error for an offset in the joined source.
func NewCompileError(message, source string, offset int) *CompileError {
	return &CompileError{
		Message:  message,
		Position: positionAt(source, offset),
		Source:   source,
	}
}

// ShapeError reports that the parts recovered from a template do not line up
// with its placeholders.
type ShapeError struct {
	Message  string
	Expected int
	Actual   int
	Index    int // offending placeholder index, -1 when not applicable
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	msg := e.Message + ": expected " + strconv.Itoa(e.Expected) + ", got " + strconv.Itoa(e.Actual)
	if e.Index >= 0 {
		msg += " (placeholder " + strconv.Itoa(e.Index) + ")"
	}
	return msg
}

// NewShapeError creates a shape error.
func NewShapeError(message string, expected, actual, index int) *ShapeError {
	return &ShapeError{
		Message:  message,
		Expected: expected,
		Actual:   actual,
		Index:    index,
	}
}

// PlaceholderError reports a malformed SSR placeholder.
type PlaceholderError struct {
	Message string
	Offset  int
	Cause   error
}

// Error implements the error interface.
func (e *PlaceholderError) Error() string {
	msg := e.Message + " at offset " + strconv.Itoa(e.Offset)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *PlaceholderError) Unwrap() error {
	return e.Cause
}
