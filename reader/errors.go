package reader

import "fmt"

// Position is a 1-based line and column in the source.
type Position struct {
	Line   int
	Column int
}

// ParseError is the base error type for reader errors.
type ParseError struct {
	Message string
	Pos     Position
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// SyntaxError is a malformed line: bad header, unbalanced bracket,
// unexpected character.
type SyntaxError struct{ ParseError }

// syntaxErr builds a SyntaxError at line:col.
func syntaxErr(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     Position{Line: line, Column: col},
	}}
}
