package syntax

import (
	"fmt"
	"strings"

	"github.com/gitrdm/proxgen/pkg/generalize"
)

// Error is a syntax error at a byte offset of the parsed source. It wraps
// generalize.ErrInvalidArgument.
type Error struct {
	Pos  int
	Line int
	Col  int
	Msg  string
}

func newError(src string, pos int, format string, args ...interface{}) *Error {
	if pos > len(src) {
		pos = len(src)
	}
	line := 1 + strings.Count(src[:pos], "\n")
	col := pos - strings.LastIndex(src[:pos], "\n")
	return &Error{Pos: pos, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Unwrap lets errors.Is match generalize.ErrInvalidArgument.
func (e *Error) Unwrap() error { return generalize.ErrInvalidArgument }

// Cause supports github.com/pkg/errors.Cause.
func (e *Error) Cause() error { return generalize.ErrInvalidArgument }
