package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/comp/internal/token"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // Illegal character or malformed literal

	// Parser
	ErrP001 ErrorCode = "P001" // Unexpected token
	ErrP002 ErrorCode = "P002" // Missing 'for'
	ErrP003 ErrorCode = "P003" // Missing 'in'
	ErrP004 ErrorCode = "P004" // Invalid binding pattern
	ErrP005 ErrorCode = "P005" // Expected expression
	ErrP006 ErrorCode = "P006" // Nesting too deep
	ErrP007 ErrorCode = "P007" // Unexpected trailing input

	// Code generation
	ErrC001 ErrorCode = "C001" // Construct has no Go rendering
)

var descriptions = map[ErrorCode]string{
	ErrL001: "illegal token",
	ErrP001: "unexpected token",
	ErrP002: "missing 'for'",
	ErrP003: "missing 'in'",
	ErrP004: "invalid pattern",
	ErrP005: "expected expression",
	ErrP006: "nesting too deep",
	ErrP007: "unexpected trailing input",
	ErrC001: "unsupported by Go emitter",
}

// DiagnosticError is a positioned error produced while reading or
// translating a comprehension.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	fmt.Fprintf(&b, "%d:%d: [%s] %s", e.Token.Line, e.Token.Column, e.Code, e.Message)
	return b.String()
}

// Describe returns the short description of the error class.
func (e *DiagnosticError) Describe() string {
	if d, ok := descriptions[e.Code]; ok {
		return d
	}
	return string(e.Code)
}

// Snippet returns the source line holding the error followed by a caret
// line pointing at the offending column.
func (e *DiagnosticError) Snippet(source string) string {
	lines := strings.Split(source, "\n")
	if e.Token.Line < 1 || e.Token.Line > len(lines) {
		return ""
	}
	line := lines[e.Token.Line-1]
	col := e.Token.Column
	if col < 1 {
		col = 1
	}
	width := len([]rune(e.Token.Lexeme))
	if width == 0 {
		width = 1
	}
	return line + "\n" + strings.Repeat(" ", col-1) + strings.Repeat("^", width)
}
