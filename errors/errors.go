package errors

import "fmt"

// SyntaxError is a lexing or parsing failure. It aborts the current
// compilation unit; no partial token list or AST is produced.
type SyntaxError struct {
	Message string
}

func (e SyntaxError) Error() string {
	return e.Message
}

func NewSyntaxError(format string, args ...interface{}) SyntaxError {
	return SyntaxError{Message: fmt.Sprintf(format, args...)}
}

// GenericError is a semantic or runtime failure: unknown function, undefined
// variable, declared-type mismatch, non-numeric arithmetic operand, or an
// expression unsupported in its context.
type GenericError struct {
	Message string
}

func (e GenericError) Error() string {
	return e.Message
}

func NewGenericError(format string, args ...interface{}) GenericError {
	return GenericError{Message: fmt.Sprintf(format, args...)}
}
