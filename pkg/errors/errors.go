// Package errors defines the coded errors returned by configtower's loaders,
// editing operations and commands. The analysis engine itself never fails;
// it reports problems as issues instead.
//
// Codes are stable strings intended for scripts and JSON output:
//
//	INVALID_*             malformed files, node IDs, option keys or rules
//	*NOT_FOUND            missing issues, nodes or files
//	CONNECTION_REJECTED   an edge that would break the hierarchy
//	INTERNAL_ERROR        a bug
//	UNSUPPORTED           a request the tool cannot carry out
//
// Typical use:
//
//	if err := g.Connect(src, dst); errors.Is(err, errors.ErrCodeConnectionRejected) {
//	    fmt.Println(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidNode   Code = "INVALID_NODE"
	ErrCodeInvalidRule   Code = "INVALID_RULE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// ErrCodeConnectionRejected carries the connection validator's message.
	ErrCodeConnectionRejected Code = "CONNECTION_REJECTED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Exit statuses returned by [ExitCode].
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitNotFound = 3
	ExitRejected = 4
)

// Error is a coded error. NodeID names the node it concerns, if any.
type Error struct {
	Code    Code
	Message string
	NodeID  string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.NodeID != "" && !strings.Contains(e.Message, e.NodeID) {
		fmt.Fprintf(&b, " (node %s)", e.NodeID)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// WithNode attaches a node ID and returns e.
func (e *Error) WithNode(id string) *Error {
	e.NodeID = id
	return e
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NodeNotFound reports a node ID that is not in the graph.
func NodeNotFound(id string) *Error {
	return New(ErrCodeNodeNotFound, "node %q not found", id).WithNode(id)
}

// Rejected reports a refused connection. reason is shown to the user as is.
func Rejected(targetID, reason string) *Error {
	return New(ErrCodeConnectionRejected, "%s", reason).WithNode(targetID)
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the first *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for coded
// errors, and err.Error() otherwise.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	code := GetCode(err)
	switch {
	case code == ErrCodeConnectionRejected:
		return ExitRejected
	case strings.HasSuffix(string(code), "NOT_FOUND"):
		return ExitNotFound
	case strings.HasPrefix(string(code), "INVALID_"):
		return ExitInvalid
	default:
		return ExitFailure
	}
}
