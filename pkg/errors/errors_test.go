package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidInput, "bad %s", "value"), "INVALID_INPUT: bad value"},
		{"with cause", Wrap(ErrCodeInvalidFormat, cause, "decode graph"), "INVALID_FORMAT: decode graph: unexpected EOF"},
		{"with node", New(ErrCodeInvalidNode, "missing kind").WithNode("node_3"), "INVALID_NODE: missing kind (node node_3)"},
		{"node already named", NodeNotFound("node_9"), `NODE_NOT_FOUND: node "node_9" not found`},
		{"rejected", Rejected("node_5", "This node already has a parent connection"), "CONNECTION_REJECTED: This node already has a parent connection (node node_5)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeFileNotFound, cause, "rules file")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see the cause")
	}
}

func TestCodeLookup(t *testing.T) {
	wrapped := fmt.Errorf("connect: %w", Rejected("b", "Cannot connect group to group"))
	nested := Wrap(ErrCodeNodeNotFound, New(ErrCodeInvalidInput, "inner"), "outer")

	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"direct", New(ErrCodeInvalidRule, "self reference"), ErrCodeInvalidRule, "self reference"},
		{"fmt wrapped", wrapped, ErrCodeConnectionRejected, "Cannot connect group to group"},
		{"outermost wins", nested, ErrCodeNodeNotFound, "outer"},
		{"plain", errors.New("plain error"), "", "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitFailure},
		{New(ErrCodeInternal, "bug"), ExitFailure},
		{New(ErrCodeInvalidPath, "empty"), ExitInvalid},
		{New(ErrCodeInvalidRule, "self"), ExitInvalid},
		{NodeNotFound("x"), ExitNotFound},
		{New(ErrCodeFileNotFound, "gone"), ExitNotFound},
		{New(ErrCodeNotFound, "issue"), ExitNotFound},
		{fmt.Errorf("add: %w", Rejected("x", "no")), ExitRejected},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
