package graph

import (
	"fmt"
	"strings"
)

// Kind is the hierarchy level of a node. The four levels are strictly
// nested: Container > Module > Group > Option.
type Kind int

const (
	// KindInvalid is the zero value and never appears in a valid graph.
	KindInvalid Kind = iota
	// KindContainer is the root level; containers hold modules.
	KindContainer
	// KindModule holds groups and scopes rule resolution.
	KindModule
	// KindGroup holds options.
	KindGroup
	// KindOption is the rule-bearing leaf.
	KindOption
)

// Kinds lists every valid kind from the top of the hierarchy down.
var Kinds = []Kind{KindContainer, KindModule, KindGroup, KindOption}

var kindNames = map[Kind]string{
	KindContainer: "container",
	KindModule:    "module",
	KindGroup:     "group",
	KindOption:    "option",
}

var kindLabels = map[Kind]string{
	KindContainer: "Container",
	KindModule:    "Module",
	KindGroup:     "Group",
	KindOption:    "Option",
}

// String returns the lowercase wire name ("container", "module", ...).
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Label returns the capitalised display name ("Container", "Module", ...).
func (k Kind) Label() string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return k.String()
}

// Valid reports whether k is one of the four hierarchy levels.
func (k Kind) Valid() bool { return k >= KindContainer && k <= KindOption }

// Child returns the kind a node of kind k may contain, or KindInvalid for options.
func (k Kind) Child() Kind {
	if !k.Valid() || k == KindOption {
		return KindInvalid
	}
	return k + 1
}

// Parent returns the kind that may contain k, or KindInvalid for containers.
func (k Kind) Parent() Kind {
	if !k.Valid() || k == KindContainer {
		return KindInvalid
	}
	return k - 1
}

// ParseKind converts a wire name into a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
