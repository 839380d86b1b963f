package rules

import (
	"iter"
	"slices"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
)

// Rule constrains one option key.
//
// Requires lists keys that must exist in the same module and be included for
// Subject to be valid. Conflicts lists keys that must not be included at the
// same time. Advisory, when set, replaces the generated issue message.
type Rule struct {
	Subject   string   `json:"option_key" toml:"option_key"`
	Requires  []string `json:"requires,omitempty" toml:"requires,omitempty"`
	Conflicts []string `json:"conflicts,omitempty" toml:"conflicts,omitempty"`
	Advisory  string   `json:"suggestion,omitempty" toml:"suggestion,omitempty"`
}

// Module groups the rules declared by one configuration module.
type Module struct {
	ID    string `json:"id" toml:"id"`
	Name  string `json:"name,omitempty" toml:"name,omitempty"`
	Rules []Rule `json:"rules" toml:"rules"`
}

// Table is the complete rule set supplied to an analysis pass.
// It is treated as read-only once loaded.
type Table struct {
	Modules []Module `json:"modules" toml:"modules"`
}

// Rules yields every rule of every module in declaration order.
// Analysis scans the table globally rather than per module.
func (t *Table) Rules() iter.Seq[Rule] {
	return func(yield func(Rule) bool) {
		if t == nil {
			return
		}
		for _, m := range t.Modules {
			for _, r := range m.Rules {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Len returns the total number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, m := range t.Modules {
		n += len(m.Rules)
	}
	return n
}

// Subjects returns the distinct subject keys in first-seen order.
func (t *Table) Subjects() []string {
	var out []string
	seen := make(map[string]bool)
	for r := range t.Rules() {
		if !seen[r.Subject] {
			seen[r.Subject] = true
			out = append(out, r.Subject)
		}
	}
	return out
}

// Module returns the module with the given ID.
func (t *Table) Module(id string) (Module, bool) {
	if t == nil {
		return Module{}, false
	}
	i := slices.IndexFunc(t.Modules, func(m Module) bool { return m.ID == id })
	if i < 0 {
		return Module{}, false
	}
	return t.Modules[i], true
}

// Validate checks every rule for a well-formed subject and related keys and
// rejects rules that require or conflict with themselves.
func (t *Table) Validate() error {
	if t == nil {
		return nil
	}
	for _, m := range t.Modules {
		for i, r := range m.Rules {
			if err := cterrors.ValidateOptionKey(r.Subject); err != nil {
				return cterrors.Wrap(cterrors.ErrCodeInvalidRule, err, "module %q rule %d: invalid subject", m.ID, i)
			}
			for _, k := range r.Requires {
				if k == r.Subject {
					return cterrors.New(cterrors.ErrCodeInvalidRule, "module %q: %q requires itself", m.ID, r.Subject)
				}
				if err := cterrors.ValidateOptionKey(k); err != nil {
					return cterrors.Wrap(cterrors.ErrCodeInvalidRule, err, "module %q rule %q: invalid requirement", m.ID, r.Subject)
				}
			}
			for _, k := range r.Conflicts {
				if k == r.Subject {
					return cterrors.New(cterrors.ErrCodeInvalidRule, "module %q: %q conflicts with itself", m.ID, r.Subject)
				}
				if err := cterrors.ValidateOptionKey(k); err != nil {
					return cterrors.Wrap(cterrors.ErrCodeInvalidRule, err, "module %q rule %q: invalid conflict", m.ID, r.Subject)
				}
			}
		}
	}
	return nil
}
