package analysis

// Severity classifies an [Issue].
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeverityInfo       Severity = "info"
	SeveritySuggestion Severity = "suggestion"
)

// Severities lists every severity from most to least serious.
var Severities = []Severity{SeverityError, SeverityWarning, SeverityInfo, SeveritySuggestion}

// Health summarises the worst blocking issue of a node.
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
)

func (h Health) rank() int {
	switch h {
	case HealthCritical:
		return 2
	case HealthWarning:
		return 1
	default:
		return 0
	}
}

// Worse reports whether h is more severe than other.
func (h Health) Worse(other Health) bool { return h.rank() > other.rank() }

// Action is the remediation a [Fix] performs on its target option.
type Action string

const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
)

// Fix describes an executable remediation: set the target option's
// "included" flag to true (enable) or false (disable).
type Fix struct {
	Label    string `json:"label"`
	Action   Action `json:"action"`
	TargetID string `json:"target_id"`
	Key      string `json:"key,omitempty"`
}

// Issue is one diagnostic. AffectedNodeIDs starts with the analysed node;
// a related node, when there is one, follows it.
type Issue struct {
	ID              string   `json:"id"`
	Severity        Severity `json:"severity"`
	Title           string   `json:"title"`
	Message         string   `json:"message"`
	AffectedNodeIDs []string `json:"affected_node_ids"`
	Fix             *Fix     `json:"fix,omitempty"`
}

// Dependency records one "requires" entry checked for an option.
// NodeID is empty when no option with Key exists.
type Dependency struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Present bool   `json:"present"`
	NodeID  string `json:"node_id,omitempty"`
}

// Conflict records a conflicting option that is currently included.
type Conflict struct {
	Key           string `json:"key"`
	Label         string `json:"label"`
	ConflictsWith string `json:"conflicts_with"`
	NodeID        string `json:"node_id,omitempty"`
}

// NodeAnalysis is the derived diagnostic state of one node.
type NodeAnalysis struct {
	NodeID       string       `json:"node_id"`
	Issues       []Issue      `json:"issues"`
	Suggestions  []Issue      `json:"suggestions"`
	Dependencies []Dependency `json:"dependencies"`
	Conflicts    []Conflict   `json:"conflicts"`
	Health       Health       `json:"health"`
}

func emptyAnalysis(id string) NodeAnalysis {
	return NodeAnalysis{
		NodeID:       id,
		Issues:       []Issue{},
		Suggestions:  []Issue{},
		Dependencies: []Dependency{},
		Conflicts:    []Conflict{},
		Health:       HealthHealthy,
	}
}

// healthOf derives health from the blocking issues only; suggestions never
// affect it.
func healthOf(issues []Issue) Health {
	h := HealthHealthy
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			return HealthCritical
		case SeverityWarning:
			h = HealthWarning
		}
	}
	return h
}
