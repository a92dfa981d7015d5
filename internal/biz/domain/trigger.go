package domain

import "strings"

// MatchPolicy selects how inbound text is checked against trigger keywords.
type MatchPolicy string

const (
	// MatchExact requires the trimmed, lowercased message to equal a keyword.
	MatchExact MatchPolicy = "exact"
	// MatchContains matches the first keyword that occurs as a substring
	// of the lowercased message.
	MatchContains MatchPolicy = "contains"
)

// Trigger is a configured keyword with its alert description.
type Trigger struct {
	Keyword     string
	Description string
}

// TriggerTable is the fixed keyword table, ordered by declaration.
// Match order over the table is deterministic.
type TriggerTable struct {
	triggers []Trigger
	policy   MatchPolicy
}

// NewTriggerTable creates a trigger table with the given policy.
// Keywords are normalized to lowercase; empty keywords are dropped.
func NewTriggerTable(triggers []Trigger, policy MatchPolicy) *TriggerTable {
	t := &TriggerTable{policy: policy}
	for _, tr := range triggers {
		kw := strings.ToLower(strings.TrimSpace(tr.Keyword))
		if kw == "" {
			continue
		}
		t.triggers = append(t.triggers, Trigger{Keyword: kw, Description: tr.Description})
	}
	return t
}

// Policy returns the active match policy.
func (t *TriggerTable) Policy() MatchPolicy {
	return t.policy
}

// Keywords returns the configured keywords in declaration order.
func (t *TriggerTable) Keywords() []string {
	keys := make([]string, len(t.triggers))
	for i, tr := range t.triggers {
		keys[i] = tr.Keyword
	}
	return keys
}

// Match checks inbound text against the table under the active policy.
// Empty or whitespace-only text never matches.
func (t *TriggerTable) Match(text string) (Trigger, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Trigger{}, false
	}

	for _, tr := range t.triggers {
		switch t.policy {
		case MatchContains:
			if strings.Contains(normalized, tr.Keyword) {
				return tr, true
			}
		default:
			if normalized == tr.Keyword {
				return tr, true
			}
		}
	}
	return Trigger{}, false
}
