// Package rules decides whether a transaction description should
// auto-populate source and destination accounts from a server-defined
// automation rule, skipping the manual account-selection round trip.
package rules

import (
	"strings"

	"fireflybot/internal/domain"
)

const (
	triggerDescriptionContains = "description_contains"
	actionSetSource            = "set_source_account"
	actionSetDestination       = "set_destination_account"
)

// Match selects every rule with at least one description_contains trigger
// whose value is a case-insensitive substring of the description, and whose
// actions set both source and destination accounts. A rule is reported at
// most once no matter how many of its triggers hit. Pure function, no side
// effects.
func Match(description string, candidates []domain.Rule) []domain.Rule {
	lowered := strings.ToLower(description)

	var matched []domain.Rule
	for _, r := range candidates {
		if !hasAction(r, actionSetSource) || !hasAction(r, actionSetDestination) {
			continue
		}
		for _, t := range r.Triggers {
			if t.Type == triggerDescriptionContains && strings.Contains(lowered, strings.ToLower(t.Value)) {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}

// AutoFill derives the accounts a matched rule would assign. The action
// values are account names; when either one is blank the rule cannot be
// applied and the dialogue falls back to manual selection. Only call this
// when Match returned exactly one rule.
func AutoFill(r domain.Rule) (source domain.AccountRef, destination string, ok bool) {
	for _, a := range r.Actions {
		switch a.Type {
		case actionSetSource:
			source.Name = a.Value
		case actionSetDestination:
			destination = a.Value
		}
	}
	return source, destination, source.Name != "" && destination != ""
}

func hasAction(r domain.Rule, actionType string) bool {
	for _, a := range r.Actions {
		if a.Type == actionType {
			return true
		}
	}
	return false
}
