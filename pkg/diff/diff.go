// Package diff decides whether a freshly normalized token collection differs
// structurally from the previously persisted one. Regeneration hinges on this
// answer, so the comparison fails open: anything it cannot compare counts as
// a change. Skipping a regeneration because of a comparison bug is the worse
// failure mode.
package diff

import (
	"encoding/json"
	"fmt"

	"github.com/hellenic-development/token-sync/pkg/token"
)

// Changed reports whether current differs from previous. A nil previous
// (first run, or missing snapshot) is always a change.
func Changed(previous, current *token.TokenCollection) bool {
	changed, _ := Compare(previous, current)
	return changed
}

// Compare is Changed with the first detected difference, for logging.
func Compare(previous, current *token.TokenCollection) (bool, string) {
	if previous == nil {
		return true, "no previous snapshot"
	}
	if current == nil {
		return true, "no current collection"
	}

	if len(previous.Tokens) != len(current.Tokens) {
		return true, fmt.Sprintf("token count changed from %d to %d", len(previous.Tokens), len(current.Tokens))
	}

	prevByName := tokensByName(previous)
	currByName := tokensByName(current)

	for name := range currByName {
		if _, ok := prevByName[name]; !ok {
			return true, fmt.Sprintf("token %q added", name)
		}
	}
	for name := range prevByName {
		if _, ok := currByName[name]; !ok {
			return true, fmt.Sprintf("token %q removed", name)
		}
	}

	for name, curr := range currByName {
		prev := prevByName[name]
		if reason := tokenDiff(prev, curr); reason != "" {
			return true, fmt.Sprintf("token %q: %s", name, reason)
		}
	}

	return false, ""
}

func tokensByName(c *token.TokenCollection) map[string]token.DesignToken {
	m := make(map[string]token.DesignToken, len(c.Tokens))
	for _, tok := range c.Tokens {
		m[tok.Name] = tok
	}
	return m
}

// tokenDiff returns a human-readable reason for the first field mismatch
// between two same-named tokens, or "" when they are equal.
func tokenDiff(prev, curr token.DesignToken) string {
	if prev.Type != curr.Type {
		return fmt.Sprintf("type %q -> %q", prev.Type, curr.Type)
	}
	if prev.Category != curr.Category {
		return fmt.Sprintf("category %q -> %q", prev.Category, curr.Category)
	}
	if prev.Description != curr.Description {
		return "description changed"
	}

	prevValue, ok := canonicalValue(prev.Value)
	if !ok {
		return "previous value not comparable"
	}
	currValue, ok := canonicalValue(curr.Value)
	if !ok {
		return "current value not comparable"
	}
	if prevValue != currValue {
		return fmt.Sprintf("value %s -> %s", prevValue, currValue)
	}

	if len(prev.Attributes) != len(curr.Attributes) {
		return "attribute count changed"
	}
	for k, pv := range prev.Attributes {
		cv, ok := curr.Attributes[k]
		if !ok {
			return fmt.Sprintf("attribute %q removed", k)
		}
		if pv != cv {
			return fmt.Sprintf("attribute %q changed", k)
		}
	}

	if !sameTagSet(prev.Tags, curr.Tags) {
		return "tags changed"
	}

	return ""
}

// canonicalValue serializes a token value deterministically. JSON object keys
// are emitted sorted, so snapshot-loaded values and freshly computed ones
// compare equal regardless of in-memory representation.
func canonicalValue(v any) (string, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, tag := range a {
		set[tag]++
	}
	for _, tag := range b {
		set[tag]--
		if set[tag] < 0 {
			return false
		}
	}
	return true
}
