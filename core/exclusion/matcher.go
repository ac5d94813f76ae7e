package exclusion

import (
	"strings"

	"inventory-reconciler/core/inventory"
)

// Matcher tests item ids and names against a compiled exclusion set.
// The zero value and a nil Matcher exclude nothing.
type Matcher struct {
	patterns []string
	folded   []string
}

// Compile builds a Matcher. Blank patterns are ignored; surrounding
// whitespace is trimmed but inner whitespace is kept as written.
func Compile(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m.patterns = append(m.patterns, p)
		m.folded = append(m.folded, strings.ToLower(p))
	}
	return m
}

// Test reports whether either value contains any pattern.
func (m *Matcher) Test(itemID, displayName string) bool {
	if m == nil || len(m.folded) == 0 {
		return false
	}
	id := strings.ToLower(itemID)
	name := strings.ToLower(displayName)
	for _, p := range m.folded {
		if strings.Contains(id, p) || strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Match returns the first pattern excluding the values, as originally entered.
func (m *Matcher) Match(itemID, displayName string) (string, bool) {
	if m == nil {
		return "", false
	}
	id := strings.ToLower(itemID)
	name := strings.ToLower(displayName)
	for i, p := range m.folded {
		if strings.Contains(id, p) || strings.Contains(name, p) {
			return m.patterns[i], true
		}
	}
	return "", false
}

// Patterns returns the active patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// Len returns the number of active patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Filter returns the items that are not excluded, preserving order.
func (m *Matcher) Filter(items []inventory.Item) []inventory.Item {
	kept := make([]inventory.Item, 0, len(items))
	for _, item := range items {
		if !m.Test(item.ItemID, item.DisplayName) {
			kept = append(kept, item)
		}
	}
	return kept
}
