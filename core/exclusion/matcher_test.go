package exclusion

import (
	"testing"

	"inventory-reconciler/core/inventory"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_Test(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		id       string
		display  string
		want     bool
	}{
		{"NoPatterns", nil, "ANY", "Thing", false},
		{"BlankPatternsIgnored", []string{"", "   "}, "ANY", "Thing", false},
		{"IDContains", []string{"test"}, "OATH-A1-TEST", "", true},
		{"NameContains", []string{"sample"}, "X1", "Free Sample Pack", true},
		{"CaseInsensitive", []string{"A1-TeSt"}, "oath-a1-test", "", true},
		{"LiteralWhitespace", []string{"a1 test"}, "OATH-A1-TEST", "", false},
		{"WhitespaceNotFlexible", []string{"a1 test"}, "a1testing", "", false},
		{"WhitespaceLiteralMatch", []string{"a1 test"}, "", "OATH A1 TEST kit", true},
		{"OneDirectional", []string{"oath-a1-test-extended"}, "OATH-A1-TEST", "", false},
		{"RegexMetaIsLiteral", []string{"a.c"}, "abc", "", false},
		{"RegexMetaMatchesLiteral", []string{"a.c"}, "xa.cx", "", true},
		{"AnyPatternMatches", []string{"zzz", "b2"}, "B2-9", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compile(tt.patterns)
			assert.Equal(t, tt.want, m.Test(tt.id, tt.display))
		})
	}
}

func TestMatcher_NilSafe(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Test("a", "b"))
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Patterns())
	_, ok := m.Match("a", "b")
	assert.False(t, ok)
}

func TestMatcher_Match(t *testing.T) {
	m := Compile([]string{" Demo ", "retired"})
	assert.Equal(t, []string{"Demo", "retired"}, m.Patterns())

	p, ok := m.Match("X", "RETIRED widget")
	assert.True(t, ok)
	assert.Equal(t, "retired", p)
}

func TestMatcher_Filter(t *testing.T) {
	m := Compile([]string{"demo"})
	items := []inventory.Item{
		{ItemID: "A", DisplayName: "Alpha"},
		{ItemID: "DEMO-1", DisplayName: "Beta"},
		{ItemID: "C", DisplayName: "Demo Gamma"},
		{ItemID: "D", DisplayName: "Delta"},
	}

	kept := m.Filter(items)
	assert.Len(t, kept, 2)
	assert.Equal(t, "A", kept[0].ItemID)
	assert.Equal(t, "D", kept[1].ItemID)
}
