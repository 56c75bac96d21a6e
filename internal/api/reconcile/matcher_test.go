package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactMatcher(t *testing.T) {
	m := exactMatcher{}

	assert.True(t, m.Matches("colosseo", "colosseo"))
	assert.False(t, m.Matches("colosseo", "colosseum"))
	assert.False(t, m.Matches("", ""))
}

func TestSubstringMatcher(t *testing.T) {
	m := substringMatcher{}

	// Reference inside candidate
	assert.True(t, m.Matches("trevi", "fontana di trevi"))
	// Candidate inside reference
	assert.True(t, m.Matches("visit fontana di trevi today", "fontana di trevi"))
	assert.False(t, m.Matches("pantheon", "fontana di trevi"))
	assert.False(t, m.Matches("", "fontana di trevi"))
	assert.False(t, m.Matches("pantheon", ""))
}

func TestAliasMatcher(t *testing.T) {
	m := aliasMatcher{aliases: landmarkAliases}

	// "anfiteatro flavio" shares no substring with "colosseum"; only the
	// alias table can connect them.
	assert.True(t, m.Matches("visit the colosseum", "anfiteatro flavio"))
	assert.True(t, m.Matches("colosseum", "colosseo"))
	assert.True(t, m.Matches("trevi fountain", "fontana di trevi"))
	assert.True(t, m.Matches("roman forum ruins", "foro romano"))
	assert.False(t, m.Matches("colosseum", "fontana di trevi"))
	assert.False(t, m.Matches("pantheon", "colosseo"))
}

func TestTokenOverlapMatcher(t *testing.T) {
	m := tokenOverlapMatcher{}

	// "central" and "terminal" both overlap, "grand" does not: 2 of 3.
	assert.True(t, m.Matches("grand central terminal", "central terminal"))
	assert.False(t, m.Matches("grand central terminal", "piazza navona"))
	// Substring works in both directions between tokens.
	assert.True(t, m.Matches("trevi", "fontana di trevi"))
	assert.True(t, m.Matches("fontana di trevi", "trevi"))
}

func TestTokenOverlapThresholdBoundaries(t *testing.T) {
	m := tokenOverlapMatcher{}

	tests := []struct {
		name      string
		reference string
		candidate string
		want      bool
	}{
		// n=1, needed=ceil(0.5)=1
		{"n1 one hit", "colosseo", "colosseo arena", true},
		{"n1 no hits", "pantheon", "colosseo arena", false},
		// n=2, needed=ceil(1.0)=1
		{"n2 one of two", "borghese pantheon", "galleria borghese", true},
		{"n2 none of two", "trevi fountain", "galleria borghese", false},
		// n=3, needed=ceil(1.5)=2
		{"n3 two of three", "grand central terminal", "central terminal", true},
		{"n3 one of three", "grand central views", "central terminal", false},
		// n=4, needed=ceil(2.0)=2
		{"n4 two of four", "grand central station tour", "central station", true},
		{"n4 one of four", "grand central museum walk", "central park", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.reference, tt.candidate))
		})
	}
}

func TestTokenOverlapZeroSignificantTokens(t *testing.T) {
	m := tokenOverlapMatcher{}

	// All tokens of length <= 2 are discarded; the strategy never fires.
	assert.False(t, m.Matches("a b cd", "colosseo"))
	assert.False(t, m.Matches("", "colosseo"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "colosseum", Normalize("  Colosseum "))
	assert.Equal(t, "fontana di trevi", Normalize("Fontana di Trevi"))
}
