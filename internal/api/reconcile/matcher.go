package reconcile

import (
	"math"
	"strings"
)

// Matcher decides whether a free-text place reference matches a
// candidate name. Both inputs arrive already normalized.
type Matcher interface {
	Name() string
	Matches(reference, candidate string) bool
}

// Normalize lower-cases and trims a place name for matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultMatchers returns the matching strategies in their fixed
// priority order. The first strategy producing any candidate wins.
func DefaultMatchers() []Matcher {
	return []Matcher{
		exactMatcher{},
		substringMatcher{},
		aliasMatcher{aliases: landmarkAliases},
		tokenOverlapMatcher{},
	}
}

type exactMatcher struct{}

func (exactMatcher) Name() string { return "exact" }

func (exactMatcher) Matches(reference, candidate string) bool {
	return reference != "" && reference == candidate
}

type substringMatcher struct{}

func (substringMatcher) Name() string { return "substring" }

func (substringMatcher) Matches(reference, candidate string) bool {
	if reference == "" || candidate == "" {
		return false
	}
	return strings.Contains(candidate, reference) || strings.Contains(reference, candidate)
}

// landmarkAliases maps canonical landmark names to known localized or
// alternate spellings. Keys and values are normalized.
var landmarkAliases = map[string][]string{
	"colosseum":           {"colosseo", "anfiteatro flavio", "flavian amphitheatre"},
	"trevi fountain":      {"fontana di trevi"},
	"roman forum":         {"foro romano"},
	"st peter's basilica": {"basilica di san pietro", "san pietro"},
	"sistine chapel":      {"cappella sistina"},
	"spanish steps":       {"piazza di spagna", "scalinata di trinita dei monti"},
	"eiffel tower":        {"tour eiffel"},
	"louvre":              {"musee du louvre", "musée du louvre"},
	"notre dame":          {"notre-dame de paris", "cathedrale notre-dame"},
	"sagrada familia":     {"basilica de la sagrada familia", "basílica de la sagrada família"},
	"park guell":          {"parc guell", "parc güell"},
	"charles bridge":      {"karluv most", "karlův most"},
	"brandenburg gate":    {"brandenburger tor"},
	"acropolis":           {"akropolis", "ακρόπολη"},
	"st mark's square":    {"piazza san marco"},
	"rialto bridge":       {"ponte di rialto"},
	"duomo":               {"duomo di milano", "cattedrale"},
	"alhambra":            {"la alhambra"},
	"red square":          {"krasnaya ploshchad"},
	"hagia sophia":        {"ayasofya"},
}

type aliasMatcher struct {
	aliases map[string][]string
}

func (aliasMatcher) Name() string { return "alias" }

func (m aliasMatcher) Matches(reference, candidate string) bool {
	for canonical, spellings := range m.aliases {
		if !strings.Contains(reference, canonical) {
			continue
		}
		for _, alias := range spellings {
			if strings.Contains(candidate, alias) {
				return true
			}
		}
	}
	return false
}

type tokenOverlapMatcher struct{}

func (tokenOverlapMatcher) Name() string { return "token_overlap" }

// Matches splits both names on whitespace, discards tokens of length
// <= 2, and fires when at least ceil(n*0.5) of the reference's
// significant tokens each overlap (substring, either direction) some
// candidate token. Zero significant tokens never match.
func (tokenOverlapMatcher) Matches(reference, candidate string) bool {
	refTokens := significantTokens(reference)
	if len(refTokens) == 0 {
		return false
	}
	candTokens := significantTokens(candidate)
	if len(candTokens) == 0 {
		return false
	}

	needed := int(math.Ceil(float64(len(refTokens)) * 0.5))
	hits := 0
	for _, rt := range refTokens {
		for _, ct := range candTokens {
			if strings.Contains(ct, rt) || strings.Contains(rt, ct) {
				hits++
				break
			}
		}
	}
	return hits >= needed
}

func significantTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if len(tok) > 2 {
			out = append(out, tok)
		}
	}
	return out
}
