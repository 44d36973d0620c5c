package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// Word tables driving city extraction. Entries are plain words or phrases;
// multi-word phrases match with flexible whitespace between words.
var (
	// markerWords introduce the place a station sits at or near.
	markerWords = []string{"AT", "NEAR", "NR", "ABOVE", "BELOW"}

	// structuralSuffixes are administrative or structural words trailing the
	// place name, e.g. "LAKE TAHOE DAM" or "ALAMOSA CO".
	structuralSuffixes = []string{"CO", "COUNTY", "RES", "RESERVOIR", "DAM", "GATE", "DIVERSION", "GAGING STATION"}

	// featureTerms name waterways and water bodies. A candidate containing
	// one describes the water, not a settlement.
	featureTerms = []string{"RIVER", "CREEK", "CRK", "FORK", "BRANCH", "BAYOU", "CANAL", "SLOUGH", "BROOK", "LAKE", "WASH"}

	// directionals stay upper case after title-casing.
	directionals = []string{"NW", "NE", "SE", "SW"}
)

var (
	// markerRe captures the text after the first marker word up to the next
	// comma: "PECOS RIVER NEAR ARTESIA, NM" -> "ARTESIA".
	markerRe = regexp.MustCompile(`(?i)\b(?:` + alternation(markerWords) + `)\s+([^,]+)`)

	structuralRe  = regexp.MustCompile(`(?i)\b(?:` + alternation(structuralSuffixes) + `)\b\.?$`)
	featureRe     = regexp.MustCompile(`(?i)\b(?:` + alternation(featureTerms) + `)\b`)
	directionalRe = regexp.MustCompile(`(?i)\b(?:` + alternation(directionals) + `)\b`)
)

// statePatterns holds the state-specific expressions used while extracting.
// Nil fields are skipped.
type statePatterns struct {
	code *regexp.Regexp // trailing postal code, optional period
	name *regexp.Regexp // trailing full state name, optional period
	tail *regexp.Regexp // ", ST" following the place in marker-less names
}

var knownStatePatterns = func() map[string]*statePatterns {
	m := make(map[string]*statePatterns, len(States))
	for _, st := range States {
		m[st] = compileStatePatterns(st)
	}
	return m
}()

func patternsFor(state string) *statePatterns {
	state = strings.ToUpper(strings.TrimSpace(state))
	if p, ok := knownStatePatterns[state]; ok {
		return p
	}
	return compileStatePatterns(state)
}

func compileStatePatterns(state string) *statePatterns {
	p := &statePatterns{}
	if state == "" {
		return p
	}
	q := regexp.QuoteMeta(state)
	p.code = regexp.MustCompile(`(?i)\b` + q + `\b\.?$`)
	p.tail = regexp.MustCompile(`(?i),\s*` + q + `\b`)
	if full := StateName(state); full != "" {
		p.name = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(full) + `\b\.?$`)
	}
	return p
}

// cityRule is one extraction strategy. ok reports whether the rule applied;
// an applied rule ends extraction even when it yields "".
type cityRule struct {
	name  string
	apply func(s string, p *statePatterns) (city string, ok bool)
}

// cityRules run in priority order.
var cityRules = []cityRule{
	{name: "marker", apply: markerCity},
	{name: "state-tail", apply: stateTailCity},
}

// ExtractCity derives a settlement name from a USGS station name, or returns
// "" when no confident extraction is possible. state is the two-letter code
// of the state the station was listed under.
func ExtractCity(name, state string) string {
	s := strings.Join(strings.Fields(name), " ")
	if s == "" {
		return ""
	}
	p := patternsFor(state)
	for _, r := range cityRules {
		if city, ok := r.apply(s, p); ok {
			return city
		}
	}
	return ""
}

// markerCity handles "<water> AT|NEAR|NR|ABOVE|BELOW <place>[, ...]".
func markerCity(s string, p *statePatterns) (string, bool) {
	m := markerRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	candidate := strings.TrimSpace(m[1])
	candidate = trimTrailing(candidate, p.code)
	candidate = trimTrailing(candidate, p.name)
	candidate = trimTrailing(candidate, structuralRe)
	if featureRe.MatchString(candidate) {
		return "", true
	}
	return TitleCaseCity(candidate), true
}

// stateTailCity handles "<...>, <place>, ST" names without a marker word.
func stateTailCity(s string, p *statePatterns) (string, bool) {
	if p.tail == nil {
		return "", false
	}
	loc := p.tail.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	before := s[:loc[0]]
	if i := strings.LastIndexByte(before, ','); i >= 0 {
		before = before[i+1:]
	}
	candidate := strings.TrimSpace(before)
	if candidate == "" || featureRe.MatchString(candidate) {
		return "", true
	}
	return TitleCaseCity(candidate), true
}

// trimTrailing removes a single match of re anchored at the end of s.
func trimTrailing(s string, re *regexp.Regexp) string {
	if re == nil {
		return s
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return strings.TrimSpace(s[:loc[0]])
}

// TitleCaseCity capitalizes each word of s, treating whitespace and the
// characters - ' / . as word separators, and keeps compass abbreviations
// (NW, NE, SE, SW) upper case: "nw o'fallon-st. louis" -> "NW O'Fallon-St. Louis".
func TitleCaseCity(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for _, r := range strings.ToLower(s) {
		if isWordSeparator(r) {
			b.WriteRune(r)
			atWordStart = true
			continue
		}
		if atWordStart {
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		b.WriteRune(r)
	}
	city := directionalRe.ReplaceAllStringFunc(b.String(), strings.ToUpper)
	return strings.TrimSpace(city)
}

func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(`-'/.`, r)
}

func alternation(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = phrasePattern(w)
	}
	return strings.Join(parts, "|")
}

// phrasePattern quotes each word of phrase and allows any whitespace
// (including none) between them.
func phrasePattern(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s*`)
}
