package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Rules holds the static heuristics used by the scanner. All fields are
// plain data so configuration can extend them.
type Rules struct {
	// ExcludeLines suppress extraction for a whole line when any matches.
	ExcludeLines []*regexp.Regexp
	// ExcludeStrings are literals dropped on exact match.
	ExcludeStrings map[string]bool
	// TechnicalIndicators mark a literal as technical when its lowercased
	// content contains any of them.
	TechnicalIndicators []string
	// UIIndicators mark a line as UI construction (case-sensitive).
	UIIndicators []string
	// SecondaryScript matches runes of the secondary language's script.
	SecondaryScript *regexp.Regexp
}

// DefaultExcludeLines are the line exclusion patterns.
var DefaultExcludeLines = []string{
	`import\s+`,
	`part\s+`,
	`//.*`,
	`/\*.*\*/`,
	`print\s*\(`,
	`debugPrint\s*\(`,
	`assert\s*\(`,
	`throw\s+`,
}

// DefaultExcludeStrings are literals that are never reported.
var DefaultExcludeStrings = []string{
	"", " ", "\n", "\t", "\r", `\n`, `\t`, `\r`,
	"lib/", "assets/", "images/", "sounds/",
	"http", "https", "www", ".com", ".jp",
	"TODO", "FIXME", "DEBUG", "ERROR",
}

// DefaultTechnicalIndicators flag paths, URLs, identifiers and SDK ids.
var DefaultTechnicalIndicators = []string{
	"/", `\\`, ":", ".", "_test", "_debug",
	"localhost", "127.0.0.1", "firebase",
	"ca-app-pub-", "google.com", "android",
}

// DefaultUIIndicators are widget and dialog construction tokens.
var DefaultUIIndicators = []string{
	"Text(", "title:", "subtitle:", "label:", "hint:",
	"AppBar", "AlertDialog", "SnackBar", "tooltip:",
	"ElevatedButton", "TextButton", "IconButton",
}

// DefaultSecondaryScript covers hiragana, katakana, CJK unified ideographs
// and CJK symbols and punctuation.
const DefaultSecondaryScript = `[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}\x{3000}-\x{303F}]`

// DefaultRules returns a fresh copy of the built-in rules.
func DefaultRules() Rules {
	r := Rules{
		ExcludeStrings:      make(map[string]bool, len(DefaultExcludeStrings)),
		TechnicalIndicators: append([]string(nil), DefaultTechnicalIndicators...),
		UIIndicators:        append([]string(nil), DefaultUIIndicators...),
		SecondaryScript:     regexp.MustCompile(DefaultSecondaryScript),
	}
	for _, p := range DefaultExcludeLines {
		r.ExcludeLines = append(r.ExcludeLines, regexp.MustCompile(p))
	}
	for _, s := range DefaultExcludeStrings {
		r.ExcludeStrings[s] = true
	}
	return r
}

// ExcludeLine reports whether extraction is suppressed for line.
func (r Rules) ExcludeLine(line string) bool {
	for _, re := range r.ExcludeLines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Keep reports whether a literal survives the exclusion set, the
// whitespace check and the technical-string check.
func (r Rules) Keep(content string) bool {
	if r.ExcludeStrings[content] {
		return false
	}
	if strings.TrimSpace(content) == "" {
		return false
	}
	return !r.IsTechnical(content)
}

// IsTechnical reports whether content looks like a path, URL, identifier
// or SDK id rather than human-readable text.
func (r Rules) IsTechnical(content string) bool {
	lower := strings.ToLower(content)
	for _, ind := range r.TechnicalIndicators {
		if ind != "" && strings.Contains(lower, strings.ToLower(ind)) {
			return true
		}
	}
	return false
}

// IsUIText reports whether line contains a UI construction token.
func (r Rules) IsUIText(line string) bool {
	for _, ind := range r.UIIndicators {
		if ind != "" && strings.Contains(line, ind) {
			return true
		}
	}
	return false
}

// HasSecondaryScript reports whether content contains secondary-script runes.
func (r Rules) HasSecondaryScript(content string) bool {
	return r.SecondaryScript != nil && r.SecondaryScript.MatchString(content)
}

// literalPatterns match single- and double-quoted literals; a backslash
// escapes the following character, so escaped delimiters stay inside.
var literalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`'([^'\\]*(?:\\.[^'\\]*)*)'`),
	regexp.MustCompile(`"([^"\\]*(?:\\.[^"\\]*)*)"`),
}

// literal is a quoted literal found on a line.
type literal struct {
	start   int // byte offset of the opening delimiter
	content string
}

// literals returns every quoted literal on line in column order. Both quote
// styles are matched independently, so a double-quoted literal nested in a
// single-quoted one is reported as well.
func literals(line string) []literal {
	var out []literal
	for _, re := range literalPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
			out = append(out, literal{start: m[0], content: line[m[2]:m[3]]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}
