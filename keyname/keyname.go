// Package keyname derives ARB lookup keys from hardcoded string content.
//
// A key is chosen in priority order:
//
//  1. An exact phrase → key dictionary (e.g. "はじめる" → "buttonStart").
//  2. Content categories: indicator words in the lowercased content select a
//     prefix ("button", "error", "message") followed by the title-cased
//     content with whitespace removed.
//  3. Context categories: indicator tokens in the surrounding source line
//     (e.g. "title:") select a prefix followed by the cleaned content.
//  4. The default "text" prefix followed by the cleaned content.
//
// All tables are plain data on Synthesizer so callers can extend them from
// configuration without touching the selection logic.
package keyname

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category maps a set of indicator words to a key prefix.
type Category struct {
	// Prefix is prepended to the generated suffix (e.g. "button").
	Prefix string
	// Words are substrings that select this category. Content categories
	// compare them against the lowercased content; context categories
	// compare them against the raw source line.
	Words []string
	// Limit is the number of runes of content kept before casing (0 = all).
	Limit int
	// Clean strips punctuation and symbols from the content first.
	Clean bool
}

// matches reports whether s contains any of the category's words.
func (c Category) matches(s string) bool {
	for _, w := range c.Words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Synthesizer maps string content to a suggested ARB key.
type Synthesizer struct {
	// Phrases is the curated exact-match dictionary.
	Phrases map[string]string
	// Categories are checked in order against the lowercased content.
	Categories []Category
	// ContextCategories are checked in order against the source line.
	ContextCategories []Category
	// DefaultPrefix is used when nothing else matches.
	DefaultPrefix string
	// DefaultLimit is the rune limit of the default suffix.
	DefaultLimit int
}

// DefaultPhrases is the curated dictionary of common menu and status phrases.
var DefaultPhrases = map[string]string{
	"はじめる":  "buttonStart",
	"つづきから": "buttonContinue",
	"あそびかた": "buttonHowToPlay",
	"設定":    "settings",
	"閉じる":   "buttonClose",
	"キャンセル": "buttonCancel",
	"確認":    "buttonConfirm",
	"戻る":    "back",
	"エラー":   "error",
	"成功":    "success",
}

// Default returns a Synthesizer populated with the built-in tables.
// The returned value owns its maps and slices.
func Default() *Synthesizer {
	phrases := make(map[string]string, len(DefaultPhrases))
	for k, v := range DefaultPhrases {
		phrases[k] = v
	}
	return &Synthesizer{
		Phrases: phrases,
		Categories: []Category{
			{Prefix: "button", Words: []string{"button", "click", "tap"}},
			{Prefix: "error", Words: []string{"error", "failed", "エラー"}, Limit: 10},
			{Prefix: "message", Words: []string{"message", "msg"}, Limit: 10},
		},
		ContextCategories: []Category{
			{Prefix: "title", Words: []string{"title:"}, Limit: 20, Clean: true},
		},
		DefaultPrefix: "text",
		DefaultLimit:  20,
	}
}

// AddPhrases merges extra phrase → key mappings into the dictionary.
// Existing entries are replaced.
func (s *Synthesizer) AddPhrases(extra map[string]string) {
	if s.Phrases == nil {
		s.Phrases = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		if k != "" && v != "" {
			s.Phrases[k] = v
		}
	}
}

// Suggest returns the key for content found on the given source line.
// The result is never empty.
func (s *Synthesizer) Suggest(content, line string) string {
	if key, ok := s.Phrases[content]; ok && key != "" {
		return key
	}

	lower := strings.ToLower(content)
	for _, c := range s.Categories {
		if c.matches(lower) {
			return c.Prefix + suffix(content, c.Limit, c.Clean)
		}
	}

	for _, c := range s.ContextCategories {
		if c.matches(line) {
			return c.Prefix + suffix(content, c.Limit, c.Clean)
		}
	}

	prefix := s.DefaultPrefix
	if prefix == "" {
		prefix = "text"
	}
	return prefix + suffix(content, s.DefaultLimit, true)
}

// nonWord matches runes that are neither word characters nor whitespace.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}]`)

func suffix(content string, limit int, clean bool) string {
	if clean {
		content = nonWord.ReplaceAllString(content, "")
	}
	content = truncate(content, limit)
	content = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, content)
	return TitleCase(content)
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. Scripts without case are returned unchanged.
func TitleCase(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
