// Package langmeta provides language display metadata (native and English
// names, emoji flags) used in reports and CLI output.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Name is the language's name in its own language.
	Name string
	// English is the English name.
	English string
	// Flag is the emoji flag of the tag's (possibly inferred) region.
	Flag string
}

var englishNamer = display.English.Tags()

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a language code such as "ja",
// "pt_BR" or "en-GB". Unknown codes are returned unchanged as both names
// with no flag.
func Resolve(lang string) Meta {
	unknown := Meta{Name: lang, English: lang}

	tag, err := language.Parse(canonicalize(lang))
	if err != nil || tag == language.Und {
		return unknown
	}

	m := Meta{
		Name:    display.Self.Name(tag),
		English: englishNamer.Name(tag),
	}
	if m.Name == "" {
		m.Name = lang
	}
	if m.English == "" {
		m.English = lang
	}
	if region, conf := tag.Region(); conf != language.No {
		m.Flag = FlagFromRegion(region.String())
	}
	return m
}

// Label returns "Name (English)" or just the name when both agree.
func Label(lang string) string {
	m := Resolve(lang)
	if m.Name == m.English {
		return m.Name
	}
	return m.Name + " (" + m.English + ")"
}

// FlagFromRegion converts a two-letter region code to its emoji flag.
// Anything else yields "".
func FlagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for _, c := range region {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + c - 'A')
	}
	return b.String()
}
