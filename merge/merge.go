// Package merge builds ARB candidate entries from scan results.
//
// Occurrences from every file are ordered by priority (UI text first, then
// secondary-script text, then content) and passed through an explicit filter
// that drops repeated content, keys already present in the existing base
// resource, and keys already emitted in this run. Survivors become new base
// entries with "@key" metadata, plus secondary-language entries for text in
// the secondary script. Existing resources are never modified.
package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/arbmigrate/arbfile"
	"github.com/minios-linux/arbmigrate/extract"
)

// Options configure candidate generation.
type Options struct {
	// BaseLang and SecondaryLang label the two candidate resources.
	BaseLang      string
	SecondaryLang string
	// Placeholder is the base value for secondary-script content.
	Placeholder string
}

// CandidateSet holds net-new entries for the base and secondary resources.
type CandidateSet struct {
	BaseLang      string
	SecondaryLang string
	Base          *arbfile.File
	Secondary     *arbfile.File

	// SkippedExisting counts occurrences whose key is already in the
	// existing base resource.
	SkippedExisting int
	// SkippedDuplicate counts occurrences dropped for repeated content or a
	// key already emitted in this run.
	SkippedDuplicate int
}

// Item is a single occurrence with the file it came from.
type Item struct {
	Path string
	extract.Occurrence
}

// Prioritize flattens result (files in path order, occurrences in encounter
// order) and sorts it stably: UI text first, then secondary-script text,
// then content in ascending order.
func Prioritize(result extract.Result) []Item {
	var items []Item
	for _, path := range result.Paths() {
		for _, occ := range result[path] {
			items = append(items, Item{Path: path, Occurrence: occ})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsUIText != b.IsUIText {
			return a.IsUIText
		}
		if a.HasSecondaryScript != b.HasSecondaryScript {
			return a.HasSecondaryScript
		}
		return a.Content < b.Content
	})
	return items
}

// filter is the owned working state of one Build run.
type filter struct {
	existing    *arbfile.File
	seenContent map[string]bool
	emitted     map[string]bool
}

type verdict int

const (
	accept verdict = iota
	duplicate
	existing
)

func (f *filter) check(it Item) verdict {
	if f.seenContent[it.Content] {
		return duplicate
	}
	f.seenContent[it.Content] = true

	if f.existing != nil && f.existing.Has(it.SuggestedKey) {
		return existing
	}
	if f.emitted[it.SuggestedKey] {
		return duplicate
	}
	f.emitted[it.SuggestedKey] = true
	return accept
}

// Build produces the candidate set for result. existingBase and
// existingSecondary may be nil (treated as empty).
func Build(result extract.Result, existingBase, existingSecondary *arbfile.File, opts Options) *CandidateSet {
	set := &CandidateSet{
		BaseLang:      opts.BaseLang,
		SecondaryLang: opts.SecondaryLang,
		Base:          arbfile.New(opts.BaseLang),
		Secondary:     arbfile.New(opts.SecondaryLang),
	}

	f := &filter{
		existing:    existingBase,
		seenContent: make(map[string]bool),
		emitted:     make(map[string]bool),
	}

	for _, it := range Prioritize(result) {
		switch f.check(it) {
		case duplicate:
			set.SkippedDuplicate++
			continue
		case existing:
			set.SkippedExisting++
			continue
		}

		key := it.SuggestedKey
		value := it.Content
		if it.HasSecondaryScript {
			value = opts.Placeholder
		}
		set.Base.Add(key, value)
		_ = set.Base.SetMeta(key, arbfile.Meta{
			Description: Describe(it.Occurrence),
			SourceFile:  it.Path,
			SourceLine:  it.Line,
		})

		if it.HasSecondaryScript && (existingSecondary == nil || !existingSecondary.Has(key)) {
			set.Secondary.Add(key, it.Content)
		}
	}

	return set
}

// Describe returns the metadata description for an occurrence.
func Describe(occ extract.Occurrence) string {
	if !occ.IsUIText {
		return "Text content: " + occ.Content
	}
	key := strings.ToLower(occ.SuggestedKey)
	switch {
	case strings.Contains(key, "button"):
		return "Button label: " + occ.Content
	case strings.Contains(key, "error"):
		return "Error message: " + occ.Content
	case strings.Contains(key, "title"):
		return "Title text: " + occ.Content
	default:
		return "UI text: " + occ.Content
	}
}

// MarshalJSON writes {"<base>": {...}, "<secondary>": {...}} with entries
// in emission order.
func (c *CandidateSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, part := range []struct {
		lang string
		file *arbfile.File
	}{{c.BaseLang, c.Base}, {c.SecondaryLang, c.Secondary}} {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(part.lang)
		if err != nil {
			return nil, err
		}
		body, err := part.file.Marshal()
		if err != nil {
			return nil, fmt.Errorf("encoding %s candidates: %w", part.lang, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML mirrors MarshalJSON.
func (c *CandidateSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, part := range []struct {
		lang string
		file *arbfile.File
	}{{c.BaseLang, c.Base}, {c.SecondaryLang, c.Secondary}} {
		v, err := part.file.MarshalYAML()
		if err != nil {
			return nil, fmt.Errorf("encoding %s candidates: %w", part.lang, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: part.lang},
			v.(*yaml.Node))
	}
	return node, nil
}
