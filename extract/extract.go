// Package extract finds hardcoded string literals in Flutter (Dart) sources.
//
// Extraction is a best-effort, line-granular static scan rather than a
// parser: a line matching any exclusion pattern (imports, comments, debug
// prints, asserts, throws) is skipped entirely, every single- or
// double-quoted literal on the remaining lines is collected, and literals
// that look technical (paths, URLs, identifiers) are dropped. Each surviving
// literal becomes an Occurrence annotated with script detection, a UI-text
// heuristic and a suggested ARB key.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"

	"github.com/minios-linux/arbmigrate/keyname"
)

// Occurrence is one hardcoded literal found in a source file.
type Occurrence struct {
	// Content is the literal text without its quote delimiters.
	Content string `json:"content" yaml:"content"`
	// Line is the 1-based line number.
	Line int `json:"line" yaml:"line"`
	// Column is the 1-based rune offset of the opening delimiter.
	Column int `json:"column" yaml:"column"`
	// Context is the trimmed source line, for human review.
	Context string `json:"context" yaml:"context"`
	// HasSecondaryScript is true when Content contains kana, CJK ideographs
	// or CJK punctuation.
	HasSecondaryScript bool `json:"has_secondary_script" yaml:"has_secondary_script"`
	// IsUIText is true when the line looks like widget construction.
	IsUIText bool `json:"is_ui_text" yaml:"is_ui_text"`
	// SuggestedKey is the proposed ARB key.
	SuggestedKey string `json:"suggested_key" yaml:"suggested_key"`
}

// Result maps a slash-separated path relative to the project root to the
// occurrences found in that file, in encounter order. Files without
// occurrences are absent.
type Result map[string][]Occurrence

// Paths returns the file paths in lexical order.
func (r Result) Paths() []string {
	paths := make([]string, 0, len(r))
	for p := range r {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Total returns the number of occurrences across all files.
func (r Result) Total() int {
	n := 0
	for _, occ := range r {
		n += len(occ)
	}
	return n
}

// skipDirs contains directory names to skip during source file scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".dart_tool":   true,
	".pub-cache":   true,
	".idea":        true,
	"build":        true,
	"node_modules": true,
}

// Scanner walks a project's source directory and extracts occurrences.
type Scanner struct {
	// Root is the project root; result paths are relative to it.
	Root string
	// SourceDir is the directory under Root to scan (default "lib").
	SourceDir string
	// Extension selects source files (default ".dart").
	Extension string
	// Exclude skips files whose relative slash path matches any glob.
	Exclude []glob.Glob
	// Rules control line exclusion, literal filtering and annotation.
	Rules Rules
	// Keys suggests ARB keys.
	Keys *keyname.Synthesizer
}

// NewScanner returns a Scanner for a Flutter project rooted at root using
// the default rules and key tables.
func NewScanner(root string) *Scanner {
	return &Scanner{
		Root:      root,
		SourceDir: "lib",
		Extension: ".dart",
		Rules:     DefaultRules(),
		Keys:      keyname.Default(),
	}
}

// Sources recursively finds all source files under Root/SourceDir, sorted.
// A missing source directory yields no files. Unreadable entries are
// skipped.
func (s *Scanner) Sources() ([]string, error) {
	dir := filepath.Join(s.Root, s.SourceDir)
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if path != dir && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != s.Extension {
			return nil
		}
		if s.excluded(s.Rel(path)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) excluded(rel string) bool {
	for _, g := range s.Exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Rel returns path relative to Root with forward slashes. Paths outside
// Root are returned cleaned but otherwise unchanged.
func (s *Scanner) Rel(path string) string {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

// Scan extracts occurrences from every source file. Files that cannot be
// read or decoded are skipped; their errors are returned together as a
// *multierror.Error alongside the partial result, which is never nil.
func (s *Scanner) Scan() (Result, error) {
	result := make(Result)

	files, err := s.Sources()
	if err != nil {
		return result, err
	}

	var errs *multierror.Error
	for _, path := range files {
		occ, err := s.ScanFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if len(occ) > 0 {
			result[s.Rel(path)] = occ
		}
	}
	return result, errs.ErrorOrNil()
}

// ReadSource reads a source file and checks that it is valid UTF-8.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decoding %s: not valid UTF-8", path)
	}
	return string(data), nil
}

// ScanFile extracts occurrences from a single file.
func (s *Scanner) ScanFile(path string) ([]Occurrence, error) {
	text, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return s.ScanText(text), nil
}

// ScanText extracts occurrences from source text.
func (s *Scanner) ScanText(text string) []Occurrence {
	keys := s.Keys
	if keys == nil {
		keys = keyname.Default()
	}

	var out []Occurrence
	for i, line := range strings.Split(text, "\n") {
		if s.Rules.ExcludeLine(line) {
			continue
		}
		for _, lit := range literals(line) {
			if !s.Rules.Keep(lit.content) {
				continue
			}
			out = append(out, Occurrence{
				Content:            lit.content,
				Line:               i + 1,
				Column:             utf8.RuneCountInString(line[:lit.start]) + 1,
				Context:            strings.TrimSpace(line),
				HasSecondaryScript: s.Rules.HasSecondaryScript(lit.content),
				IsUIText:           s.Rules.IsUIText(line),
				SuggestedKey:       keys.Suggest(lit.content, line),
			})
		}
	}
	return out
}
