// Package config holds arbmigrate's project settings: where sources and ARB
// resources live, which languages are involved, and extensions to the
// scanner's heuristic tables. Defaults describe a standard Flutter project
// (lib/ sources, lib/l10n/app_LANG.arb resources, English base language and
// Japanese secondary language); a .arbmigrate.yaml file in the project root
// overrides them.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/language"

	"github.com/minios-linux/arbmigrate/extract"
	"github.com/minios-linux/arbmigrate/keyname"
)

// Default values.
const (
	DefaultSourceDir     = "lib"
	DefaultExtension     = ".dart"
	DefaultL10nDir       = "lib/l10n"
	DefaultARBTemplate   = "app_{lang}.arb"
	DefaultBaseLang      = "en"
	DefaultSecondaryLang = "ja"
	DefaultLookupPattern = "AppLocalizations.of(context)"
	DefaultPlaceholder   = "[TRANSLATION_NEEDED]"
)

// langPlaceholder is replaced by the language code in ARBTemplate.
const langPlaceholder = "{lang}"

// Config is the resolved project configuration.
type Config struct {
	// SourceDir is the directory scanned for sources, relative to Root.
	SourceDir string `yaml:"source_dir,omitempty"`
	// Extension selects source files.
	Extension string `yaml:"extension,omitempty"`
	// L10nDir holds the ARB resources, relative to Root.
	L10nDir string `yaml:"l10n_dir,omitempty"`
	// ARBTemplate is the resource file name; "{lang}" is replaced.
	ARBTemplate string `yaml:"arb_template,omitempty"`
	// BaseLang is the base (template) language of the ARB resources.
	BaseLang string `yaml:"base_lang,omitempty"`
	// SecondaryLang is the language detected by script in hardcoded text.
	SecondaryLang string `yaml:"secondary_lang,omitempty"`
	// LookupPattern is the call-site text of a localized lookup.
	LookupPattern string `yaml:"lookup_pattern,omitempty"`
	// Placeholder is the base-language value of entries needing translation.
	Placeholder string `yaml:"placeholder,omitempty"`

	// Exclude lists glob patterns of source paths (relative, slash
	// separated) to skip, e.g. "**/*.g.dart".
	Exclude []string `yaml:"exclude,omitempty"`
	// KeyMappings extends the phrase → key dictionary.
	KeyMappings map[string]string `yaml:"key_mappings,omitempty"`
	// UIIndicators extends the UI construction tokens.
	UIIndicators []string `yaml:"ui_indicators,omitempty"`
	// TechnicalIndicators extends the technical-string substrings.
	TechnicalIndicators []string `yaml:"technical_indicators,omitempty"`
	// ExcludeStrings extends the exact-match literal exclusions.
	ExcludeStrings []string `yaml:"exclude_strings,omitempty"`

	// Root is the project root directory.
	Root string `yaml:"-"`
	// Path is the configuration file that was loaded ("" for defaults).
	Path string `yaml:"-"`

	excludeGlobs []glob.Glob
}

// Default returns the built-in configuration for root.
func Default(root string) *Config {
	return &Config{
		SourceDir:     DefaultSourceDir,
		Extension:     DefaultExtension,
		L10nDir:       DefaultL10nDir,
		ARBTemplate:   DefaultARBTemplate,
		BaseLang:      DefaultBaseLang,
		SecondaryLang: DefaultSecondaryLang,
		LookupPattern: DefaultLookupPattern,
		Placeholder:   DefaultPlaceholder,
		Root:          root,
	}
}

// Validate checks language tags, the ARB template and exclude globs, and
// compiles the globs.
func (c *Config) Validate() error {
	where := c.Path
	if where == "" {
		where = "configuration"
	}

	for _, lang := range []string{c.BaseLang, c.SecondaryLang} {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("%s: invalid language %q: %w", where, lang, err)
		}
	}
	if c.BaseLang == c.SecondaryLang {
		return fmt.Errorf("%s: base_lang and secondary_lang are both %q", where, c.BaseLang)
	}
	if !strings.Contains(c.ARBTemplate, langPlaceholder) {
		return fmt.Errorf("%s: arb_template %q must contain %s", where, c.ARBTemplate, langPlaceholder)
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("%s: extension %q must start with a dot", where, c.Extension)
	}
	if c.LookupPattern == "" {
		return fmt.Errorf("%s: lookup_pattern must not be empty", where)
	}

	c.excludeGlobs = c.excludeGlobs[:0]
	for _, pattern := range c.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return fmt.Errorf("%s: invalid exclude pattern %q: %w", where, pattern, err)
		}
		c.excludeGlobs = append(c.excludeGlobs, g)
	}
	return nil
}

// ARBPath returns the path of lang's resource under Root.
func (c *Config) ARBPath(lang string) string {
	return filepath.Join(c.Root, c.L10nDir, c.ARBName(lang))
}

// ARBName returns the resource file name of lang.
func (c *Config) ARBName(lang string) string {
	return strings.ReplaceAll(c.ARBTemplate, langPlaceholder, lang)
}

// OutputPath resolves a user-supplied output path; relative paths are
// taken relative to Root.
func (c *Config) OutputPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// Keys returns the key synthesizer with the configured phrase extensions.
func (c *Config) Keys() *keyname.Synthesizer {
	keys := keyname.Default()
	keys.AddPhrases(c.KeyMappings)
	return keys
}

// Scanner returns a source scanner configured for this project.
// Validate must have been called first for exclude globs to apply.
func (c *Config) Scanner() *extract.Scanner {
	rules := extract.DefaultRules()
	rules.UIIndicators = append(rules.UIIndicators, c.UIIndicators...)
	rules.TechnicalIndicators = append(rules.TechnicalIndicators, c.TechnicalIndicators...)
	for _, s := range c.ExcludeStrings {
		rules.ExcludeStrings[s] = true
	}

	return &extract.Scanner{
		Root:      c.Root,
		SourceDir: c.SourceDir,
		Extension: c.Extension,
		Exclude:   append([]glob.Glob(nil), c.excludeGlobs...),
		Rules:     rules,
		Keys:      c.Keys(),
	}
}
