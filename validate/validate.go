// Package validate reports how far a project's migration to ARB lookups has
// progressed: the state of the base and secondary resources, how often the
// localized lookup is called, and which hardcoded strings remain.
package validate

import (
	"strings"

	"github.com/samber/lo"

	"github.com/minios-linux/arbmigrate/arbfile"
	"github.com/minios-linux/arbmigrate/config"
	"github.com/minios-linux/arbmigrate/extract"
)

// ResourceStatus describes one ARB resource.
type ResourceStatus struct {
	Lang   string `json:"lang" yaml:"lang"`
	Path   string `json:"path" yaml:"path"`
	Exists bool   `json:"exists" yaml:"exists"`
	// StringCount counts translatable (non-"@") keys.
	StringCount int `json:"string_count" yaml:"string_count"`
	// MissingMetadata lists keys without an "@key" entry. Only checked for
	// the base resource.
	MissingMetadata []string `json:"missing_metadata,omitempty" yaml:"missing_metadata,omitempty"`
	// LoadError is set when the resource exists but could not be parsed;
	// it is then counted as empty.
	LoadError string `json:"load_error,omitempty" yaml:"load_error,omitempty"`
}

// UsageStatus counts localized lookup call sites.
type UsageStatus struct {
	TotalUsageCount int      `json:"total_usage_count" yaml:"total_usage_count"`
	FilesCount      int      `json:"files_count" yaml:"files_count"`
	FilesWithUsage  []string `json:"files_with_usage" yaml:"files_with_usage"`
}

// Progress summarizes the remaining hardcoded strings.
type Progress struct {
	TotalFiles          int     `json:"total_dart_files" yaml:"total_dart_files"`
	FilesWithHardcoded  int     `json:"files_with_hardcoded" yaml:"files_with_hardcoded"`
	TotalHardcoded      int     `json:"total_hardcoded_strings" yaml:"total_hardcoded_strings"`
	UITextRemaining     int     `json:"ui_text_remaining" yaml:"ui_text_remaining"`
	MigrationPercentage float64 `json:"migration_percentage" yaml:"migration_percentage"`
}

// Below reports whether the migration percentage is under threshold.
func (p Progress) Below(threshold float64) bool {
	return p.MigrationPercentage < threshold
}

// Status is the full migration status of a project.
type Status struct {
	BaseLang      string                     `json:"base_lang" yaml:"base_lang"`
	SecondaryLang string                     `json:"secondary_lang" yaml:"secondary_lang"`
	Resources     map[string]*ResourceStatus `json:"arb_files" yaml:"arb_files"`
	Usage         UsageStatus                `json:"localization_usage" yaml:"localization_usage"`
	Remaining     extract.Result             `json:"remaining_hardcoded" yaml:"remaining_hardcoded"`
	Progress      Progress                   `json:"migration_progress" yaml:"migration_progress"`
}

// Base returns the status of the base resource.
func (s *Status) Base() *ResourceStatus { return s.Resources[s.BaseLang] }

// Secondary returns the status of the secondary resource.
func (s *Status) Secondary() *ResourceStatus { return s.Resources[s.SecondaryLang] }

// Validator computes a Status for one project.
type Validator struct {
	Config *config.Config
	// Scanner defaults to Config.Scanner().
	Scanner *extract.Scanner

	OnLog   func(format string, args ...any)
	OnError func(format string, args ...any)
}

func (v *Validator) log(format string, args ...any) {
	if v.OnLog != nil {
		v.OnLog(format, args...)
	}
}

func (v *Validator) logError(format string, args ...any) {
	if v.OnError != nil {
		v.OnError(format, args...)
	} else if v.OnLog != nil {
		v.OnLog(format, args...)
	}
}

// Run computes the migration status. Per-file read failures do not stop
// the run: the returned Status is complete and the error, if non-nil, is a
// *multierror.Error listing the skipped files. A nil Status means the
// source tree could not be walked at all.
func (v *Validator) Run() (*Status, error) {
	cfg := v.Config
	scanner := v.Scanner
	if scanner == nil {
		scanner = cfg.Scanner()
	}

	status := &Status{
		BaseLang:      cfg.BaseLang,
		SecondaryLang: cfg.SecondaryLang,
		Resources:     make(map[string]*ResourceStatus, 2),
	}
	for _, lang := range []string{cfg.BaseLang, cfg.SecondaryLang} {
		status.Resources[lang] = v.resource(lang, cfg.ARBPath(lang), lang == cfg.BaseLang)
	}

	files, err := scanner.Sources()
	if err != nil {
		return nil, err
	}
	status.Usage = usage(scanner, files, cfg.LookupPattern)
	v.log("%d source files, %d with localized lookups", len(files), status.Usage.FilesCount)

	remaining, scanErr := scanner.Scan()
	status.Remaining = remaining
	status.Progress = progress(len(files), remaining)

	return status, scanErr
}

func (v *Validator) resource(lang, path string, base bool) *ResourceStatus {
	rs := &ResourceStatus{Lang: lang, Path: path}

	f, exists, err := arbfile.Load(path)
	rs.Exists = exists
	if err != nil {
		v.logError("Cannot load %s: %v", path, err)
		rs.LoadError = err.Error()
	}
	if !exists {
		return rs
	}

	rs.StringCount = f.Len()
	if base {
		rs.MissingMetadata = f.MissingMetadata()
	}
	return rs
}

func usage(scanner *extract.Scanner, files []string, pattern string) UsageStatus {
	u := UsageStatus{FilesWithUsage: []string{}}
	for _, path := range files {
		text, err := extract.ReadSource(path)
		if err != nil {
			// Reported by the scan.
			continue
		}
		if n := strings.Count(text, pattern); n > 0 {
			u.TotalUsageCount += n
			u.FilesWithUsage = append(u.FilesWithUsage, scanner.Rel(path))
		}
	}
	u.FilesCount = len(u.FilesWithUsage)
	return u
}

func progress(totalFiles int, remaining extract.Result) Progress {
	occurrences := lo.Flatten(lo.Values(remaining))
	p := Progress{
		TotalFiles:         totalFiles,
		FilesWithHardcoded: len(remaining),
		TotalHardcoded:     len(occurrences),
		UITextRemaining: lo.CountBy(occurrences, func(o extract.Occurrence) bool {
			return o.IsUIText
		}),
	}
	p.MigrationPercentage = Percentage(p.FilesWithHardcoded, p.TotalFiles)
	return p
}

// Percentage returns the share of files free of hardcoded strings, clamped
// to [0, 100]. It is 100 when no file has hardcoded strings, including an
// empty tree.
func Percentage(filesWithHardcoded, totalFiles int) float64 {
	if filesWithHardcoded == 0 || totalFiles == 0 {
		return 100
	}
	pct := 100 - float64(filesWithHardcoded)/float64(totalFiles)*100
	return lo.Clamp(pct, 0, 100)
}
