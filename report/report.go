// Package report prints and exports the results of scan, extract and
// validate runs.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/minios-linux/arbmigrate/extract"
	"github.com/minios-linux/arbmigrate/i18n"
	"github.com/minios-linux/arbmigrate/langmeta"
	"github.com/minios-linux/arbmigrate/merge"
	"github.com/minios-linux/arbmigrate/validate"
)

// barWidth is the width of the progress bar in the validation summary.
const barWidth = 30

var heading = color.New(color.FgBlue, color.Bold)

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", heading.Sprint(i18n.T(title)))
	fmt.Fprintln(w, strings.Repeat("─", 40))
}

func line(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  "+i18n.T(format)+"\n", args...)
}

// Summary writes a human-readable summary of v, which must be an
// extract.Result, a *merge.CandidateSet or a *validate.Status.
func Summary(w io.Writer, v any) error {
	switch v := v.(type) {
	case *validate.Status:
		validationSummary(w, v)
	case *merge.CandidateSet:
		candidateSummary(w, v)
	case extract.Result:
		scanSummary(w, v)
	default:
		return fmt.Errorf("report: cannot summarize %T", v)
	}
	return nil
}

func occurrences(r extract.Result) []extract.Occurrence {
	return lo.Flatten(lo.Values(r))
}

func scanSummary(w io.Writer, r extract.Result) {
	all := occurrences(r)
	section(w, "Scan Results Summary")
	line(w, "Files with hardcoded strings: %d", len(r))
	line(w, "Total hardcoded strings: %d", len(all))
	line(w, "UI text strings: %d", lo.CountBy(all, func(o extract.Occurrence) bool { return o.IsUIText }))
	line(w, "Secondary-script strings: %d", lo.CountBy(all, func(o extract.Occurrence) bool { return o.HasSecondaryScript }))
}

func candidateSummary(w io.Writer, c *merge.CandidateSet) {
	section(w, "ARB Candidates Generated")
	line(w, "%s entries: %d", langmeta.Resolve(c.BaseLang).English, c.Base.Len())
	line(w, "%s entries: %d", langmeta.Resolve(c.SecondaryLang).English, c.Secondary.Len())
	if c.SkippedExisting > 0 {
		line(w, "Skipped, key already present: %d", c.SkippedExisting)
	}
	if c.SkippedDuplicate > 0 {
		line(w, "Skipped, duplicate text or key: %d", c.SkippedDuplicate)
	}
}

func validationSummary(w io.Writer, s *validate.Status) {
	p := s.Progress
	section(w, "Migration Progress Summary")
	line(w, "Total source files: %d", p.TotalFiles)
	line(w, "Files with hardcoded strings: %d", p.FilesWithHardcoded)
	line(w, "Total hardcoded strings: %d", p.TotalHardcoded)
	line(w, "UI text remaining: %d", p.UITextRemaining)
	line(w, "Migration progress: %.1f%%", p.MigrationPercentage)
	fmt.Fprintf(w, "  %s\n", ProgressBar(int(math.Round(p.MigrationPercentage)), barWidth))

	section(w, "ARB Files Status")
	for _, rs := range []*validate.ResourceStatus{s.Base(), s.Secondary()} {
		if rs == nil {
			continue
		}
		name := langmeta.Resolve(rs.Lang).English
		switch {
		case !rs.Exists:
			line(w, "%s: not found (%s)", name, rs.Path)
		case rs.LoadError != "":
			line(w, "%s: unreadable (%s)", name, rs.Path)
		default:
			line(w, "%s strings: %d", name, rs.StringCount)
		}
	}
	if base := s.Base(); base != nil {
		line(w, "Missing metadata: %d", len(base.MissingMetadata))
	}

	section(w, "Localization Usage")
	line(w, "Lookup calls: %d", s.Usage.TotalUsageCount)
	line(w, "Files using lookups: %d", s.Usage.FilesCount)
}

// ProgressBar renders percent (clamped to 0..100) as a bar of width cells
// followed by the percentage: red below 50, yellow below 100, green at 100.
func ProgressBar(percent, width int) string {
	percent = lo.Clamp(percent, 0, 100)
	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	c := color.New(color.FgRed)
	switch {
	case percent >= 100:
		c = color.New(color.FgGreen)
	case percent >= 50:
		c = color.New(color.FgYellow)
	}
	return c.Sprint(bar) + fmt.Sprintf(" %3d%%", percent)
}
