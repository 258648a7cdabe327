package report

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff of before and after, labelled a/name and
// b/name. Identical inputs yield "".
func Diff(name string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

// ColorDiff colours the added and removed lines of a unified diff.
func ColorDiff(diff string) string {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)

	lines := strings.SplitAfter(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
		case strings.HasPrefix(l, "+"):
			lines[i] = add.Sprint(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = del.Sprint(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = hunk.Sprint(l)
		}
	}
	return strings.Join(lines, "")
}
