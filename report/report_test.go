package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/arbmigrate/extract"
	"github.com/minios-linux/arbmigrate/merge"
	"github.com/minios-linux/arbmigrate/validate"
)

func noColor(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

var sampleResult = extract.Result{
	"lib/home.dart": {
		{Content: "はじめる", Line: 4, Column: 17, HasSecondaryScript: true, IsUIText: true, SuggestedKey: "buttonStart"},
		{Content: "Score <b>", Line: 6, Column: 9, SuggestedKey: "textScoreb"},
	},
	"lib/menu.dart": {
		{Content: "Settings", Line: 2, Column: 12, IsUIText: true, SuggestedKey: "titleSettings"},
	},
}

func TestProgressBar(t *testing.T) {
	noColor(t)
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{name: "clamps below zero", percent: -10, width: 4, want: "░░░░   0%"},
		{name: "mid range", percent: 50, width: 4, want: "██░░  50%"},
		{name: "clamps above hundred", percent: 120, width: 4, want: "████ 100%"},
	}

	for _, tc := range tests {
		if got := ProgressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: ProgressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestProgressBarColors(t *testing.T) {
	old := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = old })

	tests := []struct {
		percent int
		code    string
	}{
		{0, "\x1b[31m"},
		{50, "\x1b[33m"},
		{100, "\x1b[32m"},
	}
	for _, tc := range tests {
		if got := ProgressBar(tc.percent, 4); !strings.HasPrefix(got, tc.code) {
			t.Fatalf("ProgressBar(%d) = %q, want prefix %q", tc.percent, got, tc.code)
		}
	}
}

func TestSummaryScan(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	if err := Summary(&buf, sampleResult); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Scan Results Summary",
		"Files with hardcoded strings: 2",
		"Total hardcoded strings: 3",
		"UI text strings: 2",
		"Secondary-script strings: 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryCandidates(t *testing.T) {
	noColor(t)
	set := merge.Build(sampleResult, nil, nil, merge.Options{BaseLang: "en", SecondaryLang: "ja", Placeholder: "[TRANSLATION_NEEDED]"})

	var buf bytes.Buffer
	if err := Summary(&buf, set); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ARB Candidates Generated", "English entries: 3", "Japanese entries: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Skipped") {
		t.Fatalf("no skip lines expected:\n%s", out)
	}
}

func TestSummaryValidation(t *testing.T) {
	noColor(t)
	status := &validate.Status{
		BaseLang:      "en",
		SecondaryLang: "ja",
		Resources: map[string]*validate.ResourceStatus{
			"en": {Lang: "en", Path: "lib/l10n/app_en.arb", Exists: true, StringCount: 12, MissingMetadata: []string{"a", "b"}},
			"ja": {Lang: "ja", Path: "lib/l10n/app_ja.arb"},
		},
		Usage:     validate.UsageStatus{TotalUsageCount: 7, FilesCount: 3},
		Remaining: sampleResult,
		Progress: validate.Progress{
			TotalFiles: 8, FilesWithHardcoded: 2, TotalHardcoded: 3, UITextRemaining: 2,
			MigrationPercentage: 75,
		},
	}

	var buf bytes.Buffer
	if err := Summary(&buf, status); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Total source files: 8",
		"Migration progress: 75.0%",
		" 75%",
		"English strings: 12",
		"Japanese: not found (lib/l10n/app_ja.arb)",
		"Missing metadata: 2",
		"Lookup calls: 7",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryUnsupported(t *testing.T) {
	if err := Summary(&bytes.Buffer{}, 42); err == nil {
		t.Fatal("expected error for unsupported value")
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"out.json":  JSON,
		"out.YAML":  YAML,
		"out.yml":   YAML,
		"out":       JSON,
		"out.jsonl": JSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "scan.json")
	if err := Export(path, sampleResult); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"content": "はじめる"`) {
		t.Fatalf("non-ASCII text should be written verbatim:\n%s", out)
	}
	if !strings.Contains(out, `"Score <b>"`) {
		t.Fatalf("markup should not be HTML-escaped:\n%s", out)
	}
	if !strings.Contains(out, "\n  \"lib/home.dart\": [") {
		t.Fatalf("expected two-space indentation:\n%s", out)
	}

	var decoded extract.Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Total() != 3 || decoded["lib/home.dart"][0].Column != 17 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestExportCandidatesKeepOrder(t *testing.T) {
	set := merge.Build(sampleResult, nil, nil, merge.Options{BaseLang: "en", SecondaryLang: "ja", Placeholder: "[TRANSLATION_NEEDED]"})
	data, err := Marshal(set, JSON)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := string(data)
	// UI text is emitted first, so buttonStart precedes textScoreb even
	// though both would sort the other way alphabetically by content.
	start := strings.Index(out, `"buttonStart"`)
	score := strings.Index(out, `"textScoreb"`)
	if start < 0 || score < 0 || start > score {
		t.Fatalf("candidate order not preserved:\n%s", out)
	}
}

func TestExportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	if err := Export(path, sampleResult); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded extract.Result
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if got := decoded["lib/menu.dart"][0].SuggestedKey; got != "titleSettings" {
		t.Fatalf("SuggestedKey = %q, want %q", got, "titleSettings")
	}
}

func TestExportUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Export(filepath.Join(blocker, "out.json"), sampleResult); err == nil {
		t.Fatal("expected error when parent is a file")
	}
}

func TestDiff(t *testing.T) {
	before := []byte("{\n  \"a\": \"A\"\n}\n")
	after := []byte("{\n  \"a\": \"A\",\n  \"b\": \"B\"\n}\n")

	diff, err := Diff("app_en.arb", before, after)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	for _, want := range []string{"--- a/app_en.arb", "+++ b/app_en.arb", "-  \"a\": \"A\"\n", "+  \"a\": \"A\",\n", "+  \"b\": \"B\"\n"} {
		if !strings.Contains(diff, want) {
			t.Fatalf("diff missing %q:\n%s", want, diff)
		}
	}

	same, err := Diff("x", before, before)
	if err != nil || same != "" {
		t.Fatalf("Diff(identical) = %q, %v; want empty", same, err)
	}
}

func TestColorDiff(t *testing.T) {
	noColor(t)
	in := "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n"
	if got := ColorDiff(in); got != in {
		t.Fatalf("ColorDiff without color = %q, want unchanged", got)
	}
}
