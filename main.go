// arbmigrate migrates hardcoded Flutter UI strings to ARB localization.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/minios-linux/arbmigrate/arbfile"
	"github.com/minios-linux/arbmigrate/config"
	"github.com/minios-linux/arbmigrate/extract"
	"github.com/minios-linux/arbmigrate/i18n"
	"github.com/minios-linux/arbmigrate/merge"
	"github.com/minios-linux/arbmigrate/report"
	"github.com/minios-linux/arbmigrate/validate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, color.BlueString("[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, color.GreenString("[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, color.YellowString("[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, color.RedString("[ERROR]")+" "+format+"\n", args...)
}

// warnAll logs every error collected in err as a warning.
func warnAll(err error) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			logWarning("%v", e)
		}
		return
	}
	if err != nil {
		logWarning("%v", err)
	}
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
)

func loadConfig() (*config.Config, error) {
	return config.Load(rootDir, configPath)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "arbmigrate",
		Short: "Migrate hardcoded Flutter strings to ARB localization",
		Long: `arbmigrate scans a Flutter project's Dart sources for hardcoded string
literals and helps move them into ARB translation resources.

Commands:
  scan        Find hardcoded strings
  extract     Build net-new ARB candidate entries from hardcoded strings
  validate    Report ARB resource status and migration progress

Existing ARB resources are read but never modified.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <root>/"+config.FileName+")")

	root.AddCommand(
		newScanCmd(),
		newExtractCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("arbmigrate version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// scan
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find hardcoded strings in source files",
		Long: `Scan every source file under the configured source directory and list
the string literals that look like user-visible text, with line, column,
UI heuristic, script detection and a suggested ARB key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runScan(cmd.OutOrStdout(), cfg, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Export results to FILE (.json, .yaml)")
	return cmd
}

func runScan(w io.Writer, cfg *config.Config, output string) error {
	result := scan(cfg)
	if err := report.Summary(w, result); err != nil {
		return err
	}
	return export(cfg, output, result)
}

func scan(cfg *config.Config) extract.Result {
	logInfo("Scanning %s for hardcoded strings...", filepath.Join(cfg.Root, cfg.SourceDir))
	result, err := cfg.Scanner().Scan()
	warnAll(err)
	logInfo(i18n.N("Found %d file with hardcoded strings", "Found %d files with hardcoded strings", len(result)), len(result))
	return result
}

// export writes v to output (relative to the project root). An empty
// output is a no-op.
func export(cfg *config.Config, output string, v any) error {
	if output == "" {
		return nil
	}
	path := cfg.OutputPath(output)
	if err := report.Export(path, v); err != nil {
		return err
	}
	logSuccess("Results exported to %s", path)
	return nil
}

// ---------------------------------------------------------------------------
// extract
// ---------------------------------------------------------------------------

type extractArgs struct {
	output   string
	writeARB string
	diff     bool
}

func newExtractCmd() *cobra.Command {
	var a extractArgs

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Build ARB candidate entries from hardcoded strings",
		Long: `Scan the sources and build net-new ARB entries for the base and
secondary languages. Keys already present in the base resource are never
proposed again; secondary-script text gets a placeholder base value and a
secondary-language entry with the original text.

Candidates are printed as a summary and can be exported (-o), written as
standalone ARB files into a separate directory (--write-arb), or previewed
as a diff against the current base resource (--diff).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runExtract(cmd.OutOrStdout(), cfg, a)
		},
	}

	cmd.Flags().StringVarP(&a.output, "output", "o", "", "Export candidates to FILE (.json, .yaml)")
	cmd.Flags().StringVar(&a.writeARB, "write-arb", "", "Write candidate ARB files into DIR")
	cmd.Flags().BoolVar(&a.diff, "diff", false, "Show a diff of the base resource with candidates appended")
	return cmd
}

func runExtract(w io.Writer, cfg *config.Config, a extractArgs) error {
	result := scan(cfg)
	base := loadResource(cfg.ARBPath(cfg.BaseLang))
	secondary := loadResource(cfg.ARBPath(cfg.SecondaryLang))

	set := merge.Build(result, base, secondary, merge.Options{
		BaseLang:      cfg.BaseLang,
		SecondaryLang: cfg.SecondaryLang,
		Placeholder:   cfg.Placeholder,
	})
	if err := report.Summary(w, set); err != nil {
		return err
	}

	if a.diff {
		if err := showDiff(w, cfg, base, set.Base); err != nil {
			return err
		}
	}

	var errs *multierror.Error
	if a.writeARB != "" {
		errs = multierror.Append(errs, writeCandidates(cfg, a.writeARB, set))
	}
	errs = multierror.Append(errs, export(cfg, a.output, set))
	return errs.ErrorOrNil()
}

// loadResource reads an ARB resource; a missing or unreadable file is
// treated as empty.
func loadResource(path string) *arbfile.File {
	f, exists, err := arbfile.Load(path)
	switch {
	case err != nil:
		logWarning("Cannot load %s, treating it as empty: %v", path, err)
	case !exists:
		logInfo("%s not found, treating it as empty", path)
	}
	return f
}

func showDiff(w io.Writer, cfg *config.Config, base, candidates *arbfile.File) error {
	before, err := base.Marshal()
	if err != nil {
		return err
	}
	after, err := arbfile.Append(base, candidates).Marshal()
	if err != nil {
		return err
	}
	diff, err := report.Diff(cfg.ARBName(cfg.BaseLang), before, after)
	if err != nil {
		return err
	}
	if diff == "" {
		logInfo("No new entries for %s", cfg.ARBName(cfg.BaseLang))
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, report.ColorDiff(diff))
	return nil
}

// writeCandidates writes each non-empty candidate resource as a standalone
// ARB file into dir. Existing files are never overwritten.
func writeCandidates(cfg *config.Config, dir string, set *merge.CandidateSet) error {
	dir = cfg.OutputPath(dir)

	var errs *multierror.Error
	for _, c := range []struct {
		lang string
		file *arbfile.File
	}{{set.BaseLang, set.Base}, {set.SecondaryLang, set.Secondary}} {
		if c.file.Len() == 0 {
			continue
		}
		path := filepath.Join(dir, cfg.ARBName(c.lang))
		if fileExists(path) {
			errs = multierror.Append(errs, fmt.Errorf("refusing to overwrite existing %s", path))
			continue
		}
		if err := c.file.WriteFile(path); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		logSuccess("Wrote %d candidate entries to %s", c.file.Len(), path)
	}
	return errs.ErrorOrNil()
}

// fileExists returns true if path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

type validateArgs struct {
	output    string
	failUnder float64
}

func newValidateCmd() *cobra.Command {
	var a validateArgs

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report ARB resource status and migration progress",
		Long: `Check the base and secondary ARB resources, count localized lookup
call sites, list the hardcoded strings that remain, and compute the share
of source files already free of them.

With --fail-under, exit non-zero when that share is below PCT percent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), cfg, a)
		},
	}

	cmd.Flags().StringVarP(&a.output, "output", "o", "", "Export status to FILE (.json, .yaml)")
	cmd.Flags().Float64Var(&a.failUnder, "fail-under", 0, "Fail when migration progress is below PCT")
	return cmd
}

func runValidate(w io.Writer, cfg *config.Config, a validateArgs) error {
	logInfo("Validating migration status...")
	v := &validate.Validator{
		Config:  cfg,
		OnLog:   logInfo,
		OnError: logWarning,
	}
	status, err := v.Run()
	if status == nil {
		return err
	}
	warnAll(err)

	if err := report.Summary(w, status); err != nil {
		return err
	}

	var errs *multierror.Error
	errs = multierror.Append(errs, export(cfg, a.output, status))
	if status.Progress.Below(a.failUnder) {
		errs = multierror.Append(errs, fmt.Errorf("migration progress %.1f%% is below %.1f%%",
			status.Progress.MigrationPercentage, a.failUnder))
	}
	return errs.ErrorOrNil()
}
