package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/minios-linux/arbmigrate/arbfile"
	"github.com/minios-linux/arbmigrate/config"
)

const homeDart = `import 'package:flutter/material.dart';

Widget build(BuildContext context) {
  return ElevatedButton(child: Text('はじめる'));
}

Widget title() => AppBar(title: Text('Score'));
`

const existingEN = `{
  "@@locale": "en",
  "titleScore": "Score"
}
`

func setupProject(t *testing.T) *config.Config {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	root := t.TempDir()
	for path, content := range map[string]string{
		"lib/home.dart":       homeDart,
		"lib/l10n/app_en.arb": existingEN,
	} {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	cfg, err := config.Load(root, "")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestRunScan(t *testing.T) {
	cfg := setupProject(t)
	var out bytes.Buffer
	if err := runScan(&out, cfg, "scan.yaml"); err != nil {
		t.Fatalf("runScan: %v", err)
	}
	if !strings.Contains(out.String(), "Total hardcoded strings: 2") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
	if !fileExists(filepath.Join(cfg.Root, "scan.yaml")) {
		t.Fatal("export should be written relative to the project root")
	}
}

func TestRunScanOutputFailure(t *testing.T) {
	cfg := setupProject(t)
	var out bytes.Buffer
	// lib/home.dart is a file, so it cannot be used as a directory.
	err := runScan(&out, cfg, "lib/home.dart/scan.json")
	if err == nil {
		t.Fatal("expected export error")
	}
	if !strings.Contains(out.String(), "Scan Results Summary") {
		t.Fatal("summary should be printed before the export fails")
	}
}

func TestRunExtract(t *testing.T) {
	cfg := setupProject(t)
	arbPath := cfg.ARBPath("en")

	var out bytes.Buffer
	err := runExtract(&out, cfg, extractArgs{output: "out/candidates.json", writeARB: "candidates", diff: true})
	if err != nil {
		t.Fatalf("runExtract: %v", err)
	}

	if !strings.Contains(out.String(), `+  "buttonStart": "[TRANSLATION_NEEDED]"`) {
		t.Fatalf("diff preview missing new entry:\n%s", out.String())
	}

	en, err := arbfile.ParseFile(filepath.Join(cfg.Root, "candidates", "app_en.arb"))
	if err != nil {
		t.Fatalf("ParseFile(app_en.arb): %v", err)
	}
	if keys := en.Keys(); len(keys) != 1 || keys[0] != "buttonStart" {
		t.Fatalf("candidate en keys = %v, want [buttonStart]", keys)
	}
	ja, err := arbfile.ParseFile(filepath.Join(cfg.Root, "candidates", "app_ja.arb"))
	if err != nil {
		t.Fatalf("ParseFile(app_ja.arb): %v", err)
	}
	if v, _ := ja.Get("buttonStart"); v != "はじめる" {
		t.Fatalf("candidate ja buttonStart = %q, want %q", v, "はじめる")
	}

	data, err := os.ReadFile(filepath.Join(cfg.Root, "out", "candidates.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"はじめる"`) {
		t.Fatalf("export should keep non-ASCII text:\n%s", data)
	}

	current, err := os.ReadFile(arbPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(current) != existingEN {
		t.Fatal("existing base resource must not be modified")
	}
}

func TestWriteCandidatesRefusesOverwrite(t *testing.T) {
	cfg := setupProject(t)
	var out bytes.Buffer
	// Writing into the l10n directory would clobber app_en.arb.
	err := runExtract(&out, cfg, extractArgs{writeARB: cfg.L10nDir})
	if err == nil || !strings.Contains(err.Error(), "refusing to overwrite") {
		t.Fatalf("err = %v, want overwrite refusal", err)
	}
	if !fileExists(filepath.Join(cfg.Root, cfg.L10nDir, "app_ja.arb")) {
		t.Fatal("missing secondary resource should still be written")
	}
	current, _ := os.ReadFile(cfg.ARBPath("en"))
	if string(current) != existingEN {
		t.Fatal("existing base resource must not be modified")
	}
}

func TestRunValidateFailUnder(t *testing.T) {
	cfg := setupProject(t)
	var out bytes.Buffer

	if err := runValidate(&out, cfg, validateArgs{output: "status.json"}); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	if !strings.Contains(out.String(), "Migration progress: 0.0%") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
	if !fileExists(filepath.Join(cfg.Root, "status.json")) {
		t.Fatal("status export missing")
	}

	err := runValidate(&out, cfg, validateArgs{failUnder: 50})
	if err == nil || !strings.Contains(err.Error(), "below 50.0%") {
		t.Fatalf("err = %v, want fail-under error", err)
	}
}

func TestLoadResourceMissing(t *testing.T) {
	f := loadResource(filepath.Join(t.TempDir(), "app_en.arb"))
	if f == nil || f.Len() != 0 {
		t.Fatal("missing resource should load as empty")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(filePath, []byte("ok"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	if !fileExists(filePath) {
		t.Fatalf("fileExists(file) = false, want true")
	}
	if fileExists(dir) {
		t.Fatalf("fileExists(directory) = true, want false")
	}
	if fileExists(filepath.Join(dir, "missing.txt")) {
		t.Fatalf("fileExists(missing) = true, want false")
	}
}
