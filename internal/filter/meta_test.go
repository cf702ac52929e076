package filter

import (
	"os"
	"path/filepath"
	"testing"
)

func builtinFilter(t *testing.T) *MetaFilter {
	t.Helper()
	f, err := NewMetaFilter(BuiltinCatalog())
	if err != nil {
		t.Fatalf("NewMetaFilter failed: %v", err)
	}
	return f
}

func TestMetaFilter_BuiltinPatterns(t *testing.T) {
	f := builtinFilter(t)

	cases := []struct {
		text string
		name string
	}{
		{"© 2024 Example Corp. All rights reserved.", "copyright"},
		{"Copyright 2023 Acme GmbH", "copyright"},
		{"All Rights Reserved", "all_rights_reserved"},
		{"Page 12 of 96", "page_marker"},
		{"Seite 3 von 40", "page_marker"},
		{"Introduction ........ 7", "toc_line"},
		{"See Section 4.2 for details", "cross_reference"},
		{"Siehe Kapitel 3", "cross_reference"},
		{"Home > Products > Security", "nav_breadcrumb"},
		{"Revision History", "revision_history"},
		{"This document is confidential. Do not distribute.", "confidentiality_notice"},
	}
	for _, tc := range cases {
		name, hit := f.Match(tc.text, "en")
		if !hit {
			t.Errorf("expected %q to match a meta pattern", tc.text)
			continue
		}
		if name != tc.name {
			t.Errorf("text %q matched %s, want %s", tc.text, name, tc.name)
		}
	}
}

func TestMetaFilter_RealContentPasses(t *testing.T) {
	f := builtinFilter(t)

	clean := []string{
		"The service guarantees 99.95% availability per month.",
		"Backups are retained for 30 days.",
		"TLS 1.2 or higher is required for all connections.",
	}
	for _, text := range clean {
		if name, hit := f.Match(text, "en"); hit {
			t.Errorf("content %q wrongly matched pattern %s", text, name)
		}
	}
}

func TestMetaFilter_LanguageTag(t *testing.T) {
	cat := Catalog{
		Version: "test-1",
		Patterns: []MetaPattern{
			{Name: "de_only", Language: "de", Pattern: `(?i)^impressum$`},
		},
	}
	f, err := NewMetaFilter(cat)
	if err != nil {
		t.Fatalf("NewMetaFilter failed: %v", err)
	}
	if _, hit := f.Match("Impressum", "en"); hit {
		t.Error("de-tagged pattern must not match en text")
	}
	if name, hit := f.Match("Impressum", "de"); !hit || name != "de_only" {
		t.Errorf("de-tagged pattern should match de text, got (%q, %v)", name, hit)
	}
	// Untagged language on the text side: tagged patterns still apply
	if _, hit := f.Match("Impressum", ""); !hit {
		t.Error("pattern should apply when the text language is unknown")
	}
}

func TestMetaFilter_EmptyCatalogFallsBack(t *testing.T) {
	f, err := NewMetaFilter(Catalog{})
	if err != nil {
		t.Fatalf("NewMetaFilter failed: %v", err)
	}
	if f.Version() != "builtin-1" {
		t.Errorf("expected builtin fallback, got version %q", f.Version())
	}
	if _, hit := f.Match("All rights reserved", "en"); !hit {
		t.Error("fallback catalog should match boilerplate")
	}
}

func TestMetaFilter_InvalidPattern(t *testing.T) {
	cat := Catalog{
		Version:  "bad",
		Patterns: []MetaPattern{{Name: "broken", Pattern: `([`}},
	}
	if _, err := NewMetaFilter(cat); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `version: "custom-7"
patterns:
  - name: footer
    pattern: "(?i)^generated by"
  - name: impressum
    language: de
    pattern: "(?i)^impressum$"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if cat.Version != "custom-7" {
		t.Errorf("version = %q, want custom-7", cat.Version)
	}
	if len(cat.Patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(cat.Patterns))
	}
	if cat.Patterns[1].Language != "de" {
		t.Errorf("language tag not parsed: %+v", cat.Patterns[1])
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog("/nonexistent/catalog.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
