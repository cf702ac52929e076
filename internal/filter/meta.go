// Package filter rejects boilerplate and non-predicative fragments before
// they consume promotion-policy cycles.
package filter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetaPattern is one boilerplate shape in the catalog
type MetaPattern struct {
	Name     string `yaml:"name" json:"name"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"` // empty matches any language
	Pattern  string `yaml:"pattern" json:"pattern"`
}

// Catalog is a versioned, language-tagged set of boilerplate patterns
type Catalog struct {
	Version  string        `yaml:"version" json:"version"`
	Patterns []MetaPattern `yaml:"patterns" json:"patterns"`
}

// BuiltinCatalog is the minimal fallback used when no catalog is supplied.
// It must never be empty: an absent catalog falls back here instead of
// silently failing open or closed.
func BuiltinCatalog() Catalog {
	return Catalog{
		Version: "builtin-1",
		Patterns: []MetaPattern{
			{Name: "copyright", Pattern: `(?i)(©|\(c\)|copyright)\s+\d{4}`},
			{Name: "all_rights_reserved", Pattern: `(?i)all rights reserved`},
			{Name: "page_marker", Pattern: `(?i)^\s*(page|seite)\s+\d+(\s+(of|von)\s+\d+)?\s*$`},
			{Name: "toc_line", Pattern: `\.{4,}\s*\d+\s*$`},
			{Name: "cross_reference", Pattern: `(?i)^\s*(see|refer to|vgl\.|siehe)\s+(section|chapter|table|figure|appendix|abschnitt|kapitel|tabelle|anhang)\b`},
			{Name: "nav_breadcrumb", Pattern: `^\s*\S+\s*(>|»|/)\s*\S+\s*(>|»|/)\s*\S+`},
			{Name: "revision_history", Pattern: `(?i)^\s*(revision|version)\s+history\s*$`},
			{Name: "confidentiality_notice", Pattern: `(?i)\b(confidential|proprietary)\b.*\b(do not distribute|internal use only)\b`},
		},
	}
}

// LoadCatalog reads a pattern catalog from a YAML file
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return cat, nil
}

type compiledPattern struct {
	name     string
	language string
	re       *regexp.Regexp
}

// MetaFilter matches assertion text against the boilerplate catalog
type MetaFilter struct {
	version  string
	patterns []compiledPattern
}

// NewMetaFilter compiles a catalog. An empty catalog falls back to the
// built-in minimal set; an invalid pattern is a configuration error.
func NewMetaFilter(cat Catalog) (*MetaFilter, error) {
	if len(cat.Patterns) == 0 {
		cat = BuiltinCatalog()
	}
	f := &MetaFilter{version: cat.Version}
	for _, p := range cat.Patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		f.patterns = append(f.patterns, compiledPattern{
			name:     p.Name,
			language: strings.ToLower(p.Language),
			re:       re,
		})
	}
	return f, nil
}

// Version returns the catalog version in use
func (f *MetaFilter) Version() string {
	return f.version
}

// Match reports the first boilerplate pattern the text matches, honoring
// the pattern's language tag. Returns the pattern name and whether it hit.
func (f *MetaFilter) Match(text, language string) (string, bool) {
	lang := strings.ToLower(language)
	for _, p := range f.patterns {
		if p.language != "" && lang != "" && p.language != lang {
			continue
		}
		if p.re.MatchString(text) {
			return p.name, true
		}
	}
	return "", false
}
