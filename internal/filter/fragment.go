package filter

import (
	"regexp"
	"strings"
)

// Non-predicative shapes: text that cannot carry a factual statement
var (
	bareAcronymRe   = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.&/\-]{1,11}$`)
	bareNumberingRe = regexp.MustCompile(`^\(?([0-9]+(\.[0-9]+)*|[a-z]|[ivxIVX]+)\)?[.):]?$`)
	bulletStubRe    = regexp.MustCompile(`^[-*•◦]\s*\S*$`)
)

// verbTokens holds small per-language lexicons of predicate-bearing verbs.
// A sentence containing one of these is treated as predicative even when it
// is short or oddly shaped.
var verbTokens = map[string][]string{
	"en": {
		"is", "are", "was", "were", "has", "have", "had",
		"must", "shall", "should", "may", "might", "can", "will", "would",
		"requires", "required", "applies", "means", "includes", "contains",
		"provides", "supports", "uses", "defines", "ensures", "depends",
		"covers", "excludes", "guarantees", "expires", "remains",
	},
	"de": {
		"ist", "sind", "war", "waren", "hat", "haben", "hatte",
		"muss", "müssen", "soll", "sollen", "darf", "dürfen", "kann",
		"können", "wird", "werden", "gilt", "gelten", "umfasst", "enthält",
		"bedeutet", "erfordert", "bietet", "unterstützt", "definiert",
		"gewährleistet", "hängt", "deckt",
	},
}

// IsFragment reports whether text is a non-predicative fragment: too short,
// a bare acronym, bare numbering, or an incomplete list stub. Text holding
// a recognized verb token for its language is never a fragment.
// The returned detail names the shape that matched.
func IsFragment(text, language string, minLength int) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "empty", true
	}
	if minLength <= 0 {
		minLength = 25
	}

	if containsVerb(trimmed, language) {
		return "", false
	}

	if len(trimmed) < minLength {
		return "below_min_length", true
	}
	if bareAcronymRe.MatchString(trimmed) {
		return "bare_acronym", true
	}
	if bareNumberingRe.MatchString(trimmed) {
		return "bare_numbering", true
	}
	if bulletStubRe.MatchString(trimmed) {
		return "list_stub", true
	}
	if strings.HasSuffix(trimmed, ":") && len(strings.Fields(trimmed)) <= 4 {
		return "list_intro", true
	}
	// Long enough and none of the known shapes, but still verbless:
	// headings and label rows land here
	return "no_verb_token", true
}

// containsVerb checks the text against the verb lexicon for the language.
// Unknown languages fall back to English rather than rejecting everything.
func containsVerb(text, language string) bool {
	lang := strings.ToLower(language)
	lexicon, ok := verbTokens[lang]
	if !ok {
		lexicon = verbTokens["en"]
	}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(field, ".,;:!?()[]\"'")
		for _, verb := range lexicon {
			if word == verb {
				return true
			}
		}
	}
	return false
}
