package claimkey

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/factline/factline/internal/model"
)

// genericBucket is the placeholder resolution of last resort. Falling back
// here keeps the key match alive instead of failing it.
const genericBucket = "general"

type compiledEntry struct {
	entry   Entry
	trigger *regexp.Regexp
}

// Matcher tries catalog entries in registration order; first match wins
type Matcher struct {
	version string
	entries []compiledEntry
}

// NewMatcher compiles a catalog. An empty catalog falls back to the
// built-in one.
func NewMatcher(cat Catalog) (*Matcher, error) {
	if len(cat.Entries) == 0 {
		cat = DefaultCatalog()
	}
	m := &Matcher{version: cat.Version}
	for _, e := range cat.Entries {
		re, err := regexp.Compile(e.Trigger)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		m.entries = append(m.entries, compiledEntry{entry: e, trigger: re})
	}
	return m, nil
}

// Version returns the catalog version in use
func (m *Matcher) Version() string {
	return m.version
}

// Match infers the canonical key for an assertion, or nil when no catalog
// entry triggers. Placeholders resolve via the nearest proper noun, then
// the document-level hint, then the generic bucket token.
func (m *Matcher) Match(text string, hint model.DocumentHint) *model.ClaimKeyMatch {
	for _, ce := range m.entries {
		if !ce.trigger.MatchString(text) {
			continue
		}
		subject := resolveSubject(text, hint)
		return &model.ClaimKeyMatch{
			Key:          fillPlaceholders(ce.entry.KeyTemplate, subject),
			Domain:       ce.entry.Domain,
			Question:     fillQuestion(ce.entry.Question, text, hint),
			ExpectedKind: model.ValueKind(ce.entry.ExpectedKind),
		}
	}
	return nil
}

// resolveSubject picks the key segment for {product}/{subject}:
// nearest proper noun in the text, then the document hint, then the bucket
func resolveSubject(text string, hint model.DocumentHint) string {
	if noun := nearestProperNoun(text); noun != "" {
		return noun
	}
	if hint.Product != "" {
		return keySegment(hint.Product)
	}
	return genericBucket
}

func fillPlaceholders(template, subject string) string {
	out := strings.ReplaceAll(template, "{product}", subject)
	return strings.ReplaceAll(out, "{subject}", subject)
}

// fillQuestion keeps the human-readable casing from the text or hint
func fillQuestion(template, text string, hint model.DocumentHint) string {
	display := nearestProperNounDisplay(text)
	if display == "" {
		display = hint.Product
	}
	if display == "" {
		display = "the " + genericBucket + " scope"
	}
	out := strings.ReplaceAll(template, "{product}", display)
	return strings.ReplaceAll(out, "{subject}", display)
}

// nearestProperNoun finds the first capitalized word that is not sentence
// initial, preferring mid-sentence names over sentence-case openers
func nearestProperNoun(text string) string {
	if w := nearestProperNounDisplay(text); w != "" {
		return keySegment(w)
	}
	return ""
}

func nearestProperNounDisplay(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		trimmed := strings.Trim(w, ".,;:!?()[]\"'")
		if i == 0 || len(trimmed) < 2 {
			continue
		}
		if isCapitalized(trimmed) && !isStopword(trimmed) {
			return trimmed
		}
	}
	// Sentence-initial as last resort: "Backup is not required..."
	if len(words) > 0 {
		first := strings.Trim(words[0], ".,;:!?()[]\"'")
		if isCapitalized(first) && !isStopword(first) && len(first) > 2 {
			return first
		}
	}
	return ""
}

func isCapitalized(w string) bool {
	r := []rune(w)
	return len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z'
}

var stopwords = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"All": true, "Any": true, "Each": true, "If": true, "It": true,
	"Der": true, "Die": true, "Das": true, "Ein": true, "Eine": true,
}

func isStopword(w string) bool {
	return stopwords[w]
}

// keySegment sanitizes a display word into a key segment:
// lower-case, alphanumerics kept, everything else becomes a hyphen
func keySegment(w string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(w) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return genericBucket
	}
	return out
}
