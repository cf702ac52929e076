// Package value derives a typed, normalized, comparable value from
// assertion text.
//
// Five sub-extractors run in fixed priority, first match wins: percentage,
// version, number-with-unit, boolean, enum. Operator detection runs
// independently of value kind. Comparability is graded against prior
// observations under the same canonical key.
package value

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/factline/factline/internal/model"
)

var (
	percentRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(%|percent|prozent)`)
	versionRe = regexp.MustCompile(`\b[vV]?(\d+(?:\.\d+){1,3})\b`)

	numberUnitRe   *regexp.Regexp
	currencyPrefRe = regexp.MustCompile(`([€$£])\s*(\d+(?:[.,]\d+)?)`)
)

func init() {
	// Build the number-with-unit pattern from the unit table, longest
	// tokens first so "milliseconds" wins over "ms"
	tokens := make([]string, 0, len(unitTable))
	for tok := range unitTable {
		if tok == "€" || tok == "$" || tok == "£" {
			continue // prefix currencies handled separately
		}
		tokens = append(tokens, regexp.QuoteMeta(tok))
	}
	sort.Slice(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	numberUnitRe = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(` + strings.Join(tokens, "|") + `)\b`)
}

// Negative-polarity boolean phrases are checked before positive ones so
// "not required" never matches "required"
var negativePhrases = []string{
	"not required", "not permitted", "not allowed", "not supported",
	"not enabled", "not mandatory", "must not", "may not",
	"disabled", "prohibited", "forbidden",
	"nicht erforderlich", "nicht zulässig", "nicht unterstützt",
	"deaktiviert", "untersagt", "verboten",
}

var positivePhrases = []string{
	"required", "mandatory", "permitted", "allowed", "supported",
	"enabled", "enforced",
	"erforderlich", "verpflichtend", "zulässig", "aktiviert",
}

// Operator phrases scanned independently of value kind
var operatorPhrases = []struct {
	phrase string
	op     model.Operator
}{
	{"at least", model.OpAtLeast},
	{"a minimum of", model.OpAtLeast},
	{"no less than", model.OpAtLeast},
	{"or more", model.OpAtLeast},
	{"mindestens", model.OpAtLeast},
	{"≥", model.OpAtLeast},
	{"at most", model.OpAtMost},
	{"a maximum of", model.OpAtMost},
	{"no more than", model.OpAtMost},
	{"or less", model.OpAtMost},
	{"up to", model.OpAtMost},
	{"höchstens", model.OpAtMost},
	{"≤", model.OpAtMost},
	{"more than", model.OpMoreThan},
	{"greater than", model.OpMoreThan},
	{"exceeds", model.OpMoreThan},
	{"less than", model.OpLessThan},
	{"fewer than", model.OpLessThan},
	{"below", model.OpLessThan},
	{"approximately", model.OpApproximate},
	{"about", model.OpApproximate},
	{"around", model.OpApproximate},
	{"roughly", model.OpApproximate},
	{"circa", model.OpApproximate},
	{"etwa", model.OpApproximate},
}

// Extractor derives values and grades their comparability
type Extractor struct {
	obs *Observations
}

// NewExtractor creates an extractor. obs may be nil, in which case every
// structured value grades LOOSE.
func NewExtractor(obs *Observations) *Extractor {
	return &Extractor{obs: obs}
}

// Extract derives the typed value from assertion text. claimKey scopes the
// comparability grading; pass "" when no canonical key was inferred.
func (e *Extractor) Extract(text, claimKey string) model.ValueInfo {
	v := extractValue(text)
	v.Operator = DetectOperator(text)
	if v.Kind == model.ValueNone {
		v.Comparable = model.CompareNonComparable
		return v
	}
	if e.obs == nil {
		v.Comparable = model.CompareLoose
		return v
	}
	v.Comparable = e.obs.Grade(claimKey, v)
	return v
}

// extractValue runs the five sub-extractors in fixed priority
func extractValue(text string) model.ValueInfo {
	if v, ok := extractPercent(text); ok {
		return v
	}
	if v, ok := extractVersion(text); ok {
		return v
	}
	if v, ok := extractNumberWithUnit(text); ok {
		return v
	}
	if v, ok := extractBoolean(text); ok {
		return v
	}
	if v, ok := extractEnum(text); ok {
		return v
	}
	return model.NoValue()
}

func extractPercent(text string) (model.ValueInfo, bool) {
	m := percentRe.FindStringSubmatch(text)
	if m == nil {
		return model.ValueInfo{}, false
	}
	num, err := parseNumber(m[1])
	if err != nil {
		return model.ValueInfo{}, false
	}
	normalized := num / 100
	return model.ValueInfo{
		Kind:       model.ValuePercent,
		Raw:        strings.TrimSpace(m[0]),
		Normalized: formatFloat(normalized),
		Numeric:    &normalized,
	}, true
}

func extractVersion(text string) (model.ValueInfo, bool) {
	m := versionRe.FindStringSubmatch(text)
	if m == nil {
		return model.ValueInfo{}, false
	}
	parts := strings.Split(m[1], ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return model.ValueInfo{
		Kind:       model.ValueVersion,
		Raw:        m[0],
		Normalized: strings.Join(parts, "."),
	}, true
}

func extractNumberWithUnit(text string) (model.ValueInfo, bool) {
	if m := numberUnitRe.FindStringSubmatch(text); m != nil {
		num, err := parseNumber(m[1])
		if err == nil {
			def := unitTable[strings.ToLower(m[2])]
			normalized := num * def.multiplier
			return model.ValueInfo{
				Kind:       model.ValueNumber,
				Raw:        strings.TrimSpace(m[0]),
				Normalized: formatFloat(normalized),
				Numeric:    &normalized,
				Unit:       def.base,
			}, true
		}
	}
	if m := currencyPrefRe.FindStringSubmatch(text); m != nil {
		num, err := parseNumber(m[2])
		if err == nil {
			def := unitTable[m[1]]
			normalized := num * def.multiplier
			return model.ValueInfo{
				Kind:       model.ValueNumber,
				Raw:        strings.TrimSpace(m[0]),
				Normalized: formatFloat(normalized),
				Numeric:    &normalized,
				Unit:       def.base,
			}, true
		}
	}
	return model.ValueInfo{}, false
}

func extractBoolean(text string) (model.ValueInfo, bool) {
	lower := strings.ToLower(text)
	for _, phrase := range negativePhrases {
		if strings.Contains(lower, phrase) {
			return model.ValueInfo{
				Kind:       model.ValueBoolean,
				Raw:        phrase,
				Normalized: "false",
			}, true
		}
	}
	for _, phrase := range positivePhrases {
		if strings.Contains(lower, phrase) {
			return model.ValueInfo{
				Kind:       model.ValueBoolean,
				Raw:        phrase,
				Normalized: "true",
			}, true
		}
	}
	return model.ValueInfo{}, false
}

// extractEnum matches tokens against the closed vocabularies. A hit in two
// different vocabularies is ambiguous and yields no enum value.
func extractEnum(text string) (model.ValueInfo, bool) {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	var hit model.ValueInfo
	var hitVocab string
	for _, vocab := range enumVocabularies {
		for _, w := range words {
			word := strings.Trim(w, ".,;:!?()[]\"'")
			canonical, ok := vocab.tokens[word]
			if !ok {
				continue
			}
			if hitVocab != "" && hitVocab != vocab.name {
				return model.ValueInfo{}, false // ambiguous across vocabularies
			}
			if hitVocab == "" {
				hit = model.ValueInfo{
					Kind:       model.ValueEnum,
					Raw:        word,
					Normalized: canonical,
					Unit:       vocab.name,
				}
				hitVocab = vocab.name
			}
		}
	}
	return hit, hitVocab != ""
}

// DetectOperator scans for comparison language, defaulting to equality
func DetectOperator(text string) model.Operator {
	lower := strings.ToLower(text)
	for _, p := range operatorPhrases {
		if strings.Contains(lower, p.phrase) {
			return p.op
		}
	}
	return model.OpEqual
}

// parseNumber accepts both decimal point and decimal comma
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
