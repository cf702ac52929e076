// Package fingerprint computes the stable deduplication hash that lets
// restatements of the same fact merge instead of duplicating.
//
// The hash covers exactly four inputs: canonical key (or placeholder),
// normalized value (or placeholder), the fixed-order context key, and the
// page bucket. Differently worded restatements on the same page collapse
// to one fingerprint.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// MissingToken stands in for any absent input so ordering and omission can
// never silently change the hash
const MissingToken = "-"

// DefaultWidth is the number of hex characters kept from the hash
const DefaultWidth = 20

// ContextKey joins the document's scoping attributes in fixed order:
// edition, region, version, product. Missing attributes keep their slot
// via the placeholder token.
func ContextKey(edition, region, version, product string) string {
	return strings.Join([]string{
		orMissing(edition),
		orMissing(region),
		orMissing(version),
		orMissing(product),
	}, ":")
}

// PageBucket buckets by page number, a deliberately coarse granularity.
// Negative pages (unknown) use the placeholder.
func PageBucket(page int) string {
	if page < 0 {
		return MissingToken
	}
	return "p" + strconv.Itoa(page)
}

// Compute hashes the four inputs with explicit separators and truncates to
// width hex characters (DefaultWidth when width <= 0). It is a pure
// function: identical inputs always produce the identical fingerprint.
func Compute(key, normalizedValue, contextKey string, page int, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	h := sha256.New()
	for _, part := range []string{
		orMissing(key),
		orMissing(normalizedValue),
		orMissing(contextKey),
		PageBucket(page),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0}) // separator so adjacent fields never merge
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if width > len(sum) {
		width = len(sum)
	}
	return sum[:width]
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return MissingToken
	}
	return s
}
