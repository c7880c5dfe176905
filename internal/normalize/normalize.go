// Package normalize canonicalizes extracted text and candidate key strings so
// that equivalent content maps to identical keys, and fingerprints page text
// for idempotent ingestion.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	anyWS        = regexp.MustCompile(`\s+`)
)

// Text canonicalizes raw page text: control characters are dropped, runs of
// horizontal whitespace collapse to one space, and the result is trimmed.
// Idempotent: Text(Text(s)) == Text(s).
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(horizontalWS.ReplaceAllString(b.String(), " "))
}

// Key canonicalizes a candidate key string: normalized text, lowercased, with
// all whitespace (including newlines) collapsed to single spaces.
func Key(s string) string {
	return anyWS.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Fingerprint returns the stable hex fingerprint of normalized page text.
// Identical normalized text always fingerprints identically; this is the sole
// dedup key for ingested pages. Non-adversarial use: collision resistance,
// not secrecy.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(Text(text)))
	return hex.EncodeToString(sum[:])
}
