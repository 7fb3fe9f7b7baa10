// Package match provides name normalization and fuzzy matching used to
// cluster raw records that describe the same underlying asset.
package match

import "strings"

// Normalize lowercases text and strips every character outside [a-z0-9].
// Deterministic and pure; two names normalize equal iff they only differ in
// case, spacing or punctuation.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify derives a stable identifier from a display name: lowercase, every
// run of characters outside [a-z0-9] collapses to a single '-', leading and
// trailing '-' trimmed.
//
// Example: "Binance Coin (BNB)" -> "binance-coin-bnb"
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}
	return b.String()
}
