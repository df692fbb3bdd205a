// Package names canonicalizes and compares free-text person names.
//
// The vendor API, the meeting sheet, and the roster all spell people
// differently ("Aashima Soni", "aashima  soni", "AASHIMA SONI") and share
// no identity key, so every join in this service goes through here.
package names

import (
	"strings"
)

// Normalize returns the canonical comparison form of a display name:
// ASCII lowercase, characters outside [a-z ] removed, whitespace runs
// collapsed to one space, trimmed. Empty input yields the empty string.
//
// Normalize is idempotent. No locale-aware folding is attempted; the
// observed name corpus is ASCII.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	lastSpace := true // leading whitespace is dropped
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
