package names

import (
	"strings"
)

// Tokens shorter than this are ignored when counting overlaps; initials
// and particles ("V", "S", "de") produce too many false positives.
const minSignificantTokenLen = 3

// Match reports whether two free-text names denote the same person.
//
// Policy (the single canonical one for this codebase):
//  1. Normalize both names; equal forms match outright.
//  2. Split into whitespace tokens and count cross-product pairs that are
//     exactly equal and longer than two characters.
//  3. Match iff that count >= min(len(tokensA), len(tokensB), 2) — at
//     least two shared significant tokens, or all tokens when a side has
//     fewer than two.
//
// This is a heuristic: it tolerates casing, spacing, and token-order
// drift between sources, and it can be wrong in both directions. That
// tradeoff is accepted; do not "improve" it per call site.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	tokensA := strings.Split(na, " ")
	tokensB := strings.Split(nb, " ")

	matches := 0
	for _, ta := range tokensA {
		if len(ta) < minSignificantTokenLen {
			continue
		}
		for _, tb := range tokensB {
			if ta == tb {
				matches++
			}
		}
	}

	need := len(tokensA)
	if len(tokensB) < need {
		need = len(tokensB)
	}
	if need > 2 {
		need = 2
	}
	return matches >= need
}
