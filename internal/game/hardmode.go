// internal/game/hardmode.go
//
// Hard-mode validation: revealed hints must be reused.
// Only the immediately preceding guess is consulted, matching the original
// game rule rather than a cumulative union of all prior hints.

package game

import "strings"

// CheckHardMode reports whether next is a legal hard-mode guess given the
// immediately preceding guess and the answer.
//
// Rules:
//   - Every green position of the previous guess must carry the same letter
//     in next, at the same position.
//   - Every yellow letter of the previous guess must appear somewhere in
//     next (position unconstrained).
//
// The caller runs this before appending the guess; a rejected guess does not
// consume an attempt.
func CheckHardMode(next, prev, answer string) bool {
	if prev == "" {
		return true
	}
	marks := Evaluate(prev, answer)
	for i, m := range marks {
		switch m {
		case MarkGreen:
			if next[i] != prev[i] {
				return false
			}
		case MarkYellow:
			if !strings.ContainsRune(next, rune(prev[i])) {
				return false
			}
		}
	}
	return true
}
