// internal/game/engine.go
//
// Guess evaluation for the daily Wordle engine.
// Responsibilities:
//   - Score guesses using the classic two-pass Wordle algorithm.
//   - Correct duplicate-letter handling: a repeated guess letter is never
//     credited with more yellows than the answer has spare occurrences.
//
// Notes:
//   - Inputs are validated (lowercase a-z, correct length) by the caller;
//     the words package owns validity, this package owns scoring.

package game

// Evaluate implements the standard Wordle two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as green.
//   - Count remaining (non-green) answer letters by letter index.
//
// Pass 2:
//   - For each non-green guess letter: if there is remaining count for that
//     letter, mark yellow and decrement the count; otherwise mark gray.
//
// Pure and deterministic; this ordering is what keeps repeated letters in
// guess and answer honest.
func Evaluate(guess, answer string) []Mark {
	n := len(guess)
	res := make([]Mark, n)

	// Letter frequency for the non-green positions (a-z).
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			res[i] = MarkGreen
		} else {
			counts[idx(answer[i])]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == MarkGreen {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = MarkYellow
			counts[j]--
		} else {
			res[i] = MarkGray
		}
	}
	return res
}

// EvaluateAll scores every guess in order against the answer. Used to build
// the full grid the transport renders after each submission.
func EvaluateAll(guesses []string, answer string) [][]Mark {
	out := make([][]Mark, len(guesses))
	for i, g := range guesses {
		out[i] = Evaluate(g, answer)
	}
	return out
}

// AllGreen returns true if every mark is MarkGreen.
func AllGreen(m []Mark) bool {
	for _, x := range m {
		if x != MarkGreen {
			return false
		}
	}
	return true
}

// idx maps a lowercase ASCII letter byte to 0..25.
// Assumes inputs are validated to a-z elsewhere.
func idx(b byte) int { return int(b - 'a') }

// IsAlpha checks that a string consists only of lowercase a-z.
func IsAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
