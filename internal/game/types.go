// internal/game/types.go
//
// Core type definitions for the daily Wordle engine.
// Defines:
//   - Mark: per-letter result of a guess (green/yellow/gray).
//   - Session: one player's game for the current day.

package game

// Game dimensions and scoring constants.
const (
	MaxGuesses    = 6 // attempts per day
	WordLength    = 5 // letters per word
	HardModeBonus = 2 // flat bonus added to a hard-mode win
)

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "green":  letter is correct and in the correct position.
//   - "yellow": letter exists in the answer but in a different position.
//   - "gray":   letter does not exist in the answer (or all copies are spent).
type Mark string

const (
	MarkNone   Mark = ""
	MarkGreen  Mark = "green"
	MarkYellow Mark = "yellow"
	MarkGray   Mark = "gray"
)

// Session holds one player's state for the current day. It is serialized to
// JSON and kept in the day-scoped key-value store, so every field that must
// survive between commands carries a JSON tag.
type Session struct {
	Guesses    []string `json:"guesses"`    // guesses in submission order (lowercased)
	HintUsed   bool     `json:"hintUsed"`   // one hint per session
	HardMode   bool     `json:"hardMode"`   // fixed at session creation
	NightMode  bool     `json:"nightMode"`  // display only
	ColorBlind bool     `json:"colorBlind"` // display only
}

// Won reports whether the answer appears among the recorded guesses.
func (s *Session) Won(answer string) bool {
	return s.WinIndex(answer) > 0
}

// WinIndex returns the 1-based index of the winning guess, or 0 if the
// session has not been won.
func (s *Session) WinIndex(answer string) int {
	for i, g := range s.Guesses {
		if g == answer {
			return i + 1
		}
	}
	return 0
}

// Finished reports whether the session accepts no further guesses:
// either the answer was guessed or all attempts are spent.
func (s *Session) Finished(answer string) bool {
	return s.Won(answer) || len(s.Guesses) >= MaxGuesses
}
