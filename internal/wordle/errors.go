// internal/wordle/errors.go
//
// Error taxonomy for the game service. Rule violations are expected,
// player-facing outcomes: they are returned as typed values, never logged as
// errors, and never consume a guess attempt. Infrastructure failures are
// logged for operational visibility and surfaced to the caller; retrying is
// the transport's business, not ours.

package wordle

import "errors"

// Rule violations (expected outcomes).
var (
	// ErrInvalidWord: the guess is not a 5-letter word in the valid set.
	ErrInvalidWord = errors.New("wordle: not a valid word")

	// ErrAlreadyFinished: the day's session is over; the answer travels in
	// the accompanying result payload.
	ErrAlreadyFinished = errors.New("wordle: session already finished")

	// ErrHardModeViolation: the guess drops a previously revealed hint.
	ErrHardModeViolation = errors.New("wordle: hard mode violation")

	// ErrHintAlreadyUsed: the single per-session hint is spent.
	ErrHintAlreadyUsed = errors.New("wordle: hint already used")

	// ErrAllLettersGuessed: every answer letter already appears in a guess.
	ErrAllLettersGuessed = errors.New("wordle: all answer letters guessed")

	// ErrNoActiveSession: the operation needs a session that doesn't exist.
	ErrNoActiveSession = errors.New("wordle: no active session")

	// ErrModeLocked: hard mode cannot change while a game is in progress.
	ErrModeLocked = errors.New("wordle: mode locked by active session")
)

// Infrastructure failures.
var (
	// ErrAnswerUnavailable: no daily answer (empty pool or store down).
	ErrAnswerUnavailable = errors.New("wordle: daily answer unavailable")

	// ErrStoreUnavailable: a backing store could not be reached.
	ErrStoreUnavailable = errors.New("wordle: store unavailable")
)

// IsRuleViolation reports whether err is an expected player-facing outcome
// rather than an infrastructure failure.
func IsRuleViolation(err error) bool {
	for _, e := range []error{
		ErrInvalidWord, ErrAlreadyFinished, ErrHardModeViolation,
		ErrHintAlreadyUsed, ErrAllLettersGuessed, ErrNoActiveSession,
		ErrModeLocked,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
