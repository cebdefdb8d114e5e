// internal/game/score.go
//
// Points for a finished session. Only wins score; a lost session contributes
// nothing to the player's cumulative total.

package game

// Points computes the score for a finished session.
//
//   - Win on attempt k (1-based): MaxGuesses + 1 - k points, so a first-try
//     win is worth MaxGuesses and a last-try win is worth 1.
//   - Hard mode adds a flat HardModeBonus on top.
//   - A session without a correct guess scores 0.
//
// With MaxGuesses fixed at 6 the base is always in [1,6]; revisit the floor
// if that constant ever changes.
func Points(s *Session, answer string) int {
	win := s.WinIndex(answer)
	if win == 0 {
		return 0
	}
	pts := MaxGuesses + 1 - win
	if s.HardMode {
		pts += HardModeBonus
	}
	return pts
}
