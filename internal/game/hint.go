// internal/game/hint.go
//
// Hint letter selection. A hint reveals one answer letter the player has not
// guessed yet — membership only, never position. Single-use bookkeeping
// (Session.HintUsed) belongs to the orchestration layer; this file is the
// pure part.

package game

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/samber/lo"
)

// UnusedAnswerLetters returns the distinct answer letters that appear in no
// recorded guess, in answer order.
func UnusedAnswerLetters(guesses []string, answer string) []byte {
	guessed := strings.Join(guesses, "")
	letters := lo.Uniq([]byte(answer))
	return lo.Filter(letters, func(b byte, _ int) bool {
		return !strings.ContainsRune(guessed, rune(b))
	})
}

// HintLetter picks one unused answer letter uniformly at random.
// The second return is false when every answer letter has been guessed.
func HintLetter(guesses []string, answer string) (byte, bool) {
	unused := UnusedAnswerLetters(guesses, answer)
	if len(unused) == 0 {
		return 0, false
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(unused))))
	if err != nil {
		// crypto/rand failing is effectively fatal elsewhere; first
		// candidate keeps the hint functional.
		return unused[0], true
	}
	return unused[n.Int64()], true
}
