// internal/httpserver/grid.go
//
// Emoji rendering of the guess grid, one row per guess. Colorblind players
// get the high-contrast orange/blue palette instead of green/yellow.

package httpserver

import (
	"strings"

	"github.com/ckhuang/wordlebot/internal/game"
)

// emojiGrid renders marks as a shareable emoji grid with the uppercase
// guesses alongside.
func emojiGrid(guesses []string, marks [][]game.Mark, colorBlind bool) string {
	greenEmoji, yellowEmoji := "🟩", "🟨"
	if colorBlind {
		greenEmoji, yellowEmoji = "🟧", "🟦"
	}

	var b strings.Builder
	for i, row := range marks {
		for _, m := range row {
			switch m {
			case game.MarkGreen:
				b.WriteString(greenEmoji)
			case game.MarkYellow:
				b.WriteString(yellowEmoji)
			default:
				b.WriteString("⬜")
			}
		}
		if i < len(guesses) {
			b.WriteString("  ")
			b.WriteString(strings.ToUpper(guesses[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
