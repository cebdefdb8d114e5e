// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Load the answer pool and valid-guess list from newline-delimited files
//     or fall back to embedded defaults.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Supply RandomAnswer, IsValid, IsAnswer, and Counts.
//
// Word Lists:
//   - "answers": canonical daily-pool solutions (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Loading behavior (Load):
//   1. If both paths are set, load answers from the first and allowed
//      guesses from the second.
//   2. If only the allowed path is set, use that file for both.
//   3. If neither is set, fall back to the embedded defaults in assets/.
//
// Constraints:
//   • Words must be 5 alphabetic letters (a-z); anything else is skipped.
//   • Lists are normalized to lowercase and deduplicated.
//   • A List is immutable for the process lifetime once loaded.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/ckhuang/wordlebot/assets"
	"github.com/ckhuang/wordlebot/internal/game"
)

// ErrEmptyAnswers is returned by RandomAnswer when the daily pool is empty.
// Gameplay that depends on an answer reports answer-unavailable in that case.
var ErrEmptyAnswers = errors.New("words: answers list is empty")

// List holds the immutable word lists for the process.
type List struct {
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ guesses
}

// Load builds a List from the given file paths, falling back to the embedded
// defaults when both paths are empty. Returns an error only for unreadable
// files; an empty answer pool is legal at load time and surfaces later via
// ErrEmptyAnswers.
func Load(answersPath, allowedPath string) (*List, error) {
	var ansList, allowList []string

	switch {
	case answersPath != "" && allowedPath != "":
		var err error
		ansList, err = readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		allowList, err = readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}

	// Only allowed list provided → use it for both.
	case answersPath == "" && allowedPath != "":
		var err error
		allowList, err = readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		ansList = allowList

	default:
		var err error
		ansList, err = assets.AnswersList()
		if err != nil {
			return nil, err
		}
		allowList, err = assets.AllowedList()
		if err != nil {
			return nil, err
		}
	}

	return New(ansList, allowList), nil
}

// New assembles a List from raw slices, normalizing and deduplicating.
// Answers are always also valid guesses.
func New(answers, allowed []string) *List {
	ans := lo.Uniq(lo.FilterMap(answers, normalize))
	l := &List{
		answers:    ans,
		answersSet: toSet(ans),
		allowedSet: toSet(ans),
	}
	for _, w := range lo.FilterMap(allowed, normalize) {
		l.allowedSet[w] = struct{}{}
	}
	return l
}

// Answers returns the canonical daily answer pool.
func (l *List) Answers() []string { return l.answers }

// IsValid reports whether w is a valid guess (answers ∪ guesses).
func (l *List) IsValid(w string) bool {
	_, ok := l.allowedSet[w]
	return ok
}

// IsAnswer reports whether w is in the daily answer pool.
func (l *List) IsAnswer(w string) bool {
	_, ok := l.answersSet[w]
	return ok
}

// RandomAnswer returns a cryptographically random answer from the pool.
func (l *List) RandomAnswer() (string, error) {
	if len(l.answers) == 0 {
		return "", ErrEmptyAnswers
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	if err != nil {
		return l.answers[0], nil
	}
	return l.answers[n.Int64()], nil
}

// Counts returns the loaded word counts: (answers, allowed).
func (l *List) Counts() (int, int) {
	return len(l.answers), len(l.allowedSet)
}

// normalize lowercases and trims a raw line, keeping only valid 5-letter
// alphabetic words.
func normalize(raw string, _ int) (string, bool) {
	w := strings.TrimSpace(strings.ToLower(raw))
	return w, len(w) == game.WordLength && game.IsAlpha(w)
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}
