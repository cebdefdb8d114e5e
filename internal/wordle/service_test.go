package wordle

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ckhuang/wordlebot/internal/daily"
	"github.com/ckhuang/wordlebot/internal/game"
	"github.com/ckhuang/wordlebot/internal/kv"
	"github.com/ckhuang/wordlebot/internal/prefs"
	"github.com/ckhuang/wordlebot/internal/session"
	"github.com/ckhuang/wordlebot/internal/words"
)

var testWords = []string{
	"apple", "arise", "slate", "crane", "trace", "vivid",
	"pearl", "haste", "label", "allow", "robot", "mommy",
	"brace", "gripe", "frost",
}

// newTestService wires the full stack against in-memory backends, with the
// daily answer pinned to "apple".
func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := kv.NewMemoryStoreWithClock(clock)
	if err := store.Set(ctx, daily.AnswerKey, []byte("apple"), time.Hour); err != nil {
		t.Fatal(err)
	}

	list := words.New(testWords, testWords)
	sched := daily.NewWithClock(store, list, clock)
	sessions := session.NewStoreWithClock(store, clock)

	prefStore, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("prefs.Open: %v", err)
	}
	t.Cleanup(func() { prefStore.Close() })

	return New(list, sched, sessions, prefStore, nil)
}

func TestSubmitGuessFullGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// First guess of the day creates the session implicitly.
	res, err := svc.SubmitGuess(ctx, "u1", "arise")
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if res.State != StateInProgress {
		t.Fatalf("state = %q, want in_progress", res.State)
	}
	if res.Attempts != 1 || res.AttemptsLeft != game.MaxGuesses-1 {
		t.Fatalf("attempts = %d/%d", res.Attempts, res.AttemptsLeft)
	}
	if res.Answer != "" {
		t.Fatal("answer leaked before the session finished")
	}
	if len(res.Marks) != 1 {
		t.Fatalf("marks rows = %d, want 1", len(res.Marks))
	}
	// arise vs apple: a and e green, rest gray.
	if res.Marks[0][0] != game.MarkGreen || res.Marks[0][4] != game.MarkGreen {
		t.Fatalf("marks[0] = %v", res.Marks[0])
	}

	// Winning guess: second attempt scores MaxGuesses - 1 points.
	res, err = svc.SubmitGuess(ctx, "u1", "apple")
	if err != nil {
		t.Fatalf("winning SubmitGuess: %v", err)
	}
	if res.State != StateWon {
		t.Fatalf("state = %q, want won", res.State)
	}
	if res.Answer != "apple" {
		t.Fatalf("answer = %q, want apple revealed", res.Answer)
	}
	if res.Points != game.MaxGuesses-1 {
		t.Fatalf("points = %d, want %d", res.Points, game.MaxGuesses-1)
	}
	if res.TotalScore != res.Points {
		t.Fatalf("total = %d, want %d", res.TotalScore, res.Points)
	}

	// Further guesses reveal the answer without consuming anything.
	res, err = svc.SubmitGuess(ctx, "u1", "slate")
	if !errors.Is(err, ErrAlreadyFinished) {
		t.Fatalf("guess after win = %v, want ErrAlreadyFinished", err)
	}
	if res == nil || res.Answer != "apple" {
		t.Fatal("finished result must still reveal the answer")
	}
	if res.Attempts != 2 {
		t.Fatalf("attempts = %d, rejected guess was recorded", res.Attempts)
	}

	// The ledger survives via Score.
	total, first, err := svc.Score(ctx, "u1")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if total != game.MaxGuesses-1 {
		t.Fatalf("score = %d, want %d", total, game.MaxGuesses-1)
	}
	if first == nil {
		t.Fatal("first guess date not stamped on first win")
	}
}

func TestSubmitGuessInvalidWord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, w := range []string{"zzzzz", "ap", "app le", "apple1", ""} {
		if _, err := svc.SubmitGuess(ctx, "u1", w); !errors.Is(err, ErrInvalidWord) {
			t.Errorf("SubmitGuess(%q) = %v, want ErrInvalidWord", w, err)
		}
	}

	// Rejections never create a session or consume attempts.
	res, err := svc.SubmitGuess(ctx, "u1", "arise")
	if err != nil {
		t.Fatal(err)
	}
	if res.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Attempts)
	}
}

func TestSubmitGuessNormalizes(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	res, err := svc.SubmitGuess(ctx, "u1", "  ARISE ")
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if res.Session.Guesses[0] != "arise" {
		t.Fatalf("stored guess = %q, want lowercase", res.Session.Guesses[0])
	}
}

func TestSubmitGuessLoss(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var res *GuessResult
	var err error
	for i := 0; i < game.MaxGuesses; i++ {
		res, err = svc.SubmitGuess(ctx, "u1", "slate")
		if err != nil {
			t.Fatalf("guess %d: %v", i+1, err)
		}
	}
	if res.State != StateLost {
		t.Fatalf("state = %q, want lost", res.State)
	}
	if res.Answer != "apple" {
		t.Fatal("answer not revealed on loss")
	}
	if res.Points != 0 || res.TotalScore != 0 {
		t.Fatalf("loss scored %d/%d, want 0/0", res.Points, res.TotalScore)
	}

	// The ledger stays empty: no points, no first-guess date.
	total, first, err := svc.Score(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || first != nil {
		t.Fatalf("ledger after loss = %d/%v, want untouched", total, first)
	}
}

// TestSubmitGuessDuplicateFirstOfDay: two near-simultaneous submissions
// from the same player on a day with no session yet must both land on one
// session. Neither acknowledged guess may be dropped by the other request
// recreating the record.
func TestSubmitGuessDuplicateFirstOfDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var wg sync.WaitGroup
	for _, w := range []string{"arise", "slate"} {
		wg.Add(1)
		go func(w string) {
			defer wg.Done()
			if _, err := svc.SubmitGuess(ctx, "u1", w); err != nil {
				t.Errorf("SubmitGuess(%s): %v", w, err)
			}
		}(w)
	}
	wg.Wait()

	res, err := svc.SubmitGuess(ctx, "u1", "crane")
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if res.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (a racing first guess was lost)", res.Attempts)
	}
	seen := map[string]bool{}
	for _, g := range res.Session.Guesses {
		seen[g] = true
	}
	if !seen["arise"] || !seen["slate"] {
		t.Fatalf("guesses = %v, want both racing submissions recorded", res.Session.Guesses)
	}
}

func TestSubmitGuessHardMode(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	yes := true
	if _, err := svc.SetMode(ctx, "u1", ModeUpdate{Hard: &yes}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	if _, err := svc.SubmitGuess(ctx, "u1", "arise"); err != nil {
		t.Fatal(err)
	}

	// "frost" drops both greens from "arise" (a, e).
	res, err := svc.SubmitGuess(ctx, "u1", "frost")
	if !errors.Is(err, ErrHardModeViolation) {
		t.Fatalf("violating guess = %v, want ErrHardModeViolation", err)
	}
	if res != nil {
		t.Fatal("violation should not produce a result")
	}

	// Win on attempt 2 under hard mode: 5 base + bonus.
	res, err = svc.SubmitGuess(ctx, "u1", "apple")
	if err != nil {
		t.Fatal(err)
	}
	if want := game.MaxGuesses - 1 + game.HardModeBonus; res.Points != want {
		t.Fatalf("points = %d, want %d", res.Points, want)
	}
}

func TestRequestHint(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.RequestHint(ctx, "u1"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("hint without session = %v, want ErrNoActiveSession", err)
	}

	if _, err := svc.SubmitGuess(ctx, "u1", "arise"); err != nil {
		t.Fatal(err)
	}

	letter, err := svc.RequestHint(ctx, "u1")
	if err != nil {
		t.Fatalf("RequestHint: %v", err)
	}
	if letter != 'p' && letter != 'l' {
		t.Fatalf("hint = %q, want p or l", letter)
	}

	if _, err := svc.RequestHint(ctx, "u1"); !errors.Is(err, ErrHintAlreadyUsed) {
		t.Fatalf("second hint = %v, want ErrHintAlreadyUsed", err)
	}
}

func TestRequestHintAfterFinish(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.SubmitGuess(ctx, "u1", "apple"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RequestHint(ctx, "u1"); !errors.Is(err, ErrAlreadyFinished) {
		t.Fatalf("hint after win = %v, want ErrAlreadyFinished", err)
	}
}

func TestSetModeLockedMidGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	yes := true

	// Hard mode toggles freely before any guess today.
	if _, err := svc.SetMode(ctx, "u1", ModeUpdate{Hard: &yes}); err != nil {
		t.Fatalf("SetMode before session: %v", err)
	}

	if _, err := svc.SubmitGuess(ctx, "u1", "arise"); err != nil {
		t.Fatal(err)
	}

	no := false
	if _, err := svc.SetMode(ctx, "u1", ModeUpdate{Hard: &no}); !errors.Is(err, ErrModeLocked) {
		t.Fatalf("hard toggle mid-game = %v, want ErrModeLocked", err)
	}

	// Display modes are never locked.
	p, err := svc.SetMode(ctx, "u1", ModeUpdate{Night: &yes})
	if err != nil {
		t.Fatalf("night toggle mid-game: %v", err)
	}
	if !p.NightMode {
		t.Fatal("night mode not applied")
	}

	// Finishing the game unlocks difficulty again.
	if _, err := svc.SubmitGuess(ctx, "u1", "apple"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetMode(ctx, "u1", ModeUpdate{Hard: &no}); err != nil {
		t.Fatalf("hard toggle after finish: %v", err)
	}
}

func TestScoreUnknownPlayer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	total, first, err := svc.Score(ctx, "nobody")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if total != 0 || first != nil {
		t.Fatalf("unknown player score = %d/%v, want 0/nil", total, first)
	}
}

func TestIsRuleViolation(t *testing.T) {
	for _, err := range []error{
		ErrInvalidWord, ErrAlreadyFinished, ErrHardModeViolation,
		ErrHintAlreadyUsed, ErrAllLettersGuessed, ErrNoActiveSession,
		ErrModeLocked,
	} {
		if !IsRuleViolation(err) {
			t.Errorf("IsRuleViolation(%v) = false", err)
		}
	}
	for _, err := range []error{ErrAnswerUnavailable, ErrStoreUnavailable} {
		if IsRuleViolation(err) {
			t.Errorf("IsRuleViolation(%v) = true", err)
		}
	}
}
