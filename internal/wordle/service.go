// internal/wordle/service.go
//
// Game orchestration: ties the daily answer scheduler, session store, word
// lists, rule logic, and the preference ledger into the operations the
// transport consumes.
//
// Session state machine: Absent → InProgress → Finished{Won|Lost}. All rule
// checks that must be atomic with a mutation live in the session store's
// per-player critical section; this layer sequences the steps and maps
// store sentinels onto the public error taxonomy.

package wordle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ckhuang/wordlebot/internal/daily"
	"github.com/ckhuang/wordlebot/internal/game"
	"github.com/ckhuang/wordlebot/internal/prefs"
	"github.com/ckhuang/wordlebot/internal/session"
	"github.com/ckhuang/wordlebot/internal/words"
)

// State is the coarse session state reported to callers.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Metrics is the hook the service reports gameplay events through.
// Implemented by the metrics package; NopMetrics for tests.
type Metrics interface {
	RecordGuess(state State)
	RecordWin(attempts int)
	RecordHint()
	RecordStoreFailure(op string)
}

// NopMetrics discards all events.
type NopMetrics struct{}

func (NopMetrics) RecordGuess(State)         {}
func (NopMetrics) RecordWin(int)             {}
func (NopMetrics) RecordHint()               {}
func (NopMetrics) RecordStoreFailure(string) {}

// Service exposes the externally consumed game operations.
type Service struct {
	list     *words.List
	sched    *daily.Scheduler
	sessions *session.Store
	prefs    *prefs.Store
	metrics  Metrics
	now      func() time.Time
}

// New constructs the game service. metrics may be nil.
func New(list *words.List, sched *daily.Scheduler, sessions *session.Store, prefStore *prefs.Store, metrics Metrics) *Service {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Service{
		list:     list,
		sched:    sched,
		sessions: sessions,
		prefs:    prefStore,
		metrics:  metrics,
		now:      time.Now,
	}
}

// GuessResult is returned by SubmitGuess. On ErrAlreadyFinished the result
// is still populated so the caller can reveal the answer.
type GuessResult struct {
	Session      *game.Session
	Marks        [][]game.Mark // one row per guess so far, for rendering
	State        State
	Attempts     int
	AttemptsLeft int
	Answer       string // revealed only when the session is finished
	Points       int    // awarded by this submission (wins only)
	TotalScore   int    // cumulative ledger after this submission, when finished
}

// SubmitGuess validates and applies one guess for the player.
//
// Rejections (invalid word, hard-mode violation, finished session) never
// consume an attempt. A winning or exhausting guess finishes the session,
// scores it, and folds points into the durable ledger.
func (s *Service) SubmitGuess(ctx context.Context, userID, word string) (*GuessResult, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if len(word) != game.WordLength || !game.IsAlpha(word) || !s.list.IsValid(word) {
		return nil, ErrInvalidWord
	}

	answer, err := s.sched.Answer(ctx)
	if err != nil {
		log.Error().Err(err).Msg("daily answer unavailable")
		return nil, errors.Join(ErrAnswerUnavailable, err)
	}

	pref, err := s.prefs.Ensure(ctx, userID)
	if err != nil {
		s.metrics.RecordStoreFailure("prefs_ensure")
		log.Error().Err(err).Str("user", userID).Msg("load preferences")
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	// The session store creates the session on the first guess of the
	// day, atomically with the append; the hard-mode flag is fixed from
	// the preference at that moment.
	sess, err := s.sessions.AppendGuess(ctx, userID, word, answer, pref.HardMode, pref.NightMode, pref.ColorBlindMode)
	switch {
	case errors.Is(err, session.ErrFinished):
		return s.result(sess, answer, 0, 0), ErrAlreadyFinished
	case errors.Is(err, session.ErrHardMode):
		return nil, ErrHardModeViolation
	case err != nil:
		return nil, s.storeErr("session_append", userID, err)
	}

	res := s.result(sess, answer, 0, 0)
	s.metrics.RecordGuess(res.State)

	if res.State == StateWon {
		points := game.Points(sess, answer)
		updated, err := s.prefs.AddScore(ctx, userID, points, s.now())
		if err != nil {
			s.metrics.RecordStoreFailure("prefs_add_score")
			log.Error().Err(err).Str("user", userID).Msg("persist score")
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		res.Points = points
		res.TotalScore = updated.Score
		s.metrics.RecordWin(res.Attempts)
	} else if res.State == StateLost {
		// A lost session scores 0 and leaves the ledger untouched.
		res.TotalScore = pref.Score
	}
	return res, nil
}

// RequestHint reveals one unused answer letter for an unfinished session.
// The hint is single-use; a second request fails with ErrHintAlreadyUsed.
func (s *Service) RequestHint(ctx context.Context, userID string) (byte, error) {
	answer, err := s.sched.Answer(ctx)
	if err != nil {
		log.Error().Err(err).Msg("daily answer unavailable")
		return 0, errors.Join(ErrAnswerUnavailable, err)
	}

	letter, _, err := s.sessions.UseHint(ctx, userID, answer)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return 0, ErrNoActiveSession
	case errors.Is(err, session.ErrFinished):
		return 0, ErrAlreadyFinished
	case errors.Is(err, session.ErrHintUsed):
		return 0, ErrHintAlreadyUsed
	case errors.Is(err, session.ErrAllLettersGuessed):
		return 0, ErrAllLettersGuessed
	case err != nil:
		return 0, s.storeErr("session_hint", userID, err)
	}
	s.metrics.RecordHint()
	return letter, nil
}

// ModeUpdate carries optional preference toggles; nil fields are unchanged.
type ModeUpdate struct {
	Night      *bool
	ColorBlind *bool
	Hard       *bool
}

// SetMode updates the player's display and difficulty preferences.
// Changing hard mode is rejected with ErrModeLocked while an unfinished
// session exists; difficulty is immutable mid-game.
func (s *Service) SetMode(ctx context.Context, userID string, upd ModeUpdate) (*prefs.UserPreference, error) {
	if upd.Hard != nil {
		sess, ok, err := s.sessions.Get(ctx, userID)
		if err != nil {
			return nil, s.storeErr("session_get", userID, err)
		}
		if ok {
			answer, aerr := s.sched.Answer(ctx)
			// Without an answer we cannot prove the session finished;
			// keep difficulty locked.
			if aerr != nil || !sess.Finished(answer) {
				return nil, ErrModeLocked
			}
		}
	}

	p, err := s.prefs.SetModes(ctx, userID, upd.Night, upd.ColorBlind, upd.Hard)
	if err != nil {
		s.metrics.RecordStoreFailure("prefs_set_modes")
		log.Error().Err(err).Str("user", userID).Msg("update preferences")
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return p, nil
}

// Score returns the player's cumulative points and first-guess date.
// A player with no ledger entry reports zero.
func (s *Service) Score(ctx context.Context, userID string) (int, *time.Time, error) {
	p, ok, err := s.prefs.Find(ctx, userID)
	if err != nil {
		s.metrics.RecordStoreFailure("prefs_find")
		log.Error().Err(err).Str("user", userID).Msg("load score")
		return 0, nil, errors.Join(ErrStoreUnavailable, err)
	}
	if !ok {
		return 0, nil, nil
	}
	return p.Score, p.FirstGuessDate, nil
}

// result assembles a GuessResult snapshot for the session.
func (s *Service) result(sess *game.Session, answer string, points, total int) *GuessResult {
	res := &GuessResult{
		Session:      sess,
		Marks:        game.EvaluateAll(sess.Guesses, answer),
		State:        StateInProgress,
		Attempts:     len(sess.Guesses),
		AttemptsLeft: game.MaxGuesses - len(sess.Guesses),
		Points:       points,
		TotalScore:   total,
	}
	switch {
	case sess.Won(answer):
		res.State = StateWon
	case len(sess.Guesses) >= game.MaxGuesses:
		res.State = StateLost
	}
	if res.State != StateInProgress {
		res.Answer = answer
	}
	return res
}

// storeErr records and wraps an infrastructure failure from a backing store.
func (s *Service) storeErr(op, userID string, err error) error {
	s.metrics.RecordStoreFailure(op)
	log.Error().Err(err).Str("op", op).Str("user", userID).Msg("store failure")
	return errors.Join(ErrStoreUnavailable, err)
}
