// internal/daily/scheduler.go
//
// Daily answer selection and rotation.
// Responsibilities:
//   - Pick one answer per calendar day, shared by every process through the
//     key-value store (SetNX makes initialization idempotent under races).
//   - Cache today's answer in-process to avoid a store round trip per guess,
//     invalidating the cache when the local day boundary is crossed.
//   - Run a background timer that re-runs the same idempotent selection just
//     after midnight so the new day's answer is ready before the first guess.

package daily

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ckhuang/wordlebot/internal/kv"
	"github.com/ckhuang/wordlebot/internal/words"
)

// AnswerKey is the shared store key holding today's answer. Its TTL expires
// at local midnight, superseding the answer for the next day.
const AnswerKey = "wordle:daily"

// rolloverSlack delays the rollover timer slightly past midnight so the old
// key's TTL has definitely lapsed before re-initialization.
const rolloverSlack = 3 * time.Second

// ErrNoAnswer is returned when no daily answer can be produced: the answer
// pool is empty or the store cannot be reached.
var ErrNoAnswer = errors.New("daily: answer unavailable")

// Scheduler owns the daily answer lifecycle. Construct with New and share a
// single instance; all methods are safe for concurrent use.
type Scheduler struct {
	store kv.Store
	list  *words.List
	now   func() time.Time // injectable clock for rollover tests

	mu     sync.RWMutex // guards cached
	cached cachedAnswer
}

// cachedAnswer is the process-local copy of today's answer, valid only for
// the date it was read on.
type cachedAnswer struct {
	word string
	date string
}

// New constructs a Scheduler. Call Run to start the rollover timer.
func New(store kv.Store, list *words.List) *Scheduler {
	return &Scheduler{store: store, list: list, now: time.Now}
}

// NewWithClock is New with an injectable clock. Test helper.
func NewWithClock(store kv.Store, list *words.List, now func() time.Time) *Scheduler {
	return &Scheduler{store: store, list: list, now: now}
}

// Answer returns today's answer, initializing it if this is the first call
// of the day anywhere in the system.
//
// Initialization is idempotent: the first writer wins via SetNX, and a
// process that loses the race reads back the winner's answer instead of
// overwriting it, so no two players ever see different answers on the same
// day. Returns ErrNoAnswer when the answer pool is empty or the store is
// unreachable.
func (s *Scheduler) Answer(ctx context.Context) (string, error) {
	today := DateKey(s.now())
	if w := s.cachedFor(today); w != "" {
		return w, nil
	}

	// Fast path: another process already initialized today's answer.
	if raw, ok, err := s.store.Get(ctx, AnswerKey); err != nil {
		return "", errors.Join(ErrNoAnswer, err)
	} else if ok {
		return s.remember(string(raw), today), nil
	}

	pick, err := s.list.RandomAnswer()
	if err != nil {
		return "", errors.Join(ErrNoAnswer, err)
	}

	ttl := UntilMidnight(s.now())
	won, err := s.store.SetNX(ctx, AnswerKey, []byte(pick), ttl)
	if err != nil {
		return "", errors.Join(ErrNoAnswer, err)
	}
	if !won {
		// Lost the init race; observe the winner's value.
		raw, ok, err := s.store.Get(ctx, AnswerKey)
		if err != nil || !ok {
			return "", errors.Join(ErrNoAnswer, err)
		}
		return s.remember(string(raw), today), nil
	}

	log.Info().Str("date", today).Msg("daily answer initialized")
	return s.remember(pick, today), nil
}

// Run drives the midnight rollover until ctx is cancelled. It performs one
// initialization immediately, then re-runs the idempotent init shortly after
// each local midnight. Intended to run on its own goroutine; it never blocks
// request handling.
func (s *Scheduler) Run(ctx context.Context) {
	if _, err := s.Answer(ctx); err != nil {
		log.Warn().Err(err).Msg("initial daily answer selection failed")
	}

	for {
		wait := UntilMidnight(s.now()) + rolloverSlack
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := s.Answer(ctx); err != nil {
				log.Warn().Err(err).Msg("daily answer rollover failed")
			}
		}
	}
}

// cachedFor returns the cached answer if it belongs to date, else "".
func (s *Scheduler) cachedFor(date string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached.date == date {
		return s.cached.word
	}
	return ""
}

func (s *Scheduler) remember(word, date string) string {
	s.mu.Lock()
	s.cached = cachedAnswer{word: word, date: date}
	s.mu.Unlock()
	return word
}
