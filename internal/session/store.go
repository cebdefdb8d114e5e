// internal/session/store.go
//
// Per-player session persistence for the current game day.
// Responsibilities:
//   - Keep one JSON-encoded game.Session per player in the key-value store.
//   - Recompute the TTL to local midnight on every write, so a session never
//     outlives the day's answer.
//   - Serialize mutations per player with keyed locks: rapid double-submits
//     append at most one guess per logical call and never corrupt order.
//
// Rule checks that must be atomic with the mutation (finished state, hard
// mode, hint single-use) run inside the per-player critical section here, as
// does lazy creation on the first guess of the day — a stale existence check
// outside the lock could otherwise recreate the session and wipe a guess
// another request already acknowledged. The orchestration layer maps the
// sentinel errors onto its own taxonomy.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ckhuang/wordlebot/internal/daily"
	"github.com/ckhuang/wordlebot/internal/game"
	"github.com/ckhuang/wordlebot/internal/kv"
)

// Sentinel errors surfaced by mutating operations.
var (
	ErrNotFound          = errors.New("session: not found")
	ErrFinished          = errors.New("session: already finished")
	ErrHardMode          = errors.New("session: hard mode violation")
	ErrHintUsed          = errors.New("session: hint already used")
	ErrAllLettersGuessed = errors.New("session: all answer letters guessed")
)

// keyPrefix namespaces session records in the shared store.
const keyPrefix = "wordle:session:"

// userLock is a per-player mutex with a waiter count, so entries can be
// evicted from the map the moment nobody holds or wants them.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// Store manages day-scoped player sessions on top of a kv.Store.
type Store struct {
	kv  kv.Store
	now func() time.Time // injectable clock for TTL tests

	mu    sync.Mutex // guards locks
	locks map[string]*userLock
}

// NewStore constructs a session Store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store, now: time.Now, locks: make(map[string]*userLock)}
}

// NewStoreWithClock is NewStore with an injectable clock. Test helper.
func NewStoreWithClock(store kv.Store, now func() time.Time) *Store {
	return &Store{kv: store, now: now, locks: make(map[string]*userLock)}
}

// Get loads the player's session for today. Absence is not an error.
func (s *Store) Get(ctx context.Context, userID string) (*game.Session, bool, error) {
	raw, ok, err := s.kv.Get(ctx, key(userID))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	var sess game.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return &sess, true, nil
}

// AppendGuess appends one validated guess to the player's session, creating
// the session on the first guess of the day. Creation and append happen in
// the same critical section, so duplicate first-of-day submissions land on
// one session instead of recreating it.
//
// The hard-mode flag is fixed at creation; on an existing session the
// parameter is ignored. Display flags are refreshed from the caller's
// current preferences so a mid-day mode toggle shows up in rendering
// without affecting gameplay.
//
// Rejections write nothing and consume no attempt:
//   - finished session → ErrFinished
//   - hard-mode violation against the previous guess → ErrHardMode
func (s *Store) AppendGuess(ctx context.Context, userID, word, answer string, hardMode, night, colorBlind bool) (*game.Session, error) {
	unlock := s.lock(userID)
	defer unlock()

	sess, ok, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		sess = &game.Session{Guesses: []string{}, HardMode: hardMode}
	}
	if sess.Finished(answer) {
		return sess, ErrFinished
	}
	if sess.HardMode && len(sess.Guesses) > 0 {
		prev := sess.Guesses[len(sess.Guesses)-1]
		if !game.CheckHardMode(word, prev, answer) {
			return sess, ErrHardMode
		}
	}

	sess.Guesses = append(sess.Guesses, word)
	sess.NightMode = night
	sess.ColorBlind = colorBlind
	if err := s.save(ctx, userID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// UseHint marks the session's single hint as consumed and returns one unused
// answer letter. The letter reveals membership only, never position. A hint
// needs an existing session: it never creates one.
//
// Atomic with respect to concurrent hint requests: the second caller gets
// ErrHintUsed. When every answer letter was already guessed the hint fails
// with ErrAllLettersGuessed and stays available.
func (s *Store) UseHint(ctx context.Context, userID, answer string) (byte, *game.Session, error) {
	unlock := s.lock(userID)
	defer unlock()

	sess, ok, err := s.Get(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, ErrNotFound
	}
	if sess.Finished(answer) {
		return 0, sess, ErrFinished
	}
	if sess.HintUsed {
		return 0, sess, ErrHintUsed
	}
	letter, ok := game.HintLetter(sess.Guesses, answer)
	if !ok {
		return 0, sess, ErrAllLettersGuessed
	}

	sess.HintUsed = true
	if err := s.save(ctx, userID, sess); err != nil {
		return 0, nil, err
	}
	return letter, sess, nil
}

// save persists the session with a TTL tracking the current day boundary.
// The TTL is recomputed on every write, not fixed at creation.
func (s *Store) save(ctx context.Context, userID string, sess *game.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", userID, err)
	}
	return s.kv.Set(ctx, key(userID), raw, daily.UntilMidnight(s.now()))
}

// lock acquires the per-player mutex and returns its release func. Entries
// are refcounted under s.mu and deleted on the last release, so the map
// only ever holds players with an operation in flight.
func (s *Store) lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

func key(userID string) string { return keyPrefix + userID }
