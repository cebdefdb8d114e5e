// internal/prefs/store.go
//
// Durable per-player preferences and the cumulative points ledger.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Find/ensure/update of preference rows; score accrual with
//     first-write-wins semantics for the first-guess date.
//
// Unlike session state, these rows are never day-scoped and never deleted.

package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/ckhuang/wordlebot/assets"
)

// UserPreference is one player's durable record.
type UserPreference struct {
	UserID         string
	NightMode      bool
	ColorBlindMode bool
	HardMode       bool
	Score          int
	FirstGuessDate *time.Time // set once, on the first scoring event ever
	CreatedAt      time.Time
}

// Store wraps the SQLite preference database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if missing) the SQLite database at dsn and applies
// migrations.
func Open(dsn string) (*Store, error) {
	// Ensure directory exists for ./data/app.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// migrate applies the embedded assets/sql/*.sql files in lexical order,
// recording each applied file in _migrations so reruns are no-ops.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	dirents, err := assets.MigrationsFS.ReadDir("sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, d := range dirents {
		files = append(files, d.Name())
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := s.db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := assets.MigrationsFS.ReadFile("sql/" + f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Find loads a player's preferences. Absence is not an error.
func (s *Store) Find(ctx context.Context, userID string) (*UserPreference, bool, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT user_id, night_mode, color_blind_mode, hard_mode, score,
               COALESCE(first_guess_date, ''), created_at
        FROM user_settings WHERE user_id=?`, userID)

	var p UserPreference
	var first, created string
	if err := row.Scan(&p.UserID, &p.NightMode, &p.ColorBlindMode, &p.HardMode,
		&p.Score, &first, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	if first != "" {
		if t, err := time.Parse(time.RFC3339, first); err == nil {
			p.FirstGuessDate = &t
		}
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		p.CreatedAt = t
	}
	return &p, true, nil
}

// Ensure returns the player's preferences, inserting a default row on first
// interaction.
func (s *Store) Ensure(ctx context.Context, userID string) (*UserPreference, error) {
	if p, ok, err := s.Find(ctx, userID); err != nil {
		return nil, err
	} else if ok {
		return p, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	// INSERT OR IGNORE: a concurrent first interaction wins harmlessly.
	if _, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO user_settings (user_id, created_at) VALUES (?, ?)`,
		userID, now); err != nil {
		return nil, err
	}
	p, _, err := s.Find(ctx, userID)
	return p, err
}

// SetModes updates the toggles that are present (non-nil), creating the row
// if needed, and returns the resulting preferences.
func (s *Store) SetModes(ctx context.Context, userID string, night, colorBlind, hard *bool) (*UserPreference, error) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	set := func(col string, v *bool) error {
		if v == nil {
			return nil
		}
		_, err := s.db.ExecContext(ctx,
			`UPDATE user_settings SET `+col+`=? WHERE user_id=?`, *v, userID)
		return err
	}
	if err := set("night_mode", night); err != nil {
		return nil, err
	}
	if err := set("color_blind_mode", colorBlind); err != nil {
		return nil, err
	}
	if err := set("hard_mode", hard); err != nil {
		return nil, err
	}
	p, _, err := s.Find(ctx, userID)
	return p, err
}

// AddScore folds points into the cumulative total and stamps the
// first-guess date if it was never set. First write wins: COALESCE keeps an
// existing date untouched forever after.
func (s *Store) AddScore(ctx context.Context, userID string, points int, when time.Time) (*UserPreference, error) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `
        UPDATE user_settings
        SET score = score + ?,
            first_guess_date = COALESCE(first_guess_date, ?)
        WHERE user_id=?`,
		points, when.UTC().Format(time.RFC3339), userID); err != nil {
		return nil, err
	}
	p, _, err := s.Find(ctx, userID)
	return p, err
}
