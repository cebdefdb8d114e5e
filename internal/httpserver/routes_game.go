// internal/httpserver/routes_game.go
//
// Game and preference endpoints. Rule violations come back as typed JSON
// payloads with 4xx statuses and are never logged as errors; infrastructure
// failures map to 503.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ckhuang/wordlebot/internal/wordle"
)

// guessReq is the request payload for POST /game/guess.
type guessReq struct {
	Word string `json:"word"`
}

// guessRes is the response payload for POST /game/guess.
type guessRes struct {
	State        string     `json:"state"` // in_progress | won | lost
	Marks        [][]string `json:"marks"` // per-guess, per-letter
	Grid         string     `json:"grid"`  // emoji rendering of marks
	Attempts     int        `json:"attempts"`
	AttemptsLeft int        `json:"attemptsLeft"`
	Answer       string     `json:"answer,omitempty"` // revealed when finished
	Points       int        `json:"points,omitempty"`
	TotalScore   int        `json:"totalScore,omitempty"`
}

// handleGuess submits one guess for the calling player.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	res, err := s.svc.SubmitGuess(r.Context(), playerID(r), req.Word)
	if err != nil {
		// AlreadyFinished still carries a payload so the answer can be
		// revealed alongside the rejection.
		if errors.Is(err, wordle.ErrAlreadyFinished) && res != nil {
			writeGameError(w, err, res.Answer)
			return
		}
		writeGameError(w, err, "")
		return
	}
	_ = json.NewEncoder(w).Encode(toGuessRes(res))
}

// hintRes is the response payload for POST /game/hint.
type hintRes struct {
	Letter string `json:"letter"` // membership only, position never revealed
}

// handleHint issues the session's single hint letter.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	letter, err := s.svc.RequestHint(r.Context(), playerID(r))
	if err != nil {
		writeGameError(w, err, "")
		return
	}
	_ = json.NewEncoder(w).Encode(hintRes{Letter: string(letter)})
}

// modeReq is the request payload for POST /user/mode; absent fields are
// unchanged.
type modeReq struct {
	Night      *bool `json:"night,omitempty"`
	ColorBlind *bool `json:"colorblind,omitempty"`
	Hard       *bool `json:"hard,omitempty"`
}

// modeRes reports the resulting preference state.
type modeRes struct {
	Night      bool `json:"night"`
	ColorBlind bool `json:"colorblind"`
	Hard       bool `json:"hard"`
}

// handleMode toggles display and difficulty preferences.
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	p, err := s.svc.SetMode(r.Context(), playerID(r), wordle.ModeUpdate{
		Night:      req.Night,
		ColorBlind: req.ColorBlind,
		Hard:       req.Hard,
	})
	if err != nil {
		writeGameError(w, err, "")
		return
	}
	_ = json.NewEncoder(w).Encode(modeRes{
		Night:      p.NightMode,
		ColorBlind: p.ColorBlindMode,
		Hard:       p.HardMode,
	})
}

// scoreRes is the response payload for GET /user/score.
type scoreRes struct {
	Score      int    `json:"score"`
	FirstGuess string `json:"firstGuess,omitempty"` // RFC3339, absent until first win
}

// handleScore returns the player's cumulative score.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	score, first, err := s.svc.Score(r.Context(), playerID(r))
	if err != nil {
		writeGameError(w, err, "")
		return
	}
	res := scoreRes{Score: score}
	if first != nil {
		res.FirstGuess = first.UTC().Format(time.RFC3339)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleDebugWords reports loaded word list counts.
func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	a, g := s.list.Counts()
	_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g})
}

// toGuessRes converts a service result into the wire shape.
func toGuessRes(res *wordle.GuessResult) guessRes {
	marks := make([][]string, len(res.Marks))
	for i, row := range res.Marks {
		marks[i] = make([]string, len(row))
		for j, m := range row {
			marks[i][j] = string(m)
		}
	}
	return guessRes{
		State:        string(res.State),
		Marks:        marks,
		Grid:         emojiGrid(res.Session.Guesses, res.Marks, res.Session.ColorBlind),
		Attempts:     res.Attempts,
		AttemptsLeft: res.AttemptsLeft,
		Answer:       res.Answer,
		Points:       res.Points,
		TotalScore:   res.TotalScore,
	}
}

// errBody is the wire shape for typed failures.
type errBody struct {
	Error  string `json:"error"`
	Answer string `json:"answer,omitempty"`
}

// writeGameError maps the service error taxonomy onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error, answer string) {
	code, status := "internal", http.StatusInternalServerError
	switch {
	case errors.Is(err, wordle.ErrInvalidWord):
		code, status = "invalid_word", http.StatusBadRequest
	case errors.Is(err, wordle.ErrAlreadyFinished):
		code, status = "already_finished", http.StatusConflict
	case errors.Is(err, wordle.ErrHardModeViolation):
		code, status = "hard_mode_violation", http.StatusConflict
	case errors.Is(err, wordle.ErrHintAlreadyUsed):
		code, status = "hint_already_used", http.StatusConflict
	case errors.Is(err, wordle.ErrAllLettersGuessed):
		code, status = "all_letters_guessed", http.StatusConflict
	case errors.Is(err, wordle.ErrNoActiveSession):
		code, status = "no_active_session", http.StatusConflict
	case errors.Is(err, wordle.ErrModeLocked):
		code, status = "mode_locked", http.StatusConflict
	case errors.Is(err, wordle.ErrAnswerUnavailable):
		code, status = "answer_unavailable", http.StatusServiceUnavailable
	case errors.Is(err, wordle.ErrStoreUnavailable):
		code, status = "store_unavailable", http.StatusServiceUnavailable
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errBody{Error: code, Answer: answer})
}
