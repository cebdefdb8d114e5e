// internal/httpserver/server.go
//
// HTTP transport adapter for the game engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     per-player rate limiting).
//   - Public endpoints: "/", "/health", "/metrics", "/debug/words".
//   - Game endpoints: POST /game/guess, POST /game/hint.
//   - Preference endpoints: POST /user/mode, GET /user/score.
//   - Anonymous player cookie: every caller gets a stable UUID identity,
//     which is all the engine needs (authentication is out of scope).
//
// The adapter renders an emoji grid of the marks; richer rendering belongs
// to other frontends consuming the same JSON.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ckhuang/wordlebot/internal/metrics"
	"github.com/ckhuang/wordlebot/internal/wordle"
	"github.com/ckhuang/wordlebot/internal/words"
)

// Server bundles the router and the game service.
type Server struct {
	r    *chi.Mux
	svc  *wordle.Service
	list *words.List
}

// Options tunes middleware behavior.
type Options struct {
	ClientOrigin    string
	RequestTimeout  time.Duration
	RateLimitPerMin int
	RateLimitBurst  int
	SecureCookies   bool                // Secure flag on the player cookie
	Gatherer        prometheus.Gatherer // nil disables /metrics
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *wordle.Service, list *words.List, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), svc: svc, list: list}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(corsFor(opts.ClientOrigin))         // credentials-friendly CORS
	s.r.Use(withPlayerID(opts.SecureCookies))   // stable anonymous identity

	limiter := newRateLimiter(opts.RateLimitPerMin, opts.RateLimitBurst)
	s.r.Use(limiter.middleware)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordlebot","endpoints":["/health","POST /game/guess","POST /game/hint","POST /user/mode","GET /user/score"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if opts.Gatherer != nil {
		s.r.Method(http.MethodGet, "/metrics", metrics.Handler(opts.Gatherer))
	}
	s.r.Get("/debug/words", s.handleDebugWords)

	// --- game + preferences ---
	s.r.Post("/game/guess", s.handleGuess)
	s.r.Post("/game/hint", s.handleHint)
	s.r.Post("/user/mode", s.handleMode)
	s.r.Get("/user/score", s.handleScore)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ---------------------------- player identity -------------------------------

const playerCookieName = "wordle_player"

// ctxPlayerKey is the context key type for the player ID.
type ctxPlayerKey struct{}

// withPlayerID resolves the caller's stable anonymous identity, setting a
// long-lived cookie on first contact.
func withPlayerID(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
				id = c.Value
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     playerCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(365 * 24 * time.Hour),
				})
			}
			ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// playerID returns the caller's identity placed by withPlayerID.
func playerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey{}).(string)
	return id
}
