// internal/httpserver/server.go
//
// HTTP server wiring for the Balls and Lines backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints: /game/*, /settings/*, /panels/*, /about.
//   - History endpoints: mounted under /history.
//
// Notes:
//   - The session controller is single-threaded; every handler that touches
//     it holds Server.mu.
//   - CORS is origin-aware and credentials-enabled.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlexeyInc/Color-Lines/internal/results"
	"github.com/AlexeyInc/Color-Lines/internal/session"
)

// Leaderboard is the read side of the game history.
type Leaderboard interface {
	Leaderboard(ctx context.Context, boardSize, limit int) ([]results.Result, error)
	BestFor(ctx context.Context, boardSize int) (int, error)
}

// Deps are the collaborators the server routes to. History and Metrics are
// optional; their routes are not mounted when nil.
type Deps struct {
	Session      *session.Controller
	History      Leaderboard
	Metrics      prometheus.Gatherer
	ClientOrigin string
}

// Server bundles the router and the session it serves.
type Server struct {
	r       *chi.Mux
	mu      sync.Mutex
	ctrl    *session.Controller
	history Leaderboard
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter(), ctrl: d.Session, history: d.History}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"balls-and-lines","endpoints":["/health","/game/*","/settings/*","/panels/*","/about","/history/leaderboard","/metrics"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if d.Metrics != nil {
		s.r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	s.mountGame(s.r)
	s.mountSettings(s.r)
	if d.History != nil {
		s.mountHistory(s.r)
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found", Path: r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// locked runs fn with exclusive access to the session controller.
func (s *Server) locked(fn func(c *session.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctrl)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
