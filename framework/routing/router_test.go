package routing_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gookit/slog"
	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-putty/framework/logging"
	"github.com/km-arc/go-putty/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

type messages struct {
	mu   sync.Mutex
	list []string
}

func (m *messages) IsHandling(slog.Level) bool { return true }
func (m *messages) Flush() error               { return nil }
func (m *messages) Close() error               { return nil }

func (m *messages) Handle(r *slog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, r.Message)
	return nil
}

func (m *messages) joined() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.list, "\n")
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Delete("/users/{id}", okHandler)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodDelete, "/users/1"},
	} {
		rr := do(t, r, tc.method, tc.path)
		if rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d want 200", tc.method, tc.path, rr.Code)
		}
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)

	if rr := do(t, r, http.MethodGet, "/not-registered"); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if rr := do(t, r, http.MethodPost, "/hello"); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/bindings/{parent}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "parent")))
	})

	rr := do(t, r, http.MethodGet, "/bindings/main.Logger")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "main.Logger", rr.Body.String())
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/users"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/users: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/users"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /users: expected 404, got %d", rr.Code)
	}
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New()
	r.Get("/open", okHandler)
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/open")
	assert.False(t, called, "middleware must not run outside its group")

	do(t, r, http.MethodGet, "/protected")
	assert.True(t, called)
}

func TestRouter_Recovers(t *testing.T) {
	r := routing.New()
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := do(t, r, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// ── Routes ───────────────────────────────────────────────────────────────────

func TestRouter_Routes(t *testing.T) {
	r := routing.New()
	r.Post("/resolve/{parent}", okHandler)
	r.Get("/bindings", okHandler)
	r.Prefix("/api", func(api *routing.Router) {
		api.Get("/healthz", okHandler)
	})

	assert.Equal(t, []routing.Route{
		{Method: http.MethodGet, Pattern: "/api/healthz"},
		{Method: http.MethodGet, Pattern: "/bindings"},
		{Method: http.MethodPost, Pattern: "/resolve/{parent}"},
	}, r.Routes())
}

// ── RequestLogger ────────────────────────────────────────────────────────────

func TestRequestLogger(t *testing.T) {
	previous := logging.Level()
	rec := &messages{}
	logging.SetLevel(slog.DebugLevel)
	logging.AddHandler(rec)
	t.Cleanup(func() {
		logging.SetLevel(previous)
		logging.ResetHandlers()
	})

	h := routing.RequestLogger(logging.NewLogger("http"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))

	do(t, h, http.MethodGet, "/ok")
	do(t, h, http.MethodGet, "/fail")

	out := rec.joined()
	assert.Contains(t, out, "[http] GET /ok -> 200")
	assert.Contains(t, out, "[http] GET /fail -> 502")
}

// ── Handler() returns http.Handler ───────────────────────────────────────────

func TestRouter_HandlerInterface(t *testing.T) {
	r := routing.New()
	r.Get("/ping", okHandler)
	var _ http.Handler = r.Handler()
}
