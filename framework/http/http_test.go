package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gohttp "github.com/km-arc/go-putty/framework/http"
	"github.com/km-arc/go-putty/framework/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newResponse(t *testing.T) (*gohttp.Response, *httptest.ResponseRecorder) {
	t.Helper()
	rr := httptest.NewRecorder()
	return gohttp.NewResponse(rr), rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	return m
}

// ── Response ─────────────────────────────────────────────────────────────────

func TestResponse_JSON(t *testing.T) {
	res, rr := newResponse(t)
	res.JSON(http.StatusAccepted, map[string]any{"key": "val"})

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "val", decodeJSON(t, rr)["key"])
}

func TestResponse_Success(t *testing.T) {
	res, rr := newResponse(t)
	res.Success(map[string]any{"status": "ok"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"data": map[string]any{"status": "ok"}}, decodeJSON(t, rr))
}

func TestResponse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		send    func(res *gohttp.Response)
		status  int
		message string
	}{
		{"error", func(res *gohttp.Response) { res.Error(http.StatusTeapot, "short and stout") }, http.StatusTeapot, "short and stout"},
		{"unauthorized", func(res *gohttp.Response) { res.Unauthorized() }, http.StatusUnauthorized, "Unauthenticated."},
		{"not found", func(res *gohttp.Response) { res.NotFound() }, http.StatusNotFound, "Not found."},
		{"not found custom", func(res *gohttp.Response) { res.NotFound("no binding") }, http.StatusNotFound, "no binding"},
		{"unprocessable", func(res *gohttp.Response) { res.UnprocessableEntity(errors.New("cannot build")) }, http.StatusUnprocessableEntity, "cannot build"},
		{"server error", func(res *gohttp.Response) { res.ServerError() }, http.StatusInternalServerError, "Server Error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, rr := newResponse(t)
			tt.send(res)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.message, decodeJSON(t, rr)["message"])
		})
	}
}

func TestResponse_ValidationError(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"env": "required"})
	require.True(t, v.Fails())

	res, rr := newResponse(t)
	res.ValidationError(v.Errors())

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, map[string]any{
		"errors": map[string]any{"env": []any{"The env field is required."}},
	}, decodeJSON(t, rr))
}

// ── Request ──────────────────────────────────────────────────────────────────

func TestRequest_Query(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/bindings?kind=class&resolved=true&bad=maybe", nil))

	assert.Equal(t, "class", req.Query("kind"))
	assert.Equal(t, "any", req.Query("missing", "any"))

	resolved, ok := req.QueryBool("resolved")
	assert.True(t, ok)
	assert.True(t, resolved)

	_, ok = req.QueryBool("bad")
	assert.False(t, ok)
	_, ok = req.QueryBool("missing")
	assert.False(t, ok)

	assert.Equal(t, http.MethodGet, req.Method())
	assert.Equal(t, "/bindings", req.Path())
}

func TestRequest_BearerToken(t *testing.T) {
	raw := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, gohttp.NewRequest(raw).BearerToken())

	raw.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, gohttp.NewRequest(raw).BearerToken())

	raw.Header.Set("Authorization", "Bearer secret-token")
	req := gohttp.NewRequest(raw)
	assert.Equal(t, "secret-token", req.BearerToken())
	assert.Equal(t, "Bearer secret-token", req.Header("Authorization"))
	assert.Same(t, raw, req.Raw())
}

func TestRequest_RouteParam(t *testing.T) {
	mux := chi.NewRouter()
	var got string
	mux.Get("/bindings/{parent}", func(w http.ResponseWriter, r *http.Request) {
		got = gohttp.NewRequest(r).RouteParam("parent")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bindings/*main.SqlRepo", nil))
	assert.Equal(t, "*main.SqlRepo", got)
}
