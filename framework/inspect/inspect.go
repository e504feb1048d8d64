// Package inspect serves a read-mostly HTTP view of a container: its
// bindings, whether their singletons exist yet, and on-demand resolution of
// bound types.
//
//	GET  /healthz             {"data":{"status":"ok"}}
//	GET  /bindings            every binding; ?kind=class|constant&resolved=true|false,
//	                          422 on any other filter value
//	GET  /bindings/{parent}   the bindings of one parent type, 404 when unbound
//	POST /resolve/{parent}    resolves the parent at the root, 422 on failure
//
// Parent types are named the way reflect.Type prints them, for example
// "main.Logger" or "*main.SqlRepo".
package inspect

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samber/lo"

	"github.com/km-arc/go-putty/framework/container"
	gohttp "github.com/km-arc/go-putty/framework/http"
	"github.com/km-arc/go-putty/framework/logging"
	"github.com/km-arc/go-putty/framework/routing"
	"github.com/km-arc/go-putty/framework/validation"
)

// Handler exposes one container over HTTP.
type Handler struct {
	container *container.Container
	token     string
	logger    *logging.Logger
}

// Option configures a Handler.
type Option func(h *Handler)

// WithToken requires "Authorization: Bearer <token>" on every route except
// /healthz.
func WithToken(token string) Option {
	return func(h *Handler) {
		h.token = token
	}
}

// New creates a Handler for c.
func New(c *container.Container, opts ...Option) *Handler {
	h := &Handler{
		container: c,
		logger:    logging.NewLogger("inspect"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Resolution is the body of a successful POST /resolve/{parent}.
type Resolution struct {
	Parent   string                 `json:"parent"`
	Instance string                 `json:"instance"`
	Bindings []container.BindingInfo `json:"bindings"`
}

// Register mounts the routes on r.
func (h *Handler) Register(r *routing.Router) {
	r.Get("/healthz", h.health)
	r.Group(func(g *routing.Router) {
		if h.token != "" {
			g.Middleware(h.authenticate)
		}
		g.Get("/bindings", h.list)
		g.Get("/bindings/{parent}", h.show)
		g.Post("/resolve/{parent}", h.resolve)
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(map[string]string{"status": "ok"})
}

var listFilters = validation.Rules{
	"kind":     "sometimes|in:class,constant",
	"resolved": "sometimes|boolean",
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	v := validation.Make(map[string]string{
		"kind":     req.Query("kind"),
		"resolved": req.Query("resolved"),
	}, listFilters)
	if v.Fails() {
		gohttp.NewResponse(w).ValidationError(v.Errors())
		return
	}

	bindings := h.container.Bindings()

	if kind := req.Query("kind"); kind != "" {
		bindings = lo.Filter(bindings, func(b container.BindingInfo, _ int) bool {
			return b.Kind == kind
		})
	}
	if resolved, ok := req.QueryBool("resolved"); ok {
		bindings = lo.Filter(bindings, func(b container.BindingInfo, _ int) bool {
			return b.Resolved == resolved
		})
	}

	gohttp.NewResponse(w).Success(bindings)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)

	parent := parentParam(r)
	bindings := h.forParent(parent)
	if len(bindings) == 0 {
		res.NotFound(fmt.Sprintf("no bindings for %s", parent))
		return
	}
	res.Success(bindings)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)

	parent := parentParam(r)
	t, ok := h.container.Lookup(parent)
	if !ok {
		res.NotFound(fmt.Sprintf("no bindings for %s", parent))
		return
	}

	instance, err := h.container.Resolve(t)
	if err != nil {
		h.logger.Warnf("resolve %s: %v", parent, err)
		res.UnprocessableEntity(err)
		return
	}

	h.logger.Infof("resolved %s to %T", parent, instance)
	res.Success(Resolution{
		Parent:   parent,
		Instance: fmt.Sprintf("%T", instance),
		Bindings: h.forParent(parent),
	})
}

func (h *Handler) forParent(parent string) []container.BindingInfo {
	return lo.Filter(h.container.Bindings(), func(b container.BindingInfo, _ int) bool {
		return b.Parent == parent
	})
}

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := gohttp.NewRequest(r)
		if subtle.ConstantTimeCompare([]byte(req.BearerToken()), []byte(h.token)) != 1 {
			h.logger.Warnf("rejected %s %s: missing or invalid token", req.Method(), req.Path())
			gohttp.NewResponse(w).Unauthorized()
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parentParam(r *http.Request) string {
	parent := gohttp.NewRequest(r).RouteParam("parent")
	if unescaped, err := url.PathUnescape(parent); err == nil {
		return unescaped
	}
	return parent
}
