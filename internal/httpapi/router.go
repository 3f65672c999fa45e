// Package httpapi exposes the map server's external interface: the
// forum-backed login/realm-selection HTTP endpoints, a health probe, and
// the WebSocket upgrade handshake, routed with github.com/go-chi/chi/v5
// per spec.md §6.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/threerealms/mapserver/internal/auth"
	"github.com/threerealms/mapserver/internal/server"
)

// requestTimeout bounds every HTTP handler except the WebSocket upgrade.
const requestTimeout = 10 * time.Second

// NewRouter builds the full external HTTP surface.
func NewRouter(sc *server.Context, forum auth.ForumAuthClient) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/login", handleLogin(sc, forum))
	r.With(requireAuth(sc)).Post("/realm", handleSelectRealm(sc))
	r.Get("/health", handleHealth(sc))
	r.With(requireAuth(sc)).Get("/ws", handleWebSocket(sc))

	return r
}
