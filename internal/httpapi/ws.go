package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/server"
)

// handleWebSocket implements the WebSocket upgrade handshake. The bearer
// token has already been verified by requireAuth; the resulting claims'
// userId binds every frame from this socket to one player.
func handleWebSocket(sc *server.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "missing claims")
			return
		}

		conn, err := bus.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "userId", claims.UserID, "error", err)
			return
		}

		sc.Bus.Register(conn, claims.UserID)
	}
}
