package httpapi

import (
	"net/http"

	"github.com/threerealms/mapserver/internal/server"
)

type healthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}

// handleHealth implements GET /health: a liveness probe reporting the
// current WebSocket connection count alongside a static "ok" status.
func handleHealth(sc *server.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:      "ok",
			Connections: sc.Bus.ConnectionCount(),
		})
	}
}
