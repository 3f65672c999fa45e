package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/threerealms/mapserver/internal/auth"
	"github.com/threerealms/mapserver/internal/db"
	"github.com/threerealms/mapserver/internal/server"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token               string `json:"token"`
	UserID              string `json:"userId"`
	Username            string `json:"username"`
	Realm               string `json:"realm"`
	NeedsRealmSelection bool   `json:"needsRealmSelection"`
}

// handleLogin implements POST /login: delegates credential checking to
// the forum client, then reports whether the caller still needs to pick
// a realm (the player row does not exist until then).
func handleLogin(sc *server.Context, forum auth.ForumAuthClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		userID, username, err := forum.Verify(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrAuthInvalid) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeError(w, http.StatusBadGateway, "auth upstream unavailable")
			return
		}

		token, err := sc.Tokens.Issue(userID, username)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "issuing token")
			return
		}

		player, err := sc.Players.Get(r.Context(), userID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "loading player")
			return
		}
		if errors.Is(err, db.ErrNotFound) {
			writeJSON(w, http.StatusOK, loginResponse{
				Token: token, UserID: userID, Username: username, NeedsRealmSelection: true,
			})
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token: token, UserID: userID, Username: username, Realm: string(player.Realm),
		})
	}
}
