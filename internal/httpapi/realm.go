package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/threerealms/mapserver/internal/auth"
	"github.com/threerealms/mapserver/internal/db"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

type selectRealmRequest struct {
	Realm model.Realm `json:"realm"`
}

type selectRealmResponse struct {
	Realm    model.Realm `json:"realm"`
	Position struct {
		X int32 `json:"x"`
		Y int32 `json:"y"`
	} `json:"position"`
}

// handleSelectRealm implements POST /realm: idempotent if the caller
// already picked this exact realm, 409 if they try to change it, and
// otherwise creates the Player row at the world's center spawn point —
// a Player exists only once a realm has been chosen, per spec.md §2.
func handleSelectRealm(sc *server.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "missing claims")
			return
		}

		var req selectRealmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if !model.ValidRealm(req.Realm) {
			writeError(w, http.StatusBadRequest, "invalid realm")
			return
		}

		player, err := sc.Players.Get(r.Context(), claims.UserID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "loading player")
			return
		}

		if err == nil {
			if player.Realm != req.Realm {
				writeError(w, http.StatusConflict, auth.ErrAlreadyInRealm.Error())
				return
			}
			respondRealmSelected(w, player.Realm, player.X, player.Y)
			return
		}

		spawnX, spawnY := (model.WorldMin+model.WorldMax)/2, (model.WorldMin+model.WorldMax)/2
		newPlayer, perr := model.NewPlayer(claims.UserID, claims.Username, req.Realm, spawnX, spawnY)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		if err := sc.Players.Create(r.Context(), newPlayer); err != nil {
			writeError(w, http.StatusInternalServerError, "creating player")
			return
		}
		respondRealmSelected(w, newPlayer.Realm, newPlayer.X, newPlayer.Y)
	}
}

func respondRealmSelected(w http.ResponseWriter, realm model.Realm, x, y int32) {
	resp := selectRealmResponse{Realm: realm}
	resp.Position.X = x
	resp.Position.Y = y
	writeJSON(w, http.StatusOK, resp)
}
