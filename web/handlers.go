package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/TmRxJD/tower-tracker/controller"
	"github.com/TmRxJD/tower-tracker/db"
	"github.com/TmRxJD/tower-tracker/model"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

type addGuildRequest struct {
	GuildID         string `json:"guildId"`
	NotifyChannelID string `json:"notifyChannelId"`
}

func addGuildHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addGuildRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if req.GuildID == "" || req.NotifyChannelID == "" {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "guildId and notifyChannelId are required"})
			return
		}

		if err := ctrl.AddGuild(r.Context(), req.GuildID, req.NotifyChannelID); err != nil {
			if errors.Is(err, db.ErrGuildExists) {
				render.JSON(w, http.StatusConflict, errorResponse{Error: "guild already exists"})
			} else {
				render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			return
		}
		render.JSON(w, http.StatusCreated, map[string]string{"guildId": req.GuildID})
	}
}

func getGuildHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")
		g, err := ctrl.GetGuild(r.Context(), guildID)
		if err != nil {
			if errors.Is(err, db.ErrGuildNotFound) {
				render.JSON(w, http.StatusNotFound, errorResponse{Error: "guild not found"})
			} else {
				render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			return
		}
		render.JSON(w, http.StatusOK, g)
	}
}

func removeGuildHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")
		if err := ctrl.RemoveGuild(r.Context(), guildID); err != nil {
			if errors.Is(err, db.ErrGuildNotFound) {
				render.JSON(w, http.StatusNotFound, errorResponse{Error: "guild not found"})
			} else {
				render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"guildId": guildID})
	}
}

type addPlayerRequest struct {
	PlayerID    string `json:"playerId"`
	DiscordID   string `json:"discordId"`
	DisplayName string `json:"displayName"`
	WatchOnly   bool   `json:"watchOnly"`
}

func addPlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")

		var req addPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if req.PlayerID == "" {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "playerId is required"})
			return
		}

		p := &model.TrackedPlayer{
			GuildID:     guildID,
			PlayerID:    req.PlayerID,
			DiscordID:   req.DiscordID,
			DisplayName: req.DisplayName,
			WatchOnly:   req.WatchOnly,
		}
		if err := ctrl.AddPlayer(r.Context(), p); err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		render.JSON(w, http.StatusCreated, p)
	}
}

func removePlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")
		playerID := chi.URLParam(r, "playerID")

		if err := ctrl.RemovePlayer(r.Context(), guildID, playerID); err != nil {
			if errors.Is(err, db.ErrPlayerNotFound) {
				render.JSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
			} else {
				render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"playerId": playerID})
	}
}

func listPlayersHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")
		players, err := ctrl.ListPlayers(r.Context(), guildID)
		if err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		render.JSON(w, http.StatusOK, players)
	}
}

// resultsHandler serves one round's records when the date parameter is
// present, otherwise the list of ingested round dates.
func resultsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")

		date := r.URL.Query().Get("date")
		if date == "" {
			dates, err := ctrl.ListRoundDates(r.Context(), guildID)
			if err != nil {
				render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
				return
			}
			render.JSON(w, http.StatusOK, dates)
			return
		}

		roundDate, err := time.Parse(time.RFC3339, date)
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "date must be RFC 3339"})
			return
		}

		results, err := ctrl.GetResults(r.Context(), guildID, roundDate)
		if err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		render.JSON(w, http.StatusOK, results)
	}
}

func syncGuildHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")

		report, err := ctrl.SyncGuild(r.Context(), guildID)
		if err != nil {
			switch {
			case errors.Is(err, db.ErrGuildNotFound):
				render.JSON(w, http.StatusNotFound, errorResponse{Error: "guild not found"})
			case errors.Is(err, controller.ErrSyncInProgress):
				render.JSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			case errors.Is(err, controller.ErrNotEligible),
				errors.Is(err, controller.ErrNoNewRound),
				errors.Is(err, controller.ErrNoSignal):
				render.JSON(w, http.StatusAccepted, errorResponse{Error: err.Error()})
			default:
				render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			return
		}
		render.JSON(w, http.StatusOK, report)
	}
}
