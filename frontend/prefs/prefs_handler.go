package prefs

import (
	"log/slog"
	"net/http"

	sessioncontext "crewboard/frontend/shared/context"
	"crewboard/frontend/shared/respond"
	"crewboard/infrastructure/sqlite"
)

type saveInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func PrefsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}
		prefs, err := Load(r.Context(), db, session.UserID)
		if err != nil {
			slog.Error("load prefs failed", slog.Int64("user_id", session.UserID), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load preferences")
			return
		}
		respond.JSON(w, http.StatusOK, prefs)
	}
}

func SavePrefCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}
		var input saveInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := Save(r.Context(), db, session.UserID, input.Name, input.Value); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"saved": true})
	}
}
