package clients

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	sessioncontext "crewboard/frontend/shared/context"
	"crewboard/frontend/shared/respond"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
)

func ClientsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := List(r.Context(), db)
		if err != nil {
			slog.Error("list clients failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to list clients")
			return
		}
		resp := ListResponse{Clients: make([]ClientEntry, 0, len(clients))}
		for _, c := range clients {
			resp.Clients = append(resp.Clients, ClientEntry{Client: c, Ongoing: c.Ongoing()})
		}
		respond.JSON(w, http.StatusOK, resp)
	}
}

func CreateClientCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}
		created, err := Create(r.Context(), db, hub, session.UserID, input)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, ClientEntry{Client: created, Ongoing: created.Ongoing()})
	}
}

func UpdateClientCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid client id")
			return
		}
		var input UpdateInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := Update(r.Context(), db, hub, id, input); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/clients", http.StatusSeeOther)
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func DeleteClientCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid client id")
			return
		}
		if err := Delete(r.Context(), db, hub, id); err != nil {
			slog.Error("delete client failed", slog.Int64("client_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to delete client")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
