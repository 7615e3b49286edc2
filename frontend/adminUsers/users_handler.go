package adminusers

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

func UsersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := ListUsers(r.Context(), db)
		if err != nil {
			slog.Error("list users failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to list users")
			return
		}
		respond.JSON(w, http.StatusOK, ListResponse{Users: users})
	}
}

func CreateUserCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := CreateUser(r.Context(), db, hub, input); err != nil {
			if errors.Is(err, ErrEmailExists) {
				respond.Error(w, http.StatusConflict, err.Error())
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, map[string]bool{"created": true})
	}
}

func ChangeRoleCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}
		var input RoleInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}
		if err := ChangeRole(r.Context(), db, hub, session.UserID, id, input.Role); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				respond.Error(w, http.StatusNotFound, "user not found")
			case errors.Is(err, ErrCannotChangeOwnRole):
				respond.Error(w, http.StatusForbidden, err.Error())
			default:
				respond.Error(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func ChangeNameCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}
		var input NameInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ChangeName(r.Context(), db, hub, id, input.Name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respond.Error(w, http.StatusNotFound, "user not found")
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}
