package projects

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

func ProjectsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := List(r.Context(), db)
		if err != nil {
			slog.Error("list projects failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load projects")
			return
		}
		respond.JSON(w, http.StatusOK, ListResponse{Projects: projects})
	}
}

func ProjectDetailQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, "/app/projects", http.StatusSeeOther)
			return
		}
		project, err := LoadByID(r.Context(), db, id)
		if err != nil {
			// Missing projects route back to the list instead of erroring.
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/projects", http.StatusSeeOther)
				return
			}
			slog.Error("load project failed", slog.Int64("project_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load project")
			return
		}
		tasks, err := TasksForProject(r.Context(), db, id)
		if err != nil {
			slog.Error("load project tasks failed", slog.Int64("project_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load project tasks")
			return
		}
		respond.JSON(w, http.StatusOK, DetailResponse{Project: project, Tasks: tasks})
	}
}

func CreateProjectCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
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
		respond.JSON(w, http.StatusCreated, created)
	}
}

func UpdateProjectCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid project id")
			return
		}
		var input UpdateInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if _, err := LoadByID(r.Context(), db, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/projects", http.StatusSeeOther)
				return
			}
			slog.Error("load project failed", slog.Int64("project_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load project")
			return
		}

		if err := Update(r.Context(), db, hub, id, input); err != nil {
			slog.Error("update project failed", slog.Int64("project_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func DeleteProjectCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid project id")
			return
		}
		if err := DeleteCascade(r.Context(), db, hub, id); err != nil {
			slog.Error("delete project failed", slog.Int64("project_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to delete project")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
