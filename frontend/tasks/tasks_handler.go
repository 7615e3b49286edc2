package tasks

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	sessioncontext "crewboard/frontend/shared/context"
	"crewboard/frontend/shared/respond"
	"crewboard/infrastructure/activity"
	"crewboard/infrastructure/cache"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
)

func TaskDetailQueryHandler(db *sqlite.DB, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, "/app/projects", http.StatusSeeOther)
			return
		}
		task, err := LoadByID(r.Context(), db, id)
		if err != nil {
			// Missing tasks route back to the project list instead of erroring.
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/projects", http.StatusSeeOther)
				return
			}
			slog.Error("load task failed", slog.Int64("task_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load task")
			return
		}

		comments, err := CommentsForTask(r.Context(), db, id)
		if err != nil {
			slog.Error("load task comments failed", slog.Int64("task_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load comments")
			return
		}
		entries, err := ActivityForTask(r.Context(), db, id)
		if err != nil {
			slog.Error("load task activity failed", slog.Int64("task_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load activity")
			return
		}

		detail := DetailResponse{
			Task:         task,
			AssigneeName: userCache.GetName(task.AssignedTo),
			Comments:     make([]CommentEntry, 0, len(comments)),
			Activity:     make([]ActivityEntry, 0, len(entries)),
		}
		for _, c := range comments {
			detail.Comments = append(detail.Comments, CommentEntry{TaskComment: c, UserName: userCache.GetName(c.UserID)})
		}
		for _, e := range entries {
			metadata := decodeMetadata(e)
			detail.Activity = append(detail.Activity, ActivityEntry{
				TaskActivity: e,
				UserName:     userCache.GetName(e.UserID),
				Metadata:     metadata,
				Text:         FormatEvent(e.EventType, metadata),
			})
		}
		respond.JSON(w, http.StatusOK, detail)
	}
}

func CreateTaskCommandHandler(db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service) http.HandlerFunc {
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

		created, err := Create(r.Context(), db, hub, activitySvc, session.UserID, input)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, created)
	}
}

func UpdateTaskCommandHandler(db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid task id")
			return
		}
		var input UpdateInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}

		if err := Update(r.Context(), db, hub, activitySvc, id, session.UserID, input); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/projects", http.StatusSeeOther)
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func UpdateTaskStatusCommandHandler(db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid task id")
			return
		}
		var input StatusInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}

		if err := UpdateStatus(r.Context(), db, hub, activitySvc, id, session.UserID, input.Status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/projects", http.StatusSeeOther)
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func AddTaskCommentCommandHandler(db *sqlite.DB, hub *watch.Hub, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid task id")
			return
		}
		var input CommentInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}

		comment, err := AddComment(r.Context(), db, hub, activitySvc, id, session.UserID, input.Message)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, comment)
	}
}

func DeleteTaskCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid task id")
			return
		}
		if err := Delete(r.Context(), db, hub, id); err != nil {
			slog.Error("delete task failed", slog.Int64("task_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to delete task")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
