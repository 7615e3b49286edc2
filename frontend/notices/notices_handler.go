package notices

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	sessioncontext "crewboard/frontend/shared/context"
	"crewboard/frontend/shared/respond"
	"crewboard/infrastructure/cache"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
)

func NoticesPageQueryHandler(db *sqlite.DB, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notices, err := List(r.Context(), db)
		if err != nil {
			slog.Error("list notices failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to list notices")
			return
		}
		resp := ListResponse{Notices: make([]NoticeEntry, 0, len(notices))}
		for _, n := range notices {
			resp.Notices = append(resp.Notices, NoticeEntry{Notice: n, AuthorName: userCache.GetName(n.CreatedBy)})
		}
		respond.JSON(w, http.StatusOK, resp)
	}
}

func NoticeDetailQueryHandler(db *sqlite.DB, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, "/app/notices", http.StatusSeeOther)
			return
		}
		notice, err := LoadByID(r.Context(), db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/notices", http.StatusSeeOther)
				return
			}
			slog.Error("load notice failed", slog.Int64("notice_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load notice")
			return
		}
		comments, err := CommentsForNotice(r.Context(), db, id)
		if err != nil {
			slog.Error("load notice comments failed", slog.Int64("notice_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to load comments")
			return
		}

		detail := DetailResponse{
			Notice:     notice,
			AuthorName: userCache.GetName(notice.CreatedBy),
			Comments:   make([]CommentEntry, 0, len(comments)),
		}
		for _, c := range comments {
			detail.Comments = append(detail.Comments, CommentEntry{NoticeComment: c, UserName: userCache.GetName(c.UserID)})
		}
		respond.JSON(w, http.StatusOK, detail)
	}
}

func CreateNoticeCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
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

func UpdateNoticeCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid notice id")
			return
		}
		var input UpdateInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := Update(r.Context(), db, hub, id, input); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Redirect(w, r, "/app/notices", http.StatusSeeOther)
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func AddNoticeCommentCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid notice id")
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
		comment, err := AddComment(r.Context(), db, hub, id, session.UserID, input.Text)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, comment)
	}
}

func DeleteNoticeCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid notice id")
			return
		}
		if err := Delete(r.Context(), db, hub, id); err != nil {
			slog.Error("delete notice failed", slog.Int64("notice_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to delete notice")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
