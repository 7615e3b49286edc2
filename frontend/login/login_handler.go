package login

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"crewboard/frontend/shared/respond"
	"crewboard/infrastructure/cache"
	sessioncookie "crewboard/infrastructure/session"
	"crewboard/infrastructure/sqlite"
	"crewboard/models"
)

// LoginScreenHandler serves the login page payload, echoing back any
// error message carried in the redirect query.
func LoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	payload := map[string]string{}
	if msg := strings.TrimSpace(r.URL.Query().Get("error")); msg != "" {
		payload["error"] = msg
	}
	respond.JSON(w, http.StatusOK, payload)
}

// CreateLoginHandler authenticates the user and issues a session cookie.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid form data")
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := strings.TrimSpace(r.FormValue("password"))
		if email == "" || password == "" {
			respond.Error(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := authenticateUser(r.Context(), db, email, password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				respond.Error(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
				return
			}
			slog.Error("authenticate failed", slog.String("email", email), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "authentication failed")
			return
		}

		session := newSession(user)
		if err := persistSession(r.Context(), db, session); err != nil {
			slog.Error("persist session failed", slog.Int64("user_id", user.ID), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		sessionCache.AddSession(session)
		userCache.Add(user)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, int(sessioncookie.Lifetime.Seconds())))
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
	}
}

// LogoutHandler removes session state and clears the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func newSession(user models.User) models.Session {
	return models.Session{
		ID:        newSessionToken(),
		UserID:    user.ID,
		User:      user,
		UserRoles: []string{user.Role},
		ExpiresAt: sessioncookie.DefaultExpiry(),
	}
}
