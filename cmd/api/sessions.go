package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sentinel/internal/domain/sessions"
	"sentinel/internal/domain/users"
	"sentinel/internal/policy"
)

func parseSessionID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "sessionID"))
}

// targetUserID resolves the user a per-user resource request is about:
// the user_id query parameter when present, the caller otherwise.
func targetUserID(r *http.Request, actor *users.User) (int64, error) {
	v := r.URL.Query().Get("user_id")
	if v == "" {
		return actor.ID, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

type CreateSessionPayload struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

func (app *application) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	var payload CreateSessionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.sessions.CreateSession(r.Context(), sessions.CreateParams{
		UserID:    actor.ID,
		Token:     uuid.NewString(),
		ExpiresAt: payload.ExpiresAt,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, session); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	userID, err := targetUserID(r, actor)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !policy.OwnerOrAdmin(actor, userID) {
		app.forbiddenResponse(w, r)
		return
	}

	list, err := app.sessions.GetUserSessions(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	id, err := parseSessionID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.sessions.GetSessionByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if !policy.OwnerOrAdmin(actor, session.UserID) {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, session); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) touchSessionHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	id, err := parseSessionID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.sessions.GetSessionByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if !policy.OwnerOrAdmin(actor, session.UserID) {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.sessions.UpdateLastSeen(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	id, err := parseSessionID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.sessions.GetSessionByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if !policy.OwnerOrAdmin(actor, session.UserID) {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.sessions.DeleteSession(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) deleteUserSessionsHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	userID, err := targetUserID(r, actor)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !policy.OwnerOrAdmin(actor, userID) {
		app.forbiddenResponse(w, r)
		return
	}

	count, err := app.sessions.DeleteUserSessions(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]int64{"deleted": count}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteExpiredSessionsHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if actor.Role != users.RoleAdmin {
		app.forbiddenResponse(w, r)
		return
	}

	count, err := app.sessions.DeleteExpiredSessions(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]int64{"deleted": count}); err != nil {
		app.internalServerError(w, r, err)
	}
}
