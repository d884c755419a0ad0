package main

import (
	"net/http"

	"sentinel/internal/domain/users"
	"sentinel/internal/policy"
)

func (app *application) listRefreshTokensHandler(w http.ResponseWriter, r *http.Request) {
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

	// Admins without a user_id filter see everything.
	if actor.Role == users.RoleAdmin && r.URL.Query().Get("user_id") == "" {
		list, err := app.tokens.ListTokens(r.Context())
		if err != nil {
			app.serviceError(w, r, err)
			return
		}
		if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	list, err := app.tokens.GetUserTokens(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getRefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	id, err := parseIDParam(r, "tokenID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.tokens.GetTokenByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if !policy.OwnerOrAdmin(actor, token.UserID) {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, token); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) revokeTokenHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	id, err := parseIDParam(r, "tokenID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.tokens.GetTokenByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if !policy.OwnerOrAdmin(actor, token.UserID) {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.tokens.RevokeToken(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) revokeUserTokensHandler(w http.ResponseWriter, r *http.Request) {
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

	count, err := app.tokens.RevokeUserTokens(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]int64{"revoked": count}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteExpiredTokensHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if actor.Role != users.RoleAdmin {
		app.forbiddenResponse(w, r)
		return
	}

	count, err := app.tokens.DeleteExpiredTokens(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]int64{"deleted": count}); err != nil {
		app.internalServerError(w, r, err)
	}
}
