package main

import (
	"fmt"
	"net/http"
	"time"

	"sentinel/internal/auth"
	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/tokens"
)

const refreshCookieName = "refresh_token"

// setRefreshCookie delivers the refresh token as an HttpOnly cookie scoped
// to the auth endpoints. SameSite=None lets a separately hosted frontend
// send it; Secure is mandatory with that mode.
func (app *application) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/v1/auth",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(app.config.auth.token.refreshTokenExp.Seconds()),
	})
}

func (app *application) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/v1/auth",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})
}

type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// An unknown username is a 404, a wrong password a generic 401.
	// TODO: decide whether login should reject soft-deleted users;
	// is_active is not checked here today.
	user, err := app.users.GetUserByUsername(r.Context(), payload.Username)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, errs.ErrInvalidCredentials)
		return
	}

	accessToken, err := app.authenticator.GenerateAccessToken(user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	refreshToken, err := app.authenticator.GenerateRefreshToken(user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	expiresAt := time.Now().Add(app.config.auth.token.refreshTokenExp)
	_, err = app.tokens.CreateToken(r.Context(), tokens.CreateParams{
		UserID:    user.ID,
		TokenHash: tokens.Hash(refreshToken),
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.setRefreshCookie(w, refreshToken)

	if err := app.jsonResponse(w, http.StatusOK, LoginResponse{AccessToken: accessToken}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) refreshHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("refresh token cookie is missing"))
		return
	}

	claims, err := app.authenticator.DecodeToken(cookie.Value, auth.TokenTypeRefresh)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	user, err := app.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	accessToken, err := app.authenticator.GenerateAccessToken(user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, LoginResponse{AccessToken: accessToken}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// logoutHandler clears the cookie only. Stored refresh-token rows are
// revoked through the refresh-token endpoints, not here.
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	app.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// authStatusHandler answers 204 when the bearer token is valid; the auth
// middleware has already done the work.
func (app *application) authStatusHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
