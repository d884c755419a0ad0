package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/users"
	"sentinel/internal/policy"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionUsersList) {
		app.forbiddenResponse(w, r)
		return
	}

	var byRole *users.Role
	if v := r.URL.Query().Get("role"); v != "" {
		role := users.Role(v)
		if !role.Valid() {
			app.badRequestResponse(w, r, errs.Validation("role", "unknown role"))
			return
		}
		byRole = &role
	}

	list, err := app.users.ListUsers(r.Context(), byRole)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	// Managers list users but admin accounts stay invisible to them.
	visible := list[:0]
	for _, u := range list {
		if app.policy.Hierarchy().Sees(actor.Role, u.Role) {
			visible = append(visible, u)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, visible); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateUserPayload struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager user"`
}

func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	var payload CreateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	role := users.RoleUser
	if payload.Role != "" {
		role = users.Role(payload.Role)
	}

	if !app.policy.Hierarchy().AllowsOnUser(actor.Role, policy.ActionUsersCreate, role) {
		app.forbiddenResponse(w, r)
		return
	}

	user, err := app.users.CreateUser(r.Context(), users.CreateParams{
		Name:             payload.Name,
		Username:         payload.Username,
		Password:         payload.Password,
		Role:             role,
		CheckValidFields: true,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	id, err := parseIDParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if id != actor.ID && !app.policy.Hierarchy().Allows(actor.Role, policy.ActionUsersList) {
		app.forbiddenResponse(w, r)
		return
	}

	user, err := app.users.GetUserByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	// Hidden users are reported as absent, not as forbidden.
	if !app.policy.Hierarchy().Sees(actor.Role, user.Role) {
		app.notFoundResponse(w, r, errs.NotFound("user", "id", id))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateUserPayload struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager user"`
}

func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	id, err := parseIDParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	target, err := app.users.GetUserByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if !app.policy.Hierarchy().AllowsOnUser(actor.Role, policy.ActionUsersUpdate, target.Role) {
		app.forbiddenResponse(w, r)
		return
	}

	var role *users.Role
	if payload.Role != nil {
		v := users.Role(*payload.Role)
		// Promotion to admin is as closed as creating an admin.
		if v == users.RoleAdmin {
			app.forbiddenResponse(w, r)
			return
		}
		role = &v
	}

	user, err := app.users.UpdateUser(r.Context(), id, users.UpdateParams{
		Name:     payload.Name,
		Username: payload.Username,
		Password: payload.Password,
		Role:     role,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	app.setUserActiveHandler(w, r, false)
}

func (app *application) restoreUserHandler(w http.ResponseWriter, r *http.Request) {
	app.setUserActiveHandler(w, r, true)
}

func (app *application) setUserActiveHandler(w http.ResponseWriter, r *http.Request, active bool) {
	actor := getUserFromContext(r)

	id, err := parseIDParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	target, err := app.users.GetUserByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if !app.policy.Hierarchy().AllowsOnUser(actor.Role, policy.ActionUsersDelete, target.Role) {
		app.forbiddenResponse(w, r)
		return
	}

	var user *users.User
	if active {
		user, err = app.users.RestoreUser(r.Context(), id)
	} else {
		user, err = app.users.DeleteUser(r.Context(), id)
	}
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}
