package main

import (
	"net/http"

	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/users"
	"sentinel/internal/policy"
)

type CreateRolePayload struct {
	Role    string `json:"role" validate:"required,oneof=admin manager user"`
	Comment string `json:"comment"`
}

func (app *application) createRoleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRolesManage) {
		app.forbiddenResponse(w, r)
		return
	}

	var payload CreateRolePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	role, err := app.roles.CreateRole(r.Context(), users.Role(payload.Role), payload.Comment)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, role); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listRolesHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRolesRead) {
		app.forbiddenResponse(w, r)
		return
	}

	list, err := app.roles.ListRoles(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getRoleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRolesRead) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "roleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	role, err := app.roles.GetRoleByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, role); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateRolePayload struct {
	Comment *string `json:"comment"`
}

func (app *application) updateRoleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRolesManage) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "roleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateRolePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if payload.Comment == nil {
		app.badRequestResponse(w, r, errs.Validation("comment", "must be provided"))
		return
	}

	role, err := app.roles.UpdateRole(r.Context(), id, payload.Comment)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, role); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteRoleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRolesManage) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "roleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	role, err := app.roles.DeleteRole(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, role); err != nil {
		app.internalServerError(w, r, err)
	}
}
