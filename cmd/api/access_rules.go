package main

import (
	"net/http"

	"sentinel/internal/domain/accessrules"
	"sentinel/internal/domain/users"
	"sentinel/internal/policy"
)

type CreateRulePayload struct {
	Role      string `json:"role" validate:"required,oneof=admin manager user"`
	ElementID int64  `json:"element_id" validate:"required"`

	Read      bool `json:"read_permission"`
	ReadAll   bool `json:"read_all_permission"`
	Create    bool `json:"create_permission"`
	Update    bool `json:"update_permission"`
	UpdateAll bool `json:"update_all_permission"`
	Delete    bool `json:"delete_permission"`
	DeleteAll bool `json:"delete_all_permission"`

	Comment string `json:"comment"`
}

func (app *application) createRuleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRulesManage) {
		app.forbiddenResponse(w, r)
		return
	}

	var payload CreateRulePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Rules must reference an existing element.
	if _, err := app.elements.GetElementByID(r.Context(), payload.ElementID); err != nil {
		app.serviceError(w, r, err)
		return
	}

	rule, err := app.rules.CreateRule(r.Context(), users.Role(payload.Role), payload.ElementID, accessrules.Flags{
		Read:      payload.Read,
		ReadAll:   payload.ReadAll,
		Create:    payload.Create,
		Update:    payload.Update,
		UpdateAll: payload.UpdateAll,
		Delete:    payload.Delete,
		DeleteAll: payload.DeleteAll,
	}, payload.Comment)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, rule); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listRulesHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRulesRead) {
		app.forbiddenResponse(w, r)
		return
	}

	list, err := app.rules.ListRules(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getRuleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRulesRead) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "ruleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rule, err := app.rules.GetRuleByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, rule); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateRulePayload struct {
	Read      *bool `json:"read_permission"`
	ReadAll   *bool `json:"read_all_permission"`
	Create    *bool `json:"create_permission"`
	Update    *bool `json:"update_permission"`
	UpdateAll *bool `json:"update_all_permission"`
	Delete    *bool `json:"delete_permission"`
	DeleteAll *bool `json:"delete_all_permission"`

	Comment *string `json:"comment"`
}

func (app *application) updateRuleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRulesManage) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "ruleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateRulePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rule, err := app.rules.UpdateRule(r.Context(), id, accessrules.PartialFlags{
		Read:      payload.Read,
		ReadAll:   payload.ReadAll,
		Create:    payload.Create,
		Update:    payload.Update,
		UpdateAll: payload.UpdateAll,
		Delete:    payload.Delete,
		DeleteAll: payload.DeleteAll,
		Comment:   payload.Comment,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, rule); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteRuleHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionRulesManage) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "ruleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rule, err := app.rules.DeleteRule(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, rule); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CheckAccessPayload struct {
	ElementID int64  `json:"element_id" validate:"required"`
	Operation string `json:"operation" validate:"required,oneof=read create update delete"`
	IsOwner   bool   `json:"is_owner"`
}

// checkAccessHandler lets a client ask in advance whether the engine
// would allow an operation for the calling user.
func (app *application) checkAccessHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	var payload CheckAccessPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	decision, err := app.policy.Authorize(r.Context(), actor, payload.ElementID, policy.Operation(payload.Operation), payload.IsOwner)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, decision); err != nil {
		app.internalServerError(w, r, err)
	}
}
