package main

import (
	"net/http"

	"sentinel/internal/domain/elements"
	"sentinel/internal/policy"
)

type CreateElementPayload struct {
	Kind    string `json:"kind" validate:"required,oneof=users products orders stores"`
	Name    string `json:"name" validate:"required"`
	Comment string `json:"comment"`
}

func (app *application) createElementHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionElementsManage) {
		app.forbiddenResponse(w, r)
		return
	}

	var payload CreateElementPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	element, err := app.elements.CreateElement(r.Context(), elements.Kind(payload.Kind), payload.Name, payload.Comment)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, element); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listElementsHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionElementsRead) {
		app.forbiddenResponse(w, r)
		return
	}

	list, err := app.elements.ListElements(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getElementHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionElementsRead) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "elementID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	element, err := app.elements.GetElementByID(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, element); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateElementPayload struct {
	Kind    *string `json:"kind" validate:"omitempty,oneof=users products orders stores"`
	Name    *string `json:"name"`
	Comment *string `json:"comment"`
}

func (app *application) updateElementHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionElementsManage) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "elementID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateElementPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var kind *elements.Kind
	if payload.Kind != nil {
		v := elements.Kind(*payload.Kind)
		kind = &v
	}

	element, err := app.elements.UpdateElement(r.Context(), id, elements.UpdateParams{
		Kind:    kind,
		Name:    payload.Name,
		Comment: payload.Comment,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, element); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteElementHandler(w http.ResponseWriter, r *http.Request) {
	actor := getUserFromContext(r)

	if !app.policy.Hierarchy().Allows(actor.Role, policy.ActionElementsManage) {
		app.forbiddenResponse(w, r)
		return
	}

	id, err := parseIDParam(r, "elementID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	element, err := app.elements.DeleteElement(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, element); err != nil {
		app.internalServerError(w, r, err)
	}
}
