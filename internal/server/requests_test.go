package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"aidbridge/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestForcesPendingStatus(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)
	token := env.tokenFor(t, receiver)

	w := env.do(t, http.MethodPost, "/api/requests", token, map[string]any{
		"title":               "Emergency room bills",
		"description":         "Unexpected ER visit",
		"category":            "medical",
		"location":            "Charlotte, NC",
		"urgency":             "high",
		"amount_needed_cents": 100600,
		"status":              "approved",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created types.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, types.RequestStatusPending, created.Status)
	assert.Equal(t, receiver.ID, created.UserID)
}

func TestCreateRequestRoleGateIsExact(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"title":               "Groceries",
		"description":         "Weekly groceries",
		"category":            "food",
		"location":            "Durham, NC",
		"amount_needed_cents": 7500,
	}

	// Admins and donors are both forbidden, not just unauthenticated.
	admin := env.addUser(t, types.RoleAdmin)
	w := env.do(t, http.MethodPost, "/api/requests", env.tokenFor(t, admin), payload)
	require.Equal(t, http.StatusForbidden, w.Code)

	donor := env.addUser(t, types.RoleDonor)
	w = env.do(t, http.MethodPost, "/api/requests", env.tokenFor(t, donor), payload)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/requests", "", payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRequestDefaultsUrgencyToMedium(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)

	w := env.do(t, http.MethodPost, "/api/requests", env.tokenFor(t, receiver), map[string]any{
		"title":               "Groceries",
		"description":         "Weekly groceries",
		"category":            "food",
		"location":            "Durham, NC",
		"amount_needed_cents": 7500,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created types.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, types.UrgencyMedium, created.Urgency)
}

func TestListRequestsAppliesFilters(t *testing.T) {
	env := newTestEnv(t)

	seed := []*types.Request{
		{ID: "r1", Title: "Medical help", Category: "medical", Location: "Charlotte, NC", Urgency: types.UrgencyHigh, Status: types.RequestStatusApproved},
		{ID: "r2", Title: "Food help", Category: "food", Location: "Charlotte, NC", Urgency: types.UrgencyLow, Status: types.RequestStatusApproved},
		{ID: "r3", Title: "Hidden", Category: "medical", Location: "Charlotte, NC", Urgency: types.UrgencyHigh, Status: types.RequestStatusPending},
	}
	for _, request := range seed {
		env.requests.requests[request.ID] = request
	}

	w := env.do(t, http.MethodGet, "/api/requests?category=medical&urgency=high", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []*types.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "r1", listed[0].ID)

	// Filter values are passed through verbatim.
	assert.Equal(t, "medical", env.requests.lastFilter.Category)
	assert.Equal(t, "high", env.requests.lastFilter.Urgency)
}

func TestGetRequestHidesUnapproved(t *testing.T) {
	env := newTestEnv(t)

	env.requests.requests["r1"] = &types.Request{ID: "r1", Status: types.RequestStatusPending}

	w := env.do(t, http.MethodGet, "/api/requests/r1", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/requests/missing", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRequestOwnerCannotChangeStatus(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)

	env.requests.requests["r1"] = &types.Request{
		ID:     "r1",
		UserID: receiver.ID,
		Title:  "Original",
		Status: types.RequestStatusPending,
	}

	w := env.do(t, http.MethodPut, "/api/requests/r1", env.tokenFor(t, receiver), map[string]any{
		"title":  "Updated",
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated types.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Updated", updated.Title)

	// The status change is dropped silently for owners.
	assert.Equal(t, types.RequestStatusPending, updated.Status)
}

func TestUpdateRequestAdminSetsStatus(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)
	admin := env.addUser(t, types.RoleAdmin)

	env.requests.requests["r1"] = &types.Request{
		ID:     "r1",
		UserID: receiver.ID,
		Status: types.RequestStatusPending,
	}

	w := env.do(t, http.MethodPut, "/api/requests/r1", env.tokenFor(t, admin), map[string]any{
		"status":     "approved",
		"admin_note": "documents check out",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated types.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, types.RequestStatusApproved, updated.Status)
	require.NotNil(t, updated.AdminNote)
	assert.Equal(t, "documents check out", *updated.AdminNote)
}

func TestUpdateRequestForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)
	other := env.addUser(t, types.RoleReceiver)

	env.requests.requests["r1"] = &types.Request{ID: "r1", UserID: receiver.ID, Status: types.RequestStatusPending}

	w := env.do(t, http.MethodPut, "/api/requests/r1", env.tokenFor(t, other), map[string]any{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateRequestEmptyBodyIsValidationError(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)

	env.requests.requests["r1"] = &types.Request{ID: "r1", UserID: receiver.ID, Status: types.RequestStatusPending}

	w := env.do(t, http.MethodPut, "/api/requests/r1", env.tokenFor(t, receiver), map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyRequestsIncludesAllStatuses(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)

	env.requests.requests["r1"] = &types.Request{ID: "r1", UserID: receiver.ID, Status: types.RequestStatusPending}
	env.requests.requests["r2"] = &types.Request{ID: "r2", UserID: receiver.ID, Status: types.RequestStatusRejected}
	env.requests.requests["r3"] = &types.Request{ID: "r3", UserID: "someone-else", Status: types.RequestStatusApproved}

	w := env.do(t, http.MethodGet, "/api/requests/mine", env.tokenFor(t, receiver), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []*types.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestMyRequestsNotShadowedByWildcard(t *testing.T) {
	env := newTestEnv(t)

	// "mine" must never be treated as a request id by the public
	// GET /api/requests/:id route: unauthenticated callers get 401,
	// not the wildcard's 404.
	w := env.do(t, http.MethodGet, "/api/requests/mine", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	receiver := env.addUser(t, types.RoleReceiver)
	w = env.do(t, http.MethodGet, "/api/requests/mine", env.tokenFor(t, receiver), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []*types.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestListDocumentsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	receiver := env.addUser(t, types.RoleReceiver)
	stranger := env.addUser(t, types.RoleDonor)
	admin := env.addUser(t, types.RoleAdmin)

	env.requests.requests["r1"] = &types.Request{ID: "r1", UserID: receiver.ID, Status: types.RequestStatusPending}
	require.NoError(t, env.documents.Create(context.Background(), &types.RequestDocument{RequestID: "r1", FileName: "lease.pdf"}))

	w := env.do(t, http.MethodGet, "/api/requests/r1/documents", env.tokenFor(t, stranger), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/requests/r1/documents", env.tokenFor(t, receiver), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/requests/r1/documents", env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
}
