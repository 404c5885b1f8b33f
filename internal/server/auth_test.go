package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"aidbridge/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Maria",
		"email":    "Maria@Example.com",
		"password": "hunter22",
		"role":     "donor",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created types.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "maria@example.com", created.Email)
	assert.Equal(t, types.RoleDonor, created.Role)

	// The password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "maria@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	// The issued token authenticates follow-up calls.
	w = env.do(t, http.MethodGet, "/api/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me types.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, created.ID, me.ID)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Sneaky",
		"email":    "sneaky@example.com",
		"password": "hunter22",
		"role":     "admin",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":     "Maria",
		"email":    "maria@example.com",
		"password": "hunter22",
		"role":     "donor",
	}

	w := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.Error)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Maria",
		"email":    "maria@example.com",
		"password": "hunter22",
		"role":     "donor",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "maria@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, types.RoleDonor)
	token := env.tokenFor(t, user)

	w := env.do(t, http.MethodPut, "/api/auth/me", token, map[string]any{
		"name": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated types.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.Name)

	// An update with nothing usable in it is a validation error.
	w = env.do(t, http.MethodPut, "/api/auth/me", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
