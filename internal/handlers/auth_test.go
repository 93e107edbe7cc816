package handlers

import (
	"net/http"
	"testing"

	"ideahub/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])

	w = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", models.RoleUser)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedEndpointsRejectMissingSession(t *testing.T) {
	env := newTestEnv(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/ideas"},
		{http.MethodPost, "/api/ideas"},
		{http.MethodGet, "/api/projects"},
		{http.MethodPost, "/api/likes"},
		{http.MethodGet, "/api/invitations"},
		{http.MethodGet, "/api/groups"},
		{http.MethodPost, "/api/trends"},
		{http.MethodGet, "/api/admin/stats"},
	}

	for _, ep := range endpoints {
		w := env.request(t, ep.method, ep.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", ep.method, ep.path)
	}

	// No mutation happened
	assert.Zero(t, env.count(t, &models.Idea{}))
	assert.Zero(t, env.count(t, &models.UserLike{}))
}

func TestProtectedEndpointsRejectBadToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMeAppliesDisplayDefault(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "noname@example.com", models.RoleUser)

	w := env.request(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, models.DefaultDisplayName, body["name"])
	assert.Equal(t, []interface{}{}, body["skills"])
}
