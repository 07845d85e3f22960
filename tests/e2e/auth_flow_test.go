//go:build e2e

package e2e_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_RegisterLoginMe walks the full auth-lite cycle: register, log in
// with the same credentials, then fetch the profile with the login token.
func TestE2E_RegisterLoginMe(t *testing.T) {
	ts := setupTestServer(t)

	suffix := uuid.New().String()[:8]
	email := fmt.Sprintf("flow-%s@example.com", suffix)
	username := "flow-" + suffix
	password := "a sufficiently long password"

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    email,
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, status, "register: %v", body)
	assert.NotEmpty(t, body["accessToken"])

	user := body["user"].(map[string]any)
	assert.Equal(t, email, user["email"])
	assert.Equal(t, username, user["username"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "Europe/Amsterdam", user["timezone"])

	status, body = ts.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, status, "login: %v", body)
	token := body["accessToken"].(string)
	require.NotEmpty(t, token)

	status, body = ts.doJSON(t, http.MethodGet, "/api/v1/me", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, email, body["email"])
	assert.Equal(t, username, body["username"])
}

// TestE2E_Register_DuplicateEmail verifies the second registration with the
// same email is rejected with 409.
func TestE2E_Register_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	suffix := uuid.New().String()[:8]
	payload := map[string]any{
		"email":    fmt.Sprintf("dup-%s@example.com", suffix),
		"username": "dup-" + suffix,
		"password": "a sufficiently long password",
	}

	status, _ := ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, status)

	payload["username"] = "dup2-" + suffix
	status, _ = ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", payload, "")
	assert.Equal(t, http.StatusConflict, status)
}

// TestE2E_Register_Validation verifies field validation surfaces as 400.
func TestE2E_Register_Validation(t *testing.T) {
	ts := setupTestServer(t)

	cases := []map[string]any{
		{"email": "not-an-email", "username": "validname", "password": "long enough password"},
		{"email": "ok@example.com", "username": "ab", "password": "long enough password"},
		{"email": "ok@example.com", "username": "validname", "password": "short"},
	}

	for i, payload := range cases {
		status, _ := ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", payload, "")
		assert.Equal(t, http.StatusBadRequest, status, "case %d", i)
	}
}

// TestE2E_Login_WrongPassword verifies a wrong password and an unknown email
// both yield the same 401.
func TestE2E_Login_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)

	suffix := uuid.New().String()[:8]
	email := fmt.Sprintf("wp-%s@example.com", suffix)

	status, _ := ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    email,
		"username": "wp-" + suffix,
		"password": "the real password here",
	}, "")
	require.Equal(t, http.StatusCreated, status)

	status, _ = ts.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "not the real password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "nobody-" + suffix + "@example.com",
		"password": "whatever password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

// TestE2E_UpdateProfile verifies PATCH /me/profile persists avatar and
// timezone changes.
func TestE2E_UpdateProfile(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := registerUser(t, ts)

	status, body := ts.doJSON(t, http.MethodPatch, "/api/v1/me/profile", map[string]any{
		"avatarUrl": "https://cdn.example.com/a.png",
		"timezone":  "America/New_York",
	}, token)
	require.Equal(t, http.StatusOK, status, "update profile: %v", body)
	assert.Equal(t, "https://cdn.example.com/a.png", body["avatarUrl"])
	assert.Equal(t, "America/New_York", body["timezone"])

	status, body = ts.doJSON(t, http.MethodGet, "/api/v1/me/profile", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "America/New_York", body["timezone"])
}
