package rest_test

import (
	"net/http"
	"testing"

	mw "github.com/sodamint/itemsim/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/sign-up", map[string]string{
		"login_id":         "alice1",
		"password":         "secret99",
		"confirm_password": "secret99",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := parseBody(t, w)
	data := resp["data"].(map[string]interface{})
	assert.NotZero(t, data["id"])
	assert.Equal(t, "alice1", data["login_id"])
}

func TestSignUpDuplicate(t *testing.T) {
	r, _ := newTestRouter(t)

	body := map[string]string{
		"login_id":         "dupe01",
		"password":         "secret99",
		"confirm_password": "secret99",
	}
	w := postJSON(r, "/api/sign-up", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/sign-up", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignUpValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"uppercase login id", map[string]string{
			"login_id": "Alice1", "password": "secret99", "confirm_password": "secret99"}},
		{"letters only", map[string]string{
			"login_id": "aliceonly", "password": "secret99", "confirm_password": "secret99"}},
		{"digits only", map[string]string{
			"login_id": "123456", "password": "secret99", "confirm_password": "secret99"}},
		{"short password", map[string]string{
			"login_id": "bob02", "password": "ab1", "confirm_password": "ab1"}},
		{"confirm mismatch", map[string]string{
			"login_id": "bob02", "password": "secret99", "confirm_password": "secret98"}},
		{"missing fields", map[string]string{
			"login_id": "bob02"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/api/sign-up", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSignIn(t *testing.T) {
	r, _ := newTestRouter(t)

	postJSON(r, "/api/sign-up", map[string]string{
		"login_id": "carol3", "password": "secret99", "confirm_password": "secret99"})

	w := postJSON(r, "/api/sign-in", map[string]string{
		"login_id": "carol3", "password": "secret99"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseBody(t, w)
	assert.NotEmpty(t, resp["access_token"])
	assert.NotEmpty(t, resp["refresh_token"])

	// Both session cookies come back with the body.
	names := map[string]bool{}
	for _, ck := range w.Result().Cookies() {
		names[ck.Name] = true
	}
	assert.True(t, names[mw.AccessTokenCookie])
	assert.True(t, names[mw.RefreshTokenCookie])
}

func TestSignInWrongCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	postJSON(r, "/api/sign-up", map[string]string{
		"login_id": "dave04", "password": "secret99", "confirm_password": "secret99"})

	w := postJSON(r, "/api/sign-in", map[string]string{
		"login_id": "dave04", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/sign-in", map[string]string{
		"login_id": "nobody9", "password": "secret99"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountGet(t *testing.T) {
	r, _ := newTestRouter(t)
	cookies := register(t, r, "erin05")
	createCharacter(t, r, cookies, "Erin")

	w := doJSON(r, http.MethodGet, "/api/account", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseBody(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "erin05", data["login_id"])
	chars := data["characters"].([]interface{})
	require.Len(t, chars, 1)
}

func TestAccountGetRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/account", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
