package handlers_test

import (
	"net/http"
	"testing"

	"github.com/finport/dispute-portal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("registers and returns a token pair", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/register"), "", map[string]string{
			"email":     "new@example.com",
			"password":  "longenoughpassword",
			"firstName": "New",
			"lastName":  "User",
		})
		defer resp.Body.Close()

		var body testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, http.StatusOK, &body)

		assert.Equal(t, "new@example.com", body.User.Email)
		assert.NotEmpty(t, body.User.CustomerID)
		assert.NotEmpty(t, body.AccessToken)
		assert.NotEmpty(t, body.RefreshToken)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/register"), "", map[string]string{
			"email":     "New@Example.com",
			"password":  "longenoughpassword",
			"firstName": "Other",
			"lastName":  "User",
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	validationCases := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "longenoughpassword", "firstName": "A", "lastName": "B"}},
		{"missing password", map[string]string{"email": "x@example.com", "firstName": "A", "lastName": "B"}},
		{"short password", map[string]string{"email": "x@example.com", "password": "short", "firstName": "A", "lastName": "B"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "longenoughpassword", "firstName": "A", "lastName": "B"}},
	}
	for _, tc := range validationCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/register"), "", tc.body)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	t.Run("succeeds with valid credentials", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", map[string]string{
			"email":    "login@example.com",
			"password": "correctpassword",
		})
		defer resp.Body.Close()

		var body testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, http.StatusOK, &body)
		assert.NotEmpty(t, body.AccessToken)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", map[string]string{
			"email":    "login@example.com",
			"password": "wrongpassword",
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects unknown email with the same status", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", map[string]string{
			"email":    "stranger@example.com",
			"password": "correctpassword",
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)
	auth := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), "", map[string]string{
		"refreshToken": auth.RefreshToken,
	})
	defer resp.Body.Close()

	var refreshed testutil.AuthResponse
	testutil.AssertJSONResponse(t, resp, http.StatusOK, &refreshed)
	assert.NotEqual(t, auth.RefreshToken, refreshed.RefreshToken)

	// Replay of the consumed token fails.
	replay := doJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), "", map[string]string{
		"refreshToken": auth.RefreshToken,
	})
	defer replay.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, replay.StatusCode)
}

func TestRevokeEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)
	auth := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/revoke"), "", map[string]string{
		"refreshToken": auth.RefreshToken,
	})
	defer resp.Body.Close()

	var body map[string]bool
	testutil.AssertJSONResponse(t, resp, http.StatusOK, &body)
	assert.True(t, body["revoked"])

	again := doJSON(t, http.MethodPost, ts.APIURL("/auth/revoke"), "", map[string]string{
		"refreshToken": auth.RefreshToken,
	})
	defer again.Body.Close()

	var bodyAgain map[string]bool
	testutil.AssertJSONResponse(t, again, http.StatusOK, &bodyAgain)
	assert.False(t, bodyAgain["revoked"])
}

func TestMeEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)
	auth := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	t.Run("returns the authenticated user", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.APIURL("/auth/me"), auth.AccessToken, nil)
		defer resp.Body.Close()

		var user struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			CustomerID string `json:"customerId"`
		}
		testutil.AssertJSONResponse(t, resp, http.StatusOK, &user)
		require.Equal(t, auth.User.ID, user.ID)
		assert.Equal(t, auth.User.CustomerID, user.CustomerID)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.APIURL("/auth/me"), "", nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.APIURL("/auth/me"), auth.AccessToken+"x", nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestValidateEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)
	auth := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := doJSON(t, http.MethodGet, ts.APIURL("/auth/validate"), auth.AccessToken, nil)
	defer resp.Body.Close()

	var body map[string]bool
	testutil.AssertJSONResponse(t, resp, http.StatusOK, &body)
	assert.True(t, body["valid"])
}
