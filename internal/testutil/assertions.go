package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertJSONResponse checks the status code and decodes the body into target.
func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code, body: %s", string(body))

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target), "failed to decode response body: %s", string(body))
	}
}
