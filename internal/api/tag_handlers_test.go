package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTags_EmptyInitially(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Data.Tags)
}

func TestListTags_SortedAndDeduplicated(t *testing.T) {
	ts := setupTestServer(t)

	data := ts.registerUser(t, "ada", "ada@example.com")
	ts.createQuote(t, data.AccessToken, "First.", true, "wisdom", "Life")
	ts.createQuote(t, data.AccessToken, "Second.", true, "WISDOM", "courage")

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	names := make([]string, len(envelope.Data.Tags))
	for i, tag := range envelope.Data.Tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"courage", "life", "wisdom"}, names)
}

func TestHealthCheck_Healthy(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}
