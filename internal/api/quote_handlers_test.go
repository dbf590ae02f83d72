package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyp/QuoteWeave/internal/dto"
)

func TestCreateQuote_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/quotes", map[string]any{
		"text": "No ticket, no quote",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateQuote_WithExplicitTags(t *testing.T) {
	ts := setupTestServer(t)

	data := ts.registerUser(t, "ada", "ada@example.com")
	entry := ts.createQuote(t, data.AccessToken, "Science is organized knowledge.", true, "Science", "wisdom")

	assert.NotZero(t, entry.ID)
	assert.Equal(t, "Science is organized knowledge.", entry.Text)
	assert.Equal(t, "ada", entry.AuthorName)
	assert.True(t, entry.IsPublic)
	assert.Equal(t, []string{"science", "wisdom"}, entry.Tags)
}

func TestCreateQuote_PredictsTagsWhenOmitted(t *testing.T) {
	ts := setupTestServer(t)
	ts.tagger.tags = []string{"life", "courage"}

	data := ts.registerUser(t, "ada", "ada@example.com")
	entry := ts.createQuote(t, data.AccessToken, "Courage is grace under pressure.", true)

	assert.ElementsMatch(t, []string{"life", "courage"}, entry.Tags)
}

func TestGetQuote_PrivateHiddenFromStrangers(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.registerUser(t, "ada", "ada@example.com")
	stranger := ts.registerUser(t, "turing", "turing@example.com")
	entry := ts.createQuote(t, owner.AccessToken, "A private thought.", false)

	path := fmt.Sprintf("/api/v1/quotes/%d", entry.ID)

	// Owner sees it.
	resp := ts.api.Get(path, "Authorization: Bearer "+owner.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Stranger and anonymous get a 404, not a 403.
	resp = ts.api.Get(path, "Authorization: Bearer "+stranger.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get(path)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateQuote_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.registerUser(t, "ada", "ada@example.com")
	stranger := ts.registerUser(t, "turing", "turing@example.com")
	entry := ts.createQuote(t, owner.AccessToken, "First draft.", true)

	path := fmt.Sprintf("/api/v1/quotes/%d", entry.ID)

	resp := ts.api.Patch(path,
		map[string]any{"text": "Second draft."},
		"Authorization: Bearer "+stranger.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Patch(path,
		map[string]any{"text": "Second draft."},
		"Authorization: Bearer "+owner.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[dto.QuoteEntry]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Second draft.", envelope.Data.Text)
}

func TestListQuotes_PaginatesPublicOnly(t *testing.T) {
	ts := setupTestServer(t)

	data := ts.registerUser(t, "ada", "ada@example.com")
	for i := 0; i < 5; i++ {
		ts.createQuote(t, data.AccessToken, fmt.Sprintf("Public quote %d.", i), true)
	}
	ts.createQuote(t, data.AccessToken, "Hidden quote.", false)

	resp := ts.api.Get("/api/v1/quotes?page=1&page_size=3")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[QuotePageResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Len(t, envelope.Data.Quotes, 3)
	assert.Equal(t, 5, envelope.Data.Total)
	assert.Equal(t, 2, envelope.Data.TotalPages)
	for _, q := range envelope.Data.Quotes {
		assert.NotEqual(t, "Hidden quote.", q.Text)
	}
}

func TestGetAuthorPage_FiltersPrivateForStrangers(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.registerUser(t, "ada", "ada@example.com")
	ts.createQuote(t, owner.AccessToken, "Public insight.", true)
	ts.createQuote(t, owner.AccessToken, "Private note.", false)

	path := fmt.Sprintf("/api/v1/authors/%d", owner.User.AuthorID)

	resp := ts.api.Get(path)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct {
		Author struct {
			Name string `json:"name"`
		} `json:"author"`
		Quotes []dto.QuoteEntry `json:"quotes"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "ada", envelope.Data.Author.Name)
	require.Len(t, envelope.Data.Quotes, 1)
	assert.Equal(t, "Public insight.", envelope.Data.Quotes[0].Text)

	// Owner sees both.
	resp = ts.api.Get(path, "Authorization: Bearer "+owner.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Quotes, 2)
}

func TestGetAuthorPage_MissingAuthor(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/authors/9999")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
