package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depobrain/depobrain/internal/common"
)

func messagesResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
	})
	return string(body)
}

func TestExtractIssues_Success(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		reply := `Here you go: {"issues": [{"issue_type": "corporate_knowledge", "quoted_text": "management knew in 1998", "legal_relevance": "shows prior knowledge", "risk_level": "high"}]}`
		_, _ = w.Write([]byte(messagesResponse(reply)))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"}, nil)

	issues, raw, err := client.ExtractIssues(context.Background(), "[Q] Did management know? [A] Yes, since 1998.")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "corporate_knowledge", issues[0].IssueType)
	assert.Equal(t, "high", issues[0].RiskLevel)
	assert.NotEmpty(t, raw)

	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, apiVersion, gotVersion)
	assert.Equal(t, "test-model", gotBody["model"])

	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Contains(t, first["content"], "[Q] Did management know?")
}

func TestExtractIssues_HTTPErrorIsServiceCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, _, err := client.ExtractIssues(context.Background(), "segment")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrServiceCall))
}

func TestExtractIssues_ProseOnlyReplyIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(messagesResponse("I found no issues worth reporting.")))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, _, err := client.ExtractIssues(context.Background(), "segment")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}

func TestExtractIssues_EmptyContentIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, _, err := client.ExtractIssues(context.Background(), "segment")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}
