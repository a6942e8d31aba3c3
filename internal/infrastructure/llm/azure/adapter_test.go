package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"webagent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMessages(t *testing.T) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: "framing"},
		{Role: entity.RoleUser, Content: "Task: do the thing"},
		{Role: entity.RoleAssistant, Content: "Thought: ok"},
	}

	result := convertMessages(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "system", result[0].Role)
	assert.Equal(t, "user", result[1].Role)
	assert.Equal(t, "assistant", result[2].Role)
	assert.Equal(t, "Task: do the thing", result[1].Content)
}

func TestComplete_AddressesDeploymentAndReturnsContent(t *testing.T) {
	var gotPath, gotAPIVersion string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIVersion = r.URL.Query().Get("api-version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "Final Answer: done"}}]
		}`))
	}))
	defer server.Close()

	adapter := NewAdapter(Config{
		APIKey:     "test-key",
		Endpoint:   server.URL,
		Deployment: "gpt-4o-agent",
		APIVersion: DefaultAPIVersion,
	})

	reply, err := adapter.Complete(context.Background(), []entity.Message{
		{Role: entity.RoleUser, Content: "Task: say done"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Final Answer: done", reply)
	assert.True(t, strings.Contains(gotPath, "/deployments/gpt-4o-agent/"), gotPath)
	assert.Equal(t, DefaultAPIVersion, gotAPIVersion)
	assert.InDelta(t, 0.7, gotBody["temperature"], 0.001)
	assert.EqualValues(t, 500, gotBody["max_tokens"])
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	adapter := NewAdapter(Config{APIKey: "k", Endpoint: server.URL, Deployment: "d"})

	_, err := adapter.Complete(context.Background(), []entity.Message{
		{Role: entity.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestComplete_TransportErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key", "type": "auth"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter := NewAdapter(Config{APIKey: "bad", Endpoint: server.URL, Deployment: "d"})

	_, err := adapter.Complete(context.Background(), []entity.Message{
		{Role: entity.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")
}
