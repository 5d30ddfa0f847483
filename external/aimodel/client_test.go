package aimodel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})
}

func messageBody(text string) string {
	encoded, _ := sonic.Marshal(text)
	return `{"content": [{"type": "text", "text": ` + string(encoded) + `}]}`
}

func TestClient_EnrichTeam(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody(`{"name": "Persija Jakarta", "country": "Indonesia", "founded": 1928, "summary": "A club."}`)))
	})

	profile, err := client.EnrichTeam(context.Background(), "persija", "en")
	require.NoError(t, err)
	assert.Equal(t, "Persija Jakarta", profile.Name)
	assert.Equal(t, 1928, profile.Founded)
}

func TestClient_StripsCodeFence(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody("```json\n{\"query\": \"offside\", \"answer\": \"A rule.\"}\n```")))
	})

	answer, err := client.Answer(context.Background(), "offside", "en")
	require.NoError(t, err)
	assert.Equal(t, "A rule.", answer.Answer)
}

func TestClient_RateLimitedIsTransient(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Answer(context.Background(), "offside", "en")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.False(t, IsRejected(err))
}

func TestClient_BadRequestIsRejected(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid model"}}`))
	})

	_, err := client.Answer(context.Background(), "offside", "en")
	require.Error(t, err)
	assert.True(t, IsRejected(err))
}

func TestClient_NonJSONAnswerIsRejected(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody("Sorry, I cannot answer that.")))
	})

	_, err := client.FunFactOfDay(context.Background(), time.Now(), "en")
	require.Error(t, err)
	assert.True(t, IsRejected(err))
}

func TestClient_UnconfiguredFailsFast(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	require.False(t, client.Configured())

	_, err := client.Answer(context.Background(), "offside", "en")
	require.Error(t, err)
	assert.True(t, IsRejected(err))
}

func TestClient_FunFactPinsDate(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody(`{"date": "1900-01-01", "text": "A fact."}`)))
	})

	date := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	fact, err := client.FunFactOfDay(context.Background(), date, "en")
	require.NoError(t, err)
	// The requested date wins over whatever the model echoed back.
	assert.Equal(t, "2026-09-01", fact.Date)
	assert.Equal(t, "A fact.", fact.Text)
}
