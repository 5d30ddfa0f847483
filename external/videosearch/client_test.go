package videosearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_HighlightURL(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [{"title": "Highlights", "url": "https://videos.example/clip"}]}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "secret",
		Logger:  logging.NewNop(),
	})
	require.True(t, client.Configured())

	link, err := client.HighlightURL(context.Background(), sourcing.Match{
		ID:       7,
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Status:   sourcing.MatchFinished,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://videos.example/clip", link)
	assert.Equal(t, "Arsenal vs Chelsea highlights", gotQuery)
}

func TestClient_HighlightURL_NoResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret", Logger: logging.NewNop()})
	_, err := client.HighlightURL(context.Background(), sourcing.Match{ID: 7})
	require.Error(t, err)
}

func TestClient_Unconfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	assert.False(t, client.Configured())

	_, err := client.HighlightURL(context.Background(), sourcing.Match{ID: 7})
	require.Error(t, err)
}
