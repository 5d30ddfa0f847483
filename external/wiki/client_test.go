package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/matchlens/matchlens/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})
}

func TestClient_Summary(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/page/summary/")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"title": "Kylian Mbappé",
			"description": "French footballer",
			"extract": "Kylian Mbappé is a French professional footballer.",
			"thumbnail": {"source": "https://upload.example/mbappe.jpg"}
		}`))
	})

	summary, err := client.Summary(context.Background(), "kylian mbappe", "en")
	require.NoError(t, err)
	assert.Equal(t, "Kylian Mbappé", summary.Title)
	assert.Contains(t, summary.Extract, "French professional footballer")
	assert.Equal(t, "https://upload.example/mbappe.jpg", summary.ImageURL)
}

func TestClient_Summary_NotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Summary(context.Background(), "no such page", "en")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_Summary_EmptyExtractIsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "Disambiguation", "extract": ""}`))
	})

	_, err := client.Summary(context.Background(), "mercury", "en")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_Summary_CoalescesConcurrentLookups(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(30 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "Brazil", "extract": "The national team."}`))
	})

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := client.Summary(context.Background(), "brazil", "en")
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, int64(1), hits.Load())
}

func TestProvider_Fetch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "Brazil national football team", "extract": "The Brazil national football team."}`))
	})
	provider := NewProvider(client)

	require.True(t, provider.Configured())

	result, err := provider.Fetch(context.Background(), query.Intent{
		Kind:           query.KindTeam,
		NormalizedText: "brazil",
		LanguageTag:    "en",
	})
	require.NoError(t, err)
	profile, ok := result.Data.(sourcing.TeamProfile)
	require.True(t, ok)
	assert.Equal(t, "Brazil national football team", profile.Name)
	assert.Equal(t, sourcing.ConfidenceMedium, result.Confidence)
}

func TestProvider_Fetch_UnsupportedKind(t *testing.T) {
	t.Parallel()

	provider := NewProvider(newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	_, err := provider.Fetch(context.Background(), query.Intent{Kind: query.KindMatches})
	require.ErrorIs(t, err, usecase.ErrEmptyResult)
}
