package snapshot

import (
	"testing"

	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_RestoresTypedShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		raw  string
		want any
	}{
		{
			name: "team profile",
			key:  cache.Key(cache.DomainTeam, "real madrid", "en"),
			raw:  `{"name": "Real Madrid CF", "country": "Spain", "founded": 1902}`,
			want: sourcing.TeamProfile{Name: "Real Madrid CF", Country: "Spain", Founded: 1902},
		},
		{
			name: "player profile",
			key:  cache.Key(cache.DomainPlayer, "mbappe", "en"),
			raw:  `{"name": "Kylian Mbappé", "nationality": "France"}`,
			want: sourcing.PlayerProfile{Name: "Kylian Mbappé", Nationality: "France"},
		},
		{
			name: "match list",
			key:  cache.Key(cache.DomainMatches, "upcoming", "d7", "l50"),
			raw:  `{"matches": []}`,
			want: sourcing.MatchList{Matches: []sourcing.Match{}},
		},
		{
			name: "fun fact",
			key:  cache.Key(cache.DomainFunFact, "2026-09-01", "en"),
			raw:  `{"date": "2026-09-01", "text": "A fact."}`,
			want: sourcing.FunFact{Date: "2026-09-01", Text: "A fact."},
		},
		{
			name: "translation",
			key:  cache.Key(cache.DomainTranslation, "matches", "es"),
			raw:  `{"key": "matches", "languageTag": "es", "text": "Partidos"}`,
			want: sourcing.Translation{Key: "matches", LanguageTag: "es", Text: "Partidos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := decodePayload(tt.key, []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePayload_UnknownDomainFallsBackToMap(t *testing.T) {
	t.Parallel()

	got, err := decodePayload("v3:legacy:something", []byte(`{"a": 1}`))
	require.NoError(t, err)
	_, ok := got.(map[string]any)
	assert.True(t, ok)
}

func TestDecodePayload_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := decodePayload(cache.Key(cache.DomainTeam, "x", "en"), []byte(`not json`))
	require.Error(t, err)
}
