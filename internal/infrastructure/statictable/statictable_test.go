package statictable

import (
	"context"
	"testing"
	"time"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Fetch(t *testing.T) {
	t.Parallel()

	provider := NewProvider()
	require.True(t, provider.Configured())

	tests := []struct {
		name    string
		intent  query.Intent
		wantErr bool
		check   func(t *testing.T, result sourcing.Result)
	}{
		{
			name:   "seeded team",
			intent: query.Intent{Kind: query.KindTeam, NormalizedText: "brazil", LanguageTag: "en"},
			check: func(t *testing.T, result sourcing.Result) {
				profile := result.Data.(sourcing.TeamProfile)
				assert.Equal(t, "Brazil", profile.Name)
			},
		},
		{
			name:   "seeded player",
			intent: query.Intent{Kind: query.KindPlayer, NormalizedText: "mbappe", LanguageTag: "en"},
			check: func(t *testing.T, result sourcing.Result) {
				profile := result.Data.(sourcing.PlayerProfile)
				assert.Equal(t, "Kylian Mbappé", profile.Name)
			},
		},
		{
			name:   "seeded translation",
			intent: query.Intent{Kind: query.KindTranslation, NormalizedText: "matches", LanguageTag: "es"},
			check: func(t *testing.T, result sourcing.Result) {
				translation := result.Data.(sourcing.Translation)
				assert.Equal(t, "Partidos", translation.Text)
			},
		},
		{
			name:   "matches yield an empty list, not a failure",
			intent: query.Intent{Kind: query.KindMatches, NormalizedText: "fixtures", LanguageTag: "en"},
			check: func(t *testing.T, result sourcing.Result) {
				list := result.Data.(sourcing.MatchList)
				assert.Empty(t, list.Matches)
			},
		},
		{
			name:    "unknown entity",
			intent:  query.Intent{Kind: query.KindTeam, NormalizedText: "nonexistent club", LanguageTag: "en"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := provider.Fetch(context.Background(), tt.intent)
			if tt.wantErr {
				require.ErrorIs(t, err, usecase.ErrEmptyResult)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sourcing.ProviderStatic, result.Source)
			assert.Equal(t, sourcing.ConfidenceLow, result.Confidence)
			tt.check(t, result)
		})
	}
}

func TestProvider_FunFactOfDay_StablePerDate(t *testing.T) {
	t.Parallel()

	provider := NewProvider()
	date := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	first, err := provider.FunFactOfDay(context.Background(), date, "en")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", first.Date)
	assert.NotEmpty(t, first.Text)

	later := date.Add(10 * time.Hour)
	second, err := provider.FunFactOfDay(context.Background(), later, "en")
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)

	nextDay, err := provider.FunFactOfDay(context.Background(), date.AddDate(0, 0, 1), "en")
	require.NoError(t, err)
	assert.NotEqual(t, first.Text, nextDay.Text)
}
