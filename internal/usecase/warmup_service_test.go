package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/matchlens/matchlens/internal/domain/competition"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmupService_Run(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		id:         sourcing.ProviderFootballData,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{Data: "profile"}, nil
		},
	}
	lookup, _, store := newTestLookup(t, []sourcing.Provider{provider}, nil)

	feed := newFakeMatchFeed()
	feed.matches[competition.PL] = []sourcing.Match{
		match(1, competition.PL, sourcing.MatchScheduled, fixedNow().Add(2*time.Hour)),
	}
	matches := newTestMatches(t, feed, nil)

	warmup := NewWarmupService(lookup, matches, logging.NewNop(), 2)
	summary, err := warmup.Run(context.Background(), []string{"Brazil", "mbappe", ""})
	require.NoError(t, err)

	// Three match windows plus two non-empty seed queries.
	assert.Equal(t, 5, summary.Scheduled)
	assert.Equal(t, int64(5), summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.Positive(t, store.Len())
}

func TestWarmupService_Run_CountsFailures(t *testing.T) {
	t.Parallel()

	failing := &fakeProvider{
		id:         sourcing.ProviderFootballData,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{}, ErrEmptyResult
		},
	}
	lookup, _, _ := newTestLookup(t, []sourcing.Provider{failing}, nil)
	matches := newTestMatches(t, newFakeMatchFeed(), nil)

	warmup := NewWarmupService(lookup, matches, logging.NewNop(), 2)
	summary, err := warmup.Run(context.Background(), []string{"Brazil"})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Scheduled)
	assert.Equal(t, int64(1), summary.Failed)
}
