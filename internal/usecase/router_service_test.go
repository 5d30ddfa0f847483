package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	id         sourcing.ProviderID
	configured bool
	calls      int
	fetch      func(call int) (sourcing.Result, error)
}

func (f *fakeProvider) ID() sourcing.ProviderID { return f.id }
func (f *fakeProvider) Configured() bool        { return f.configured }

func (f *fakeProvider) Fetch(_ context.Context, _ query.Intent) (sourcing.Result, error) {
	f.calls++
	return f.fetch(f.calls)
}

func newTestRouter(t *testing.T, chain ...sourcing.Provider) (*RouterService, *TelemetryService) {
	t.Helper()

	telemetry := NewTelemetryService()
	router := NewRouterService(
		map[query.Kind][]sourcing.Provider{query.KindTeam: chain},
		telemetry,
		logging.NewNop(),
	)
	router.retryBackoff = time.Millisecond
	return router, telemetry
}

func teamIntent() query.Intent {
	return query.Intent{
		Kind:           query.KindTeam,
		NormalizedText: "brazil",
		LanguageTag:    "en",
		Confidence:     query.ConfidenceHigh,
	}
}

func TestRouterService_Route_FirstProviderWins(t *testing.T) {
	t.Parallel()

	primary := &fakeProvider{
		id:         sourcing.ProviderFootballData,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{Data: "profile", Confidence: sourcing.ConfidenceHigh}, nil
		},
	}
	secondary := &fakeProvider{
		id:         sourcing.ProviderWiki,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			t.Fatal("secondary provider must not be called")
			return sourcing.Result{}, nil
		},
	}

	router, telemetry := newTestRouter(t, primary, secondary)
	result := router.Route(context.Background(), teamIntent())

	require.NoError(t, result.Err)
	assert.Equal(t, "profile", result.Data)
	assert.Equal(t, sourcing.ProviderFootballData, result.Source)
	assert.Equal(t, 0, secondary.calls)

	report := telemetry.Snapshot()
	assert.Equal(t, int64(1), report.QueriesRouted)
}

func TestRouterService_Route_FallsThroughInOrder(t *testing.T) {
	t.Parallel()

	var order []sourcing.ProviderID
	mk := func(id sourcing.ProviderID, result sourcing.Result, err error) *fakeProvider {
		return &fakeProvider{
			id:         id,
			configured: true,
			fetch: func(int) (sourcing.Result, error) {
				order = append(order, id)
				return result, err
			},
		}
	}

	first := mk(sourcing.ProviderFootballData, sourcing.Result{}, ErrEmptyResult)
	second := mk(sourcing.ProviderWiki, sourcing.Result{}, ErrEmptyResult)
	third := mk(sourcing.ProviderAIModel, sourcing.Result{Data: "answer", Confidence: sourcing.ConfidenceMedium}, nil)

	router, _ := newTestRouter(t, first, second, third)
	result := router.Route(context.Background(), teamIntent())

	require.NoError(t, result.Err)
	assert.Equal(t, "answer", result.Data)
	assert.Equal(t, sourcing.ProviderAIModel, result.Source)
	assert.Equal(t, []sourcing.ProviderID{
		sourcing.ProviderFootballData,
		sourcing.ProviderWiki,
		sourcing.ProviderAIModel,
	}, order)
}

func TestRouterService_Route_RetriesTransientOnce(t *testing.T) {
	t.Parallel()

	flaky := &fakeProvider{
		id:         sourcing.ProviderFootballData,
		configured: true,
		fetch: func(call int) (sourcing.Result, error) {
			if call == 1 {
				return sourcing.Result{}, ErrTransientProvider
			}
			return sourcing.Result{Data: "profile"}, nil
		},
	}

	router, _ := newTestRouter(t, flaky)
	result := router.Route(context.Background(), teamIntent())

	require.NoError(t, result.Err)
	assert.Equal(t, "profile", result.Data)
	assert.Equal(t, 2, flaky.calls)
}

func TestRouterService_Route_TransientFailsAfterRetry(t *testing.T) {
	t.Parallel()

	down := &fakeProvider{
		id:         sourcing.ProviderFootballData,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{}, ErrTransientProvider
		},
	}
	fallback := &fakeProvider{
		id:         sourcing.ProviderStatic,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{Data: "seed", Confidence: sourcing.ConfidenceLow}, nil
		},
	}

	router, _ := newTestRouter(t, down, fallback)
	result := router.Route(context.Background(), teamIntent())

	require.NoError(t, result.Err)
	assert.Equal(t, "seed", result.Data)
	assert.Equal(t, 2, down.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestRouterService_Route_ExhaustionIsDataNotError(t *testing.T) {
	t.Parallel()

	unconfigured := &fakeProvider{id: sourcing.ProviderFootballData, configured: false}
	empty := &fakeProvider{
		id:         sourcing.ProviderWiki,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{}, ErrEmptyResult
		},
	}
	rejecting := &fakeProvider{
		id:         sourcing.ProviderAIModel,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{}, ErrProviderRejected
		},
	}

	router, _ := newTestRouter(t, unconfigured, empty, rejecting)
	result := router.Route(context.Background(), teamIntent())

	assert.Nil(t, result.Data)
	assert.Equal(t, sourcing.ProviderAIModel, result.Source)
	require.ErrorIs(t, result.Err, ErrProviderRejected)
	assert.Equal(t, 0, unconfigured.calls)
}

func TestRouterService_Route_NoChainForKind(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	result := router.Route(context.Background(), query.Intent{Kind: query.KindTranslation})

	assert.Nil(t, result.Data)
	require.ErrorIs(t, result.Err, ErrNotConfigured)
}

func TestRouterService_Route_UnconfiguredSkipIsRecorded(t *testing.T) {
	t.Parallel()

	unconfigured := &fakeProvider{id: sourcing.ProviderAIModel, configured: false}
	fallback := &fakeProvider{
		id:         sourcing.ProviderStatic,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{Data: "seed", Confidence: sourcing.ConfidenceLow}, nil
		},
	}

	router, telemetry := newTestRouter(t, unconfigured, fallback)
	result := router.Route(context.Background(), teamIntent())
	require.NoError(t, result.Err)

	report := telemetry.Snapshot()
	var aiStat *ProviderStat
	for i := range report.Providers {
		if report.Providers[i].Provider == sourcing.ProviderAIModel {
			aiStat = &report.Providers[i]
		}
	}
	require.NotNil(t, aiStat, "skipped provider missing from report")
	assert.Equal(t, int64(1), aiStat.Skipped)
	assert.Equal(t, int64(0), aiStat.Calls)
	assert.Equal(t, 0, unconfigured.calls)
}

func TestRouterService_Route_SkippedProvidersCountAsAvoided(t *testing.T) {
	t.Parallel()

	primary := &fakeProvider{
		id:         sourcing.ProviderFootballData,
		configured: true,
		fetch: func(int) (sourcing.Result, error) {
			return sourcing.Result{Data: "profile"}, nil
		},
	}
	skipped := &fakeProvider{id: sourcing.ProviderAIModel, configured: true}

	router, telemetry := newTestRouter(t, primary, skipped)
	result := router.Route(context.Background(), teamIntent())
	require.NoError(t, result.Err)

	report := telemetry.Snapshot()
	assert.Equal(t, int64(1), report.EstimatedUnitsSaved)
}
