package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
)

const defaultRetryBackoff = 400 * time.Millisecond

// RouterService walks a per-kind provider chain until one provider answers.
// The chain order is configuration, not code: callers hand in the providers
// already sorted by preference. Outbound pacing is the provider clients'
// concern, not the router's.
type RouterService struct {
	chains       map[query.Kind][]sourcing.Provider
	telemetry    *TelemetryService
	logger       *logging.Logger
	retryBackoff time.Duration

	// sleep is swapped in tests to avoid real waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRouterService(
	chains map[query.Kind][]sourcing.Provider,
	telemetry *TelemetryService,
	logger *logging.Logger,
) *RouterService {
	return &RouterService{
		chains:       chains,
		telemetry:    telemetry,
		logger:       logger,
		retryBackoff: defaultRetryBackoff,
		sleep:        sleepContext,
	}
}

// ChainFor lists the provider IDs that would be consulted for a kind.
func (r *RouterService) ChainFor(kind query.Kind) []sourcing.ProviderID {
	chain := r.chains[kind]
	ids := make([]sourcing.ProviderID, 0, len(chain))
	for _, p := range chain {
		ids = append(ids, p.ID())
	}
	return ids
}

// Route resolves an intent through its fallback chain. It always returns a
// Result: when every provider fails, Data is nil, Source names the last
// provider tried, and Err carries the most specific failure seen. Callers
// render that as an empty answer, they do not treat it as an error.
func (r *RouterService) Route(ctx context.Context, intent query.Intent) sourcing.Result {
	ctx, span := startUsecaseSpan(ctx, "usecase.RouterService.Route")
	defer span.End()

	r.telemetry.RecordRouted()

	chain := r.chains[intent.Kind]
	if len(chain) == 0 {
		return sourcing.Result{Err: ErrNotConfigured}
	}

	var (
		lastTried sourcing.ProviderID
		bestErr   error
	)

	for i, provider := range chain {
		if err := ctx.Err(); err != nil {
			bestErr = mostSpecificFailure(bestErr, err)
			break
		}

		if !provider.Configured() {
			r.telemetry.RecordUnconfiguredSkip(provider.ID())
			bestErr = mostSpecificFailure(bestErr, ErrNotConfigured)
			continue
		}
		lastTried = provider.ID()

		result, err := r.fetchWithRetry(ctx, provider, intent)
		if err == nil {
			r.telemetry.RecordSkipped(providerIDs(chain[i+1:]))
			return result
		}

		r.telemetry.RecordProviderFailure(provider.ID())
		r.logger.WarnContext(ctx, "provider failed, falling through",
			"provider", provider.ID(),
			"kind", intent.Kind,
			"error", err,
		)
		bestErr = mostSpecificFailure(bestErr, err)
	}

	if bestErr == nil {
		bestErr = ErrNotConfigured
	}
	return sourcing.Result{Data: nil, Source: lastTried, Err: bestErr}
}

// fetchWithRetry paces the call and retries once on a transient failure.
func (r *RouterService) fetchWithRetry(ctx context.Context, provider sourcing.Provider, intent query.Intent) (sourcing.Result, error) {
	result, err := r.fetchOnce(ctx, provider, intent)
	if err == nil || !errors.Is(err, ErrTransientProvider) {
		return result, err
	}

	if sleepErr := r.sleep(ctx, r.retryBackoff); sleepErr != nil {
		return sourcing.Result{}, err
	}
	return r.fetchOnce(ctx, provider, intent)
}

func (r *RouterService) fetchOnce(ctx context.Context, provider sourcing.Provider, intent query.Intent) (sourcing.Result, error) {
	r.telemetry.RecordProviderCall(provider.ID())
	result, err := provider.Fetch(ctx, intent)
	if err != nil {
		return sourcing.Result{}, err
	}
	if result.Source == "" {
		result.Source = provider.ID()
	}
	return result, nil
}

// failureRank orders failures by how much they tell the user. A provider
// that rejected the query outranks one that was merely unreachable.
func failureRank(err error) int {
	switch {
	case errors.Is(err, ErrProviderRejected):
		return 4
	case errors.Is(err, ErrTransientProvider):
		return 3
	case errors.Is(err, ErrEmptyResult):
		return 2
	case errors.Is(err, ErrNotConfigured):
		return 1
	default:
		return 2
	}
}

func mostSpecificFailure(current, candidate error) error {
	if candidate == nil {
		return current
	}
	if current == nil || failureRank(candidate) > failureRank(current) {
		return candidate
	}
	return current
}

func providerIDs(chain []sourcing.Provider) []sourcing.ProviderID {
	ids := make([]sourcing.ProviderID, 0, len(chain))
	for _, p := range chain {
		ids = append(ids, p.ID())
	}
	return ids
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
