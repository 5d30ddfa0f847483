package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const defaultWarmupWorkers = 4

// WarmupSummary reports what a warmup run touched.
type WarmupSummary struct {
	Scheduled int   `json:"scheduled"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// WarmupService pre-fills the cache ahead of traffic: every match window
// plus a configured list of popular lookups. Runs are triggered by an
// internal job endpoint, typically from a scheduler.
type WarmupService struct {
	lookup  *LookupService
	matches *MatchesService
	logger  *logging.Logger
	workers int
}

func NewWarmupService(lookup *LookupService, matches *MatchesService, logger *logging.Logger, workers int) *WarmupService {
	if workers <= 0 {
		workers = defaultWarmupWorkers
	}
	return &WarmupService{
		lookup:  lookup,
		matches: matches,
		logger:  logger,
		workers: workers,
	}
}

// Run executes the warmup synchronously and returns once every task has
// finished. Individual task failures are counted, not propagated; a warmup
// never takes the service down.
func (s *WarmupService) Run(ctx context.Context, seedQueries []string) (WarmupSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmupService.Run")
	defer span.End()

	p, err := ants.NewPool(s.workers)
	if err != nil {
		return WarmupSummary{}, err
	}
	defer p.Release()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		failed    atomic.Int64
	)

	submit := func(name string, task func(context.Context) error) {
		wg.Add(1)
		submitErr := p.Submit(func() {
			defer wg.Done()
			if err := task(ctx); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "warmup task failed", "task", name, "error", err)
				return
			}
			succeeded.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			s.logger.WarnContext(ctx, "warmup task rejected", "task", name, "error", submitErr)
		}
	}

	scheduled := 0
	for _, windowType := range []MatchWindowType{MatchesWeekly, MatchesLatest, MatchesUpcoming} {
		windowType := windowType
		scheduled++
		submit("matches:"+string(windowType), func(ctx context.Context) error {
			_, err := s.matches.List(ctx, MatchesRequest{Type: windowType})
			return err
		})
	}

	for _, raw := range seedQueries {
		raw := raw
		if raw == "" {
			continue
		}
		scheduled++
		submit("lookup:"+raw, func(ctx context.Context) error {
			res, err := s.lookup.Search(ctx, raw, query.Hints{})
			if err != nil {
				return err
			}
			return res.Result.Err
		})
	}

	wg.Wait()

	summary := WarmupSummary{
		Scheduled: scheduled,
		Succeeded: succeeded.Load(),
		Failed:    failed.Load(),
	}
	s.logger.InfoContext(ctx, "warmup finished",
		"scheduled", summary.Scheduled,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary, nil
}
