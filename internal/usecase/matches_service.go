package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/matchlens/matchlens/internal/domain/competition"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/cache"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// MatchWindowType selects which slice of the fixture calendar to return.
type MatchWindowType string

const (
	MatchesWeekly   MatchWindowType = "weekly"
	MatchesLatest   MatchWindowType = "latest"
	MatchesUpcoming MatchWindowType = "upcoming"
)

func (t MatchWindowType) Valid() bool {
	switch t {
	case MatchesWeekly, MatchesLatest, MatchesUpcoming:
		return true
	}
	return false
}

const (
	defaultMatchesDays  = 7
	defaultMatchesLimit = 50
	maxMatchesDays      = 30
	maxMatchesLimit     = 200
	matchFetchWorkers   = 4
)

// MatchFeed fetches fixtures for one competition over a time window.
type MatchFeed interface {
	ID() sourcing.ProviderID
	Configured() bool
	MatchesByCompetition(ctx context.Context, comp competition.ID, from, to time.Time) ([]sourcing.Match, error)
}

// VideoFinder locates a highlight clip for a finished match. Best effort:
// a miss or error leaves the match undecorated.
type VideoFinder interface {
	Configured() bool
	HighlightURL(ctx context.Context, match sourcing.Match) (string, error)
}

// MatchesRequest is a validated, defaulted list query.
type MatchesRequest struct {
	Type  MatchWindowType
	Days  int
	Limit int
}

// Normalize fills defaults and clamps abusive values.
func (r MatchesRequest) Normalize() (MatchesRequest, error) {
	if !r.Type.Valid() {
		return r, fmt.Errorf("%w: unknown matches type %q", ErrInvalidInput, r.Type)
	}
	if r.Days <= 0 {
		r.Days = defaultMatchesDays
	}
	if r.Days > maxMatchesDays {
		r.Days = maxMatchesDays
	}
	if r.Limit <= 0 {
		r.Limit = defaultMatchesLimit
	}
	if r.Limit > maxMatchesLimit {
		r.Limit = maxMatchesLimit
	}
	return r, nil
}

// MatchesView is the rendered list: flat and grouped, cache provenance on
// the side.
type MatchesView struct {
	Type     MatchWindowType             `json:"type"`
	Matches  []sourcing.Match            `json:"matches"`
	Groups   []sourcing.CompetitionGroup `json:"groups"`
	Source   sourcing.ProviderID         `json:"source"`
	CacheHit bool                        `json:"-"`
}

// MatchesService assembles fixture lists across the tracked competitions.
// Per-competition fetches run concurrently and individual failures degrade
// to a smaller list rather than failing the whole request.
type MatchesService struct {
	feed         MatchFeed
	videos       VideoFinder
	store        *cache.Store
	telemetry    *TelemetryService
	logger       *logging.Logger
	competitions []competition.ID
	now          func() time.Time
}

func NewMatchesService(
	feed MatchFeed,
	videos VideoFinder,
	store *cache.Store,
	telemetry *TelemetryService,
	logger *logging.Logger,
	competitions []competition.ID,
) *MatchesService {
	return &MatchesService{
		feed:         feed,
		videos:       videos,
		store:        store,
		telemetry:    telemetry,
		logger:       logger,
		competitions: competitions,
		now:          time.Now,
	}
}

// List returns matches for the requested window. An empty list is a normal
// answer, including when the feed is not configured at all.
func (s *MatchesService) List(ctx context.Context, req MatchesRequest) (MatchesView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchesService.List")
	defer span.End()

	req, err := req.Normalize()
	if err != nil {
		return MatchesView{}, err
	}

	if s.feed == nil || !s.feed.Configured() {
		return MatchesView{
			Type:    req.Type,
			Matches: []sourcing.Match{},
			Groups:  []sourcing.CompetitionGroup{},
			Source:  sourcing.ProviderStatic,
		}, nil
	}

	key := cache.Key(cache.DomainMatches, string(req.Type), fmt.Sprintf("d%d", req.Days), fmt.Sprintf("l%d", req.Limit))

	var loaded bool
	entry, err := s.store.GetOrLoad(ctx, key, cache.TTLMatches, func(ctx context.Context) (any, string, error) {
		loaded = true
		matches, loadErr := s.collect(ctx, req)
		if loadErr != nil {
			return nil, "", loadErr
		}
		return sourcing.MatchList{Matches: matches}, string(s.feed.ID()), nil
	})
	if err != nil {
		return MatchesView{}, err
	}
	if !loaded {
		s.telemetry.RecordCacheHit([]sourcing.ProviderID{s.feed.ID()})
	}

	list, ok := entry.Payload.(sourcing.MatchList)
	if !ok {
		return MatchesView{}, fmt.Errorf("unexpected matches payload type %T", entry.Payload)
	}

	matches := list.Matches
	if matches == nil {
		matches = []sourcing.Match{}
	}
	view := MatchesView{
		Type:     req.Type,
		Matches:  matches,
		Groups:   sourcing.GroupByCompetition(matches),
		Source:   sourcing.ProviderID(entry.Source),
		CacheHit: !loaded,
	}
	if view.CacheHit {
		view.Source = sourcing.ProviderCache
	}
	return view, nil
}

// collect fans out one fetch per competition, keeps whatever succeeded, and
// shapes the merged list for the window type.
func (s *MatchesService) collect(ctx context.Context, req MatchesRequest) ([]sourcing.Match, error) {
	from, to := s.window(req)

	var (
		mu     sync.Mutex
		merged []sourcing.Match
		failed int
	)

	p := pool.New().WithMaxGoroutines(matchFetchWorkers).WithContext(ctx)
	for _, comp := range s.competitions {
		comp := comp
		p.Go(func(ctx context.Context) error {
			s.telemetry.RecordProviderCall(s.feed.ID())
			matches, err := s.feed.MatchesByCompetition(ctx, comp, from, to)
			if err != nil {
				s.telemetry.RecordProviderFailure(s.feed.ID())
				s.logger.WarnContext(ctx, "competition fetch failed",
					"competition", comp,
					"error", err,
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			merged = append(merged, matches...)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	// Only when every competition failed do we refuse to cache an empty
	// list, so the next request retries upstream.
	if failed > 0 && failed == len(s.competitions) {
		return nil, fmt.Errorf("%w: all competition fetches failed", ErrTransientProvider)
	}

	shaped := s.shape(req, merged)
	s.decorate(ctx, shaped)
	return shaped, nil
}

func (s *MatchesService) window(req MatchesRequest) (time.Time, time.Time) {
	now := s.now().UTC()
	span := time.Duration(req.Days) * 24 * time.Hour
	switch req.Type {
	case MatchesLatest:
		return now.Add(-span), now
	case MatchesUpcoming:
		return now, now.Add(span)
	default:
		// Weekly spans the current ISO week, Monday through Sunday.
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := now.Truncate(24 * time.Hour).AddDate(0, 0, 1-weekday)
		return start, start.AddDate(0, 0, 7)
	}
}

func (s *MatchesService) shape(req MatchesRequest, matches []sourcing.Match) []sourcing.Match {
	filtered := matches[:0:0]
	for _, m := range matches {
		switch req.Type {
		case MatchesLatest:
			if m.Status == sourcing.MatchFinished {
				filtered = append(filtered, m)
			}
		case MatchesUpcoming:
			if m.Status == sourcing.MatchScheduled {
				filtered = append(filtered, m)
			}
		default:
			filtered = append(filtered, m)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if req.Type == MatchesLatest {
			return filtered[i].KickoffAt.After(filtered[j].KickoffAt)
		}
		return filtered[i].KickoffAt.Before(filtered[j].KickoffAt)
	})

	if len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}
	return filtered
}

// decorate attaches highlight links to finished matches.
func (s *MatchesService) decorate(ctx context.Context, matches []sourcing.Match) {
	if s.videos == nil || !s.videos.Configured() {
		return
	}
	for i := range matches {
		if matches[i].Status != sourcing.MatchFinished {
			continue
		}
		url, err := s.videos.HighlightURL(ctx, matches[i])
		if err != nil {
			s.logger.DebugContext(ctx, "highlight lookup failed",
				"match_id", matches[i].ID,
				"error", err,
			)
			continue
		}
		matches[i].VideoURL = url
	}
}
