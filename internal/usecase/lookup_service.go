package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/cache"
	"github.com/matchlens/matchlens/internal/platform/id"
	"github.com/matchlens/matchlens/internal/platform/logging"
)

// FunFactSource produces the daily trivia blurb. Sources are tried in order
// until one answers; the result is cached per calendar date.
type FunFactSource interface {
	ID() sourcing.ProviderID
	Configured() bool
	FunFactOfDay(ctx context.Context, date time.Time, languageTag string) (sourcing.FunFact, error)
}

// Resolution is the full outcome of one lookup: what the query was
// understood as, what came back, and whether the cache answered it.
type Resolution struct {
	ID       string
	Intent   query.Intent
	Result   sourcing.Result
	CacheHit bool
}

// LookupService orchestrates classify, cache check and source routing.
type LookupService struct {
	classifier *ClassifierService
	router     *RouterService
	store      *cache.Store
	telemetry  *TelemetryService
	funFacts   []FunFactSource
	idGen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewLookupService(
	classifier *ClassifierService,
	router *RouterService,
	store *cache.Store,
	telemetry *TelemetryService,
	funFacts []FunFactSource,
	idGen id.Generator,
	logger *logging.Logger,
) *LookupService {
	return &LookupService{
		classifier: classifier,
		router:     router,
		store:      store,
		telemetry:  telemetry,
		funFacts:   funFacts,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Search resolves free text into data. Cache is consulted first; a miss goes
// through the fallback router and only successful payloads are written back.
// Exhaustion comes back as a Resolution with nil data, never as an error.
func (s *LookupService) Search(ctx context.Context, raw string, hints query.Hints) (Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LookupService.Search")
	defer span.End()

	intent, err := s.classifier.Classify(ctx, raw, hints)
	if err != nil {
		return Resolution{}, err
	}

	rid, err := s.idGen.NewID()
	if err != nil {
		return Resolution{}, fmt.Errorf("generate resolution id: %w", err)
	}
	resolution := Resolution{
		ID:     rid,
		Intent: intent,
	}

	domain := cacheDomainForKind(intent.Kind)
	key := cache.Key(domain, intent.NormalizedText, intent.LanguageTag)

	if entry, ok := s.store.Get(ctx, key); ok {
		s.telemetry.RecordCacheHit(s.router.ChainFor(intent.Kind))
		resolution.CacheHit = true
		// A hit keeps the originating provider's provenance; CacheHit alone
		// says the answer came from the cache.
		source := sourcing.ProviderID(entry.Source)
		if source == "" {
			source = sourcing.ProviderCache
		}
		resolution.Result = sourcing.Result{
			Data:       entry.Payload,
			Source:     source,
			Confidence: sourcing.Confidence(entry.Confidence),
		}
		return resolution, nil
	}

	result := s.router.Route(ctx, intent)
	if result.Err == nil && result.Data != nil {
		s.store.Set(ctx, key, result.Data, cache.TTLForDomain(domain),
			string(result.Source), string(result.Confidence))
	}

	resolution.Result = result
	return resolution, nil
}

// FunFactOfDay returns the trivia entry for the given date, loading at most
// once per date across concurrent callers. The entry never changes within a
// day, so a stale-while-loading window is not a concern.
func (s *LookupService) FunFactOfDay(ctx context.Context, languageTag string) (sourcing.FunFact, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LookupService.FunFactOfDay")
	defer span.End()

	if languageTag == "" {
		languageTag = defaultLanguageTag
	}
	date := s.now().UTC().Truncate(24 * time.Hour)
	key := cache.Key(cache.DomainFunFact, date.Format("2006-01-02"), languageTag)

	var loaded bool
	entry, err := s.store.GetOrLoad(ctx, key, cache.TTLFunFact, func(ctx context.Context) (any, string, error) {
		loaded = true
		fact, source, loadErr := s.loadFunFact(ctx, date, languageTag)
		if loadErr != nil {
			return nil, "", loadErr
		}
		return fact, string(source), nil
	})
	if err != nil {
		return sourcing.FunFact{}, false, err
	}

	fact, ok := entry.Payload.(sourcing.FunFact)
	if !ok {
		return sourcing.FunFact{}, false, fmt.Errorf("unexpected fun fact payload type %T", entry.Payload)
	}
	return fact, !loaded, nil
}

func (s *LookupService) loadFunFact(ctx context.Context, date time.Time, languageTag string) (sourcing.FunFact, sourcing.ProviderID, error) {
	var lastErr error
	for _, source := range s.funFacts {
		if !source.Configured() {
			continue
		}

		s.telemetry.RecordProviderCall(source.ID())
		fact, err := source.FunFactOfDay(ctx, date, languageTag)
		if err != nil {
			s.telemetry.RecordProviderFailure(source.ID())
			s.logger.WarnContext(ctx, "fun fact source failed",
				"provider", source.ID(),
				"error", err,
			)
			lastErr = err
			continue
		}
		return fact, source.ID(), nil
	}

	if lastErr == nil {
		lastErr = ErrNotConfigured
	}
	return sourcing.FunFact{}, "", lastErr
}

func cacheDomainForKind(kind query.Kind) string {
	switch kind {
	case query.KindTeam:
		return cache.DomainTeam
	case query.KindPlayer:
		return cache.DomainPlayer
	case query.KindMatches:
		return cache.DomainMatches
	case query.KindTranslation:
		return cache.DomainTranslation
	default:
		return cache.DomainKeyword
	}
}
