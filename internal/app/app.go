package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchlens/matchlens/external/aimodel"
	"github.com/matchlens/matchlens/external/footballdata"
	"github.com/matchlens/matchlens/external/videosearch"
	"github.com/matchlens/matchlens/external/wiki"
	"github.com/matchlens/matchlens/internal/config"
	"github.com/matchlens/matchlens/internal/domain/competition"
	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/infrastructure/snapshot"
	"github.com/matchlens/matchlens/internal/infrastructure/statictable"
	"github.com/matchlens/matchlens/internal/interfaces/httpapi"
	"github.com/matchlens/matchlens/internal/platform/cache"
	idgen "github.com/matchlens/matchlens/internal/platform/id"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/matchlens/matchlens/internal/platform/pacing"
	"github.com/matchlens/matchlens/internal/platform/resilience"
	"github.com/matchlens/matchlens/internal/usecase"
)

// App bundles the HTTP server with the background pieces that share its
// lifecycle: the cache store and the optional Postgres snapshot loop.
type App struct {
	Server *http.Server

	cacheStore       *cache.Store
	snapshots        *snapshot.Store
	snapshotDB       *sqlx.DB
	snapshotInterval time.Duration
	logger           *logging.Logger
	stopSnapshots    chan struct{}
	snapshotsDone    chan struct{}
}

func New(cfg config.Config, slogger *slog.Logger, logger *logging.Logger) (*App, error) {
	if slogger == nil {
		slogger = slog.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}

	pacer := pacing.NewPacer(cfg.PacerDefaultInterval, map[string]time.Duration{
		string(sourcing.ProviderFootballData): cfg.FootballDataMinInterval,
		string(sourcing.ProviderAIModel):      cfg.AIModelMinInterval,
		string(sourcing.ProviderWiki):         cfg.WikiMinInterval,
	})

	store := cache.NewStore()
	telemetry := usecase.NewTelemetryService()

	footballToken := ""
	if cfg.FootballDataEnabled {
		footballToken = cfg.FootballDataToken
	}
	footballClient := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      footballToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
		Pacer: pacer,
	})
	footballProvider := footballdata.NewProvider(footballClient)

	aiClient := aimodel.NewClient(aimodel.ClientConfig{
		BaseURL: cfg.AIModelBaseURL,
		APIKey:  cfg.AIModelAPIKey,
		Model:   cfg.AIModelModel,
		Timeout: cfg.AIModelTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AIModelCircuitEnabled,
			FailureThreshold: cfg.AIModelCircuitFailureCount,
			OpenTimeout:      cfg.AIModelCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AIModelCircuitHalfOpenMaxReq,
		},
		Pacer: pacer,
	})
	aiProvider := aimodel.NewProvider(aiClient)

	wikiClient := wiki.NewClient(wiki.ClientConfig{
		BaseURL:   cfg.WikiBaseURL,
		UserAgent: cfg.WikiUserAgent,
		Timeout:   cfg.WikiTimeout,
		Logger:    logger,
		Pacer:     pacer,
	})
	wikiProvider := wiki.NewProvider(wikiClient)

	videoClient := videosearch.NewClient(videosearch.ClientConfig{
		BaseURL: cfg.VideoSearchBaseURL,
		APIKey:  cfg.VideoSearchAPIKey,
		Timeout: cfg.VideoSearchTimeout,
		Logger:  logger,
		Pacer:   pacer,
	})

	staticProvider := statictable.NewProvider()

	chains := map[query.Kind][]sourcing.Provider{
		query.KindTeam:        {footballProvider, wikiProvider, aiProvider, staticProvider},
		query.KindPlayer:      {footballProvider, wikiProvider, aiProvider, staticProvider},
		query.KindMatches:     {footballProvider, staticProvider},
		query.KindTranslation: {aiProvider, staticProvider},
		query.KindKeyword:     {aiProvider, staticProvider},
	}

	router := usecase.NewRouterService(chains, telemetry, logger)
	lookup := usecase.NewLookupService(
		usecase.NewClassifierService(),
		router,
		store,
		telemetry,
		[]usecase.FunFactSource{aiProvider, staticProvider},
		idgen.NewRandomGenerator(),
		logger,
	)
	matches := usecase.NewMatchesService(
		footballProvider,
		videoClient,
		store,
		telemetry,
		logger,
		competition.Default(),
	)
	warmup := usecase.NewWarmupService(lookup, matches, logger, cfg.WarmupWorkers)

	handler := httpapi.NewHandler(
		lookup,
		matches,
		warmup,
		telemetry,
		store,
		footballClient,
		cfg.WarmupSeedQueries,
		slogger,
	)
	mux := httpapi.NewRouter(handler, slogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{
		Server:           server,
		cacheStore:       store,
		snapshotInterval: cfg.SnapshotInterval,
		logger:           logger,
		stopSnapshots:    make(chan struct{}),
		snapshotsDone:    make(chan struct{}),
	}

	if cfg.SnapshotEnabled() {
		db, err := snapshot.Open(cfg.SnapshotDBURL, dbNameFromURL(cfg.SnapshotDBURL))
		if err != nil {
			return nil, err
		}
		a.snapshotDB = db
		a.snapshots = snapshot.NewStore(db, logger)
	}

	return a, nil
}

// RestoreCache loads the last persisted snapshot into the in-memory store.
// A failed restore only means a cold start, so errors are logged, not
// returned.
func (a *App) RestoreCache(ctx context.Context) {
	if a.snapshots == nil {
		return
	}

	entries, err := a.snapshots.Load(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "cache snapshot restore failed, starting cold", "error", err)
		return
	}
	restored := a.cacheStore.Restore(entries)
	a.logger.InfoContext(ctx, "cache snapshot restored", "entries", restored)
}

// StartSnapshotLoop periodically persists the cache. No-op when snapshots
// are not configured.
func (a *App) StartSnapshotLoop(ctx context.Context) {
	if a.snapshots == nil {
		close(a.snapshotsDone)
		return
	}

	go func() {
		defer close(a.snapshotsDone)

		ticker := time.NewTicker(a.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-a.stopSnapshots:
				return
			case <-ticker.C:
				if err := a.snapshots.Save(ctx, a.cacheStore.Export()); err != nil {
					a.logger.WarnContext(ctx, "cache snapshot save failed", "error", err)
				}
			}
		}
	}()
}

// Shutdown stops the snapshot loop, writes a final snapshot and releases
// the database handle. The HTTP server is shut down by the caller.
func (a *App) Shutdown(ctx context.Context) error {
	close(a.stopSnapshots)
	select {
	case <-a.snapshotsDone:
	case <-ctx.Done():
	}

	if a.snapshots == nil {
		return nil
	}

	if err := a.snapshots.Save(ctx, a.cacheStore.Export()); err != nil {
		a.logger.WarnContext(ctx, "final cache snapshot failed", "error", err)
	}
	return a.snapshotDB.Close()
}
