package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/platform/cache"
	"github.com/matchlens/matchlens/internal/usecase"
)

// UpstreamProxy forwards provider-relative paths to the sports-data API
// with the server-held credential injected.
type UpstreamProxy interface {
	Configured() bool
	Proxy(ctx context.Context, endpoint string) ([]byte, error)
}

type Handler struct {
	lookupService  *usecase.LookupService
	matchesService *usecase.MatchesService
	warmupService  *usecase.WarmupService
	telemetry      *usecase.TelemetryService
	cacheStore     *cache.Store
	upstreamProxy  UpstreamProxy
	seedQueries    []string
	logger         *slog.Logger
	validator      *validator.Validate
}

func NewHandler(
	lookupService *usecase.LookupService,
	matchesService *usecase.MatchesService,
	warmupService *usecase.WarmupService,
	telemetry *usecase.TelemetryService,
	cacheStore *cache.Store,
	upstreamProxy UpstreamProxy,
	seedQueries []string,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		lookupService:  lookupService,
		matchesService: matchesService,
		warmupService:  warmupService,
		telemetry:      telemetry,
		cacheStore:     cacheStore,
		upstreamProxy:  upstreamProxy,
		seedQueries:    seedQueries,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchParams struct {
	Query       string `validate:"required,min=1,max=200"`
	LanguageTag string `validate:"omitempty,max=8"`
	Kind        string `validate:"omitempty,oneof=team player matches translation keyword"`
}

type searchResponseDTO struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	NormalizedText string `json:"normalizedText"`
	LanguageTag    string `json:"languageTag"`
	Confidence     string `json:"confidence"`
	Source         string `json:"source"`
	Available      bool   `json:"available"`
	CacheHit       bool   `json:"cacheHit"`
	Data           any    `json:"data,omitempty"`
	Message        string `json:"message,omitempty"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Search")
	defer span.End()

	params := searchParams{
		Query:       strings.TrimSpace(r.URL.Query().Get("q")),
		LanguageTag: strings.TrimSpace(r.URL.Query().Get("lang")),
		Kind:        strings.TrimSpace(r.URL.Query().Get("kind")),
	}
	if err := h.validator.Struct(params); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	hints := query.Hints{
		LanguageTag: params.LanguageTag,
		ForcedKind:  query.Kind(params.Kind),
	}
	resolution, err := h.lookupService.Search(ctx, params.Query, hints)
	if err != nil {
		h.logger.WarnContext(ctx, "search failed", "query", params.Query, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := searchResponseDTO{
		ID:             resolution.ID,
		Kind:           string(resolution.Intent.Kind),
		NormalizedText: resolution.Intent.NormalizedText,
		LanguageTag:    resolution.Intent.LanguageTag,
		Confidence:     string(resolution.Result.Confidence),
		Source:         string(resolution.Result.Source),
		Available:      resolution.Result.Data != nil,
		CacheHit:       resolution.CacheHit,
		Data:           resolution.Result.Data,
	}
	if !dto.Available {
		dto.Message = "temporarily unavailable"
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

type funFactResponseDTO struct {
	Date     string `json:"date"`
	Text     string `json:"text"`
	CacheHit bool   `json:"cacheHit"`
}

func (h *Handler) FunFactOfDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FunFactOfDay")
	defer span.End()

	languageTag := strings.TrimSpace(r.URL.Query().Get("lang"))
	fact, cached, err := h.lookupService.FunFactOfDay(ctx, languageTag)
	if err != nil {
		h.logger.WarnContext(ctx, "fun fact lookup failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, funFactResponseDTO{
		Date:     fact.Date,
		Text:     fact.Text,
		CacheHit: cached,
	})
}
