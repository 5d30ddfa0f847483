package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchlens/matchlens/internal/usecase"
)

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStats")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.telemetry.Snapshot())
}

func (h *Handler) ResetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetStats")
	defer span.End()

	dropped := h.telemetry.Reset()
	h.logger.InfoContext(ctx, "telemetry reset", "dropped_routed", dropped)

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"reset":         true,
		"droppedRouted": dropped,
	})
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearCache")
	defer span.End()

	prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))

	var removed int
	if prefix == "" {
		removed = h.cacheStore.Clear(ctx)
	} else {
		removed = h.cacheStore.InvalidatePrefix(ctx, prefix)
	}
	h.logger.InfoContext(ctx, "cache cleared", "prefix", prefix, "removed", removed)

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"removed": removed,
		"prefix":  prefix,
	})
}

func (h *Handler) RunWarmupJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmupJob")
	defer span.End()

	if h.warmupService == nil {
		writeError(ctx, w, fmt.Errorf("%w: warmup service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.warmupService.Run(ctx, h.seedQueries)
	if err != nil {
		h.logger.WarnContext(ctx, "warmup job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
