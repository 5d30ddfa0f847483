package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/usecase"
)

// matchesEnvelope is the legacy wire shape of the matches endpoint, kept
// as-is for existing consumers.
type matchesEnvelope struct {
	Success   bool               `json:"success"`
	Type      string             `json:"type,omitempty"`
	Data      *matchesPayloadDTO `json:"data,omitempty"`
	Timestamp string             `json:"timestamp,omitempty"`
	Error     string             `json:"error,omitempty"`
	Message   string             `json:"message,omitempty"`
}

type matchesPayloadDTO struct {
	Matches []sourcing.Match            `json:"matches"`
	Groups  []sourcing.CompetitionGroup `json:"groups"`
	Source  string                      `json:"source"`
}

type matchesParams struct {
	Type  string `validate:"required,oneof=weekly latest upcoming"`
	Days  int    `validate:"omitempty,min=0"`
	Limit int    `validate:"omitempty,min=0"`
}

func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Matches")
	defer span.End()

	params := matchesParams{
		Type: strings.TrimSpace(r.URL.Query().Get("type")),
	}
	if params.Type == "" {
		params.Type = string(usecase.MatchesWeekly)
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, matchesEnvelope{
				Success: false,
				Error:   "invalid_request",
				Message: fmt.Sprintf("invalid days %q", raw),
			})
			return
		}
		params.Days = days
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, matchesEnvelope{
				Success: false,
				Error:   "invalid_request",
				Message: fmt.Sprintf("invalid limit %q", raw),
			})
			return
		}
		params.Limit = limit
	}
	if err := h.validator.Struct(params); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, matchesEnvelope{
			Success: false,
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	view, err := h.matchesService.List(ctx, usecase.MatchesRequest{
		Type:  usecase.MatchWindowType(params.Type),
		Days:  params.Days,
		Limit: params.Limit,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			writeJSON(ctx, w, http.StatusBadRequest, matchesEnvelope{
				Success: false,
				Error:   "invalid_request",
				Message: err.Error(),
			})
			return
		}
		h.logger.WarnContext(ctx, "list matches failed", "type", params.Type, "error", err)
		writeJSON(ctx, w, http.StatusServiceUnavailable, matchesEnvelope{
			Success: false,
			Error:   "upstream_unavailable",
			Message: err.Error(),
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchesEnvelope{
		Success: true,
		Type:    string(view.Type),
		Data: &matchesPayloadDTO{
			Matches: view.Matches,
			Groups:  view.Groups,
			Source:  string(view.Source),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// footballDataFallback is the deliberate 200-status degrade shape when no
// upstream credential is configured. Callers treat it as "no data", not as
// an outage.
type footballDataFallback struct {
	Error    string `json:"error"`
	Fallback bool   `json:"fallback"`
	Matches  []any  `json:"matches"`
}

func (h *Handler) FootballDataProxy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FootballDataProxy")
	defer span.End()

	if h.upstreamProxy == nil || !h.upstreamProxy.Configured() {
		writeJSON(ctx, w, http.StatusOK, footballDataFallback{
			Error:    "API key not configured",
			Fallback: true,
			Matches:  []any{},
		})
		return
	}

	endpoint := strings.TrimSpace(r.URL.Query().Get("endpoint"))
	if endpoint == "" {
		writeError(ctx, w, fmt.Errorf("%w: endpoint query parameter is required", usecase.ErrInvalidInput))
		return
	}

	body, err := h.upstreamProxy.Proxy(ctx, endpoint)
	if err != nil {
		h.logger.WarnContext(ctx, "football data proxy failed", "endpoint", endpoint, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err))
		return
	}

	var payload any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		h.logger.WarnContext(ctx, "football data proxy returned malformed body", "endpoint", endpoint, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: malformed upstream body", usecase.ErrDependencyUnavailable))
		return
	}

	writeJSON(ctx, w, http.StatusOK, payload)
}
