package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchlens/matchlens/internal/domain/competition"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/matchlens/matchlens/internal/platform/pacing"
	"github.com/matchlens/matchlens/internal/platform/resilience"
)

const (
	defaultBaseURL   = "https://api.football-data.org/v4"
	maxResponseBytes = 4 << 20
	dateLayout       = "2006-01-02"
)

var errFootballDataTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Pacer          *pacing.Pacer
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	pacer          *pacing.Pacer
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = pacing.NewPacer(0, nil)
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		pacer:          pacer,
	}
}

// Configured reports whether an API token is present. Without one every
// call fails fast and the caller falls back to other sources.
func (c *Client) Configured() bool {
	return c.token != ""
}

// MatchesByCompetition lists fixtures for one competition code between two
// dates, already mapped to the service's match shape.
func (c *Client) MatchesByCompetition(ctx context.Context, comp competition.ID, from, to time.Time) ([]sourcing.Match, error) {
	code := strings.TrimSpace(string(comp))
	if code == "" || comp == competition.Other {
		return nil, fmt.Errorf("competition code is required")
	}

	path := fmt.Sprintf("/competitions/%s/matches", code)
	query := map[string]string{
		"dateFrom": from.UTC().Format(dateLayout),
		"dateTo":   to.UTC().Format(dateLayout),
	}

	var envelope matchesEnvelope
	if _, err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matches competition=%s: %w", code, err)
	}

	out := make([]sourcing.Match, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		mapped, ok := mapMatch(item)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

// SearchTeam finds the best-matching team by free-text name.
func (c *Client) SearchTeam(ctx context.Context, name string) (sourcing.TeamProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sourcing.TeamProfile{}, fmt.Errorf("team name is required")
	}

	var envelope teamsEnvelope
	if _, err := c.doJSON(ctx, "/teams", map[string]string{"name": name}, &envelope); err != nil {
		return sourcing.TeamProfile{}, fmt.Errorf("search team %q: %w", name, err)
	}

	item, ok := pickTeam(envelope.Teams, name)
	if !ok {
		return sourcing.TeamProfile{}, errNoMatch
	}
	return mapTeam(item), nil
}

// SearchPerson finds the best-matching player by free-text name.
func (c *Client) SearchPerson(ctx context.Context, name string) (sourcing.PlayerProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sourcing.PlayerProfile{}, fmt.Errorf("person name is required")
	}

	var envelope personsEnvelope
	if _, err := c.doJSON(ctx, "/persons", map[string]string{"name": name}, &envelope); err != nil {
		return sourcing.PlayerProfile{}, fmt.Errorf("search person %q: %w", name, err)
	}

	item, ok := pickPerson(envelope.Persons, name)
	if !ok {
		return sourcing.PlayerProfile{}, errNoMatch
	}
	return mapPerson(item), nil
}

// Proxy performs a raw GET against the upstream API and returns the body
// untouched. The endpoint is a path relative to the API root.
func (c *Client) Proxy(ctx context.Context, endpoint string) ([]byte, error) {
	endpoint = "/" + strings.TrimLeft(strings.TrimSpace(endpoint), "/")
	if endpoint == "/" {
		return nil, fmt.Errorf("endpoint is required")
	}
	return c.doRaw(ctx, endpoint, nil)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	raw, err := c.doRaw(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}
	return raw, nil
}

func (c *Client) doRaw(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: football data provider is temporarily unavailable", errFootballDataTransient)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.pacer.AwaitTurn(ctx, string(sourcing.ProviderFootballData)); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("X-Auth-Token", c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// IsTransient reports whether err is worth retrying against this provider.
func IsTransient(err error) bool {
	return crerr.Is(err, errFootballDataTransient)
}

func isCircuitFailure(err error) bool {
	return IsTransient(err)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
