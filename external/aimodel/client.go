package aimodel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/matchlens/matchlens/internal/platform/pacing"
	"github.com/matchlens/matchlens/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-haiku-latest"
	apiVersion       = "2023-06-01"
	maxAnswerTokens  = 1024
	maxResponseBytes = 1 << 20
)

var (
	errModelTransient = crerr.New("ai model transient failure")
	errModelRejected  = crerr.New("ai model rejected request")
)

// IsTransient reports whether err is a retriable upstream failure.
func IsTransient(err error) bool {
	return crerr.Is(err, errModelTransient)
}

// IsRejected reports whether the model refused the request outright.
func IsRejected(err error) bool {
	return crerr.Is(err, errModelRejected)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Pacer          *pacing.Pacer
}

// Client talks to an Anthropic-compatible messages endpoint and coerces
// every answer into strict JSON the service can cache.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
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
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = pacing.NewPacer(0, nil)
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          model,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		pacer:          pacer,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// EnrichTeam asks the model for a team profile.
func (c *Client) EnrichTeam(ctx context.Context, name, languageTag string) (sourcing.TeamProfile, error) {
	prompt := fmt.Sprintf(
		`Return a JSON object describing the football team %q with keys: name, shortName, country, founded (number), venue, summary (two sentences, language %q). Respond with JSON only.`,
		name, languageTag,
	)

	var profile sourcing.TeamProfile
	if err := c.complete(ctx, prompt, &profile); err != nil {
		return sourcing.TeamProfile{}, err
	}
	if strings.TrimSpace(profile.Name) == "" {
		return sourcing.TeamProfile{}, fmt.Errorf("%w: empty team profile", errModelRejected)
	}
	return profile, nil
}

// EnrichPlayer asks the model for a player profile.
func (c *Client) EnrichPlayer(ctx context.Context, name, languageTag string) (sourcing.PlayerProfile, error) {
	prompt := fmt.Sprintf(
		`Return a JSON object describing the football player %q with keys: name, nationality, position, birthDate (YYYY-MM-DD), currentTeam, summary (two sentences, language %q). Respond with JSON only.`,
		name, languageTag,
	)

	var profile sourcing.PlayerProfile
	if err := c.complete(ctx, prompt, &profile); err != nil {
		return sourcing.PlayerProfile{}, err
	}
	if strings.TrimSpace(profile.Name) == "" {
		return sourcing.PlayerProfile{}, fmt.Errorf("%w: empty player profile", errModelRejected)
	}
	return profile, nil
}

// Translate renders a display string into the target language.
func (c *Client) Translate(ctx context.Context, key, text, languageTag string) (sourcing.Translation, error) {
	prompt := fmt.Sprintf(
		`Translate the football UI string %q into language %q. Return a JSON object with keys: key (value %q), languageTag, text. Respond with JSON only.`,
		text, languageTag, key,
	)

	var translation sourcing.Translation
	if err := c.complete(ctx, prompt, &translation); err != nil {
		return sourcing.Translation{}, err
	}
	if strings.TrimSpace(translation.Text) == "" {
		return sourcing.Translation{}, fmt.Errorf("%w: empty translation", errModelRejected)
	}
	translation.Key = key
	translation.LanguageTag = languageTag
	return translation, nil
}

// FunFactOfDay generates the daily trivia item.
func (c *Client) FunFactOfDay(ctx context.Context, date time.Time, languageTag string) (sourcing.FunFact, error) {
	day := date.UTC().Format("2006-01-02")
	prompt := fmt.Sprintf(
		`Give one surprising football history fact connected to the date %s, in language %q, at most 280 characters. Return a JSON object with keys: date (value %q), text. Respond with JSON only.`,
		day, languageTag, day,
	)

	var fact sourcing.FunFact
	if err := c.complete(ctx, prompt, &fact); err != nil {
		return sourcing.FunFact{}, err
	}
	if strings.TrimSpace(fact.Text) == "" {
		return sourcing.FunFact{}, fmt.Errorf("%w: empty fun fact", errModelRejected)
	}
	fact.Date = day
	return fact, nil
}

// Answer handles free-form keyword questions.
func (c *Client) Answer(ctx context.Context, question, languageTag string) (sourcing.KeywordAnswer, error) {
	prompt := fmt.Sprintf(
		`Answer the football question %q in language %q, at most three sentences. Return a JSON object with keys: query (the question), answer. Respond with JSON only.`,
		question, languageTag,
	)

	var answer sourcing.KeywordAnswer
	if err := c.complete(ctx, prompt, &answer); err != nil {
		return sourcing.KeywordAnswer{}, err
	}
	if strings.TrimSpace(answer.Answer) == "" {
		return sourcing.KeywordAnswer{}, fmt.Errorf("%w: empty answer", errModelRejected)
	}
	answer.Query = question
	return answer, nil
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []messagePayload `json:"messages"`
}

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// complete sends one prompt and decodes the model's JSON answer into out.
func (c *Client) complete(ctx context.Context, prompt string, out any) error {
	if !c.Configured() {
		return fmt.Errorf("%w: api key is not configured", errModelRejected)
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ai model circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: model provider is temporarily unavailable", errModelTransient)
		}
	}
	if err := c.pacer.AwaitTurn(ctx, string(sourcing.ProviderAIModel)); err != nil {
		return err
	}

	payload := messagesRequest{
		Model:     c.model,
		MaxTokens: maxAnswerTokens,
		Messages:  []messagePayload{{Role: "user", Content: prompt}},
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode model request: %w", err)
	}
	_, _ = buf.Write(encoded)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", strings.NewReader(buf.String()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordOutcome(false)
		return fmt.Errorf("%w: send request: %s", errModelTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		c.recordOutcome(false)
		return fmt.Errorf("%w: read response body: %v", errModelTransient, readErr)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		c.recordOutcome(false)
		return fmt.Errorf("%w: model status=%d", errModelTransient, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.recordOutcome(true)
		return fmt.Errorf("%w: model status=%d body=%s", errModelRejected, resp.StatusCode, abbreviateBody(raw))
	}
	c.recordOutcome(true)

	var envelope messagesResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode model envelope: %w", err)
	}

	text := extractText(envelope)
	if text == "" {
		return fmt.Errorf("%w: model returned no text content", errModelRejected)
	}
	if err := sonic.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: model answer is not valid JSON: %v", errModelRejected, err)
	}
	return nil
}

func (c *Client) recordOutcome(success bool) {
	if !c.circuitEnabled {
		return
	}
	if success {
		c.breaker.RecordSuccess()
		return
	}
	c.breaker.RecordFailure()
}

// extractText joins the text blocks and strips a markdown code fence when
// the model wraps its JSON despite instructions.
func extractText(envelope messagesResponse) string {
	var parts []string
	for _, block := range envelope.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if value == "" || secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return body
}
