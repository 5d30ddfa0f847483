package wiki

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
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/matchlens/matchlens/internal/platform/pacing"
	"github.com/matchlens/matchlens/internal/platform/resilience"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultBaseURL   = "https://%s.wikipedia.org/api/rest_v1"
	defaultUserAgent = "matchlens-api/1.0 (football lookup service)"
	maxResponseBytes = 1 << 20
)

var (
	errWikiTransient = crerr.New("wiki transient failure")
	errWikiNotFound  = crerr.New("wiki page not found")
)

// IsTransient reports whether err is a retriable upstream failure.
func IsTransient(err error) bool {
	return crerr.Is(err, errWikiTransient)
}

// IsNotFound reports whether the encyclopedia has no page for the title.
func IsNotFound(err error) bool {
	return crerr.Is(err, errWikiNotFound)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	Logger     *logging.Logger
	Pacer      *pacing.Pacer
}

// Client reads page summaries from the public encyclopedia REST API. No
// credential is needed, so the client is always configured.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *logging.Logger
	pacer      *pacing.Pacer
	flight     resilience.SingleFlight
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
		httpClient.Timeout = 10 * time.Second
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = pacing.NewPacer(0, nil)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent:  userAgent,
		logger:     logger,
		pacer:      pacer,
	}
}

type summaryPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// Summary fetches the lead summary of the page best matching title. The
// language tag picks the wiki edition; unknown tags fall back to English.
func (c *Client) Summary(ctx context.Context, title, languageTag string) (PageSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return PageSummary{}, fmt.Errorf("title is required")
	}

	endpoint := c.endpointFor(languageTag) + "/page/summary/" + url.PathEscape(titleCase(title, languageTag))
	key := languageTag + ":" + title
	out, err, _ := c.flight.Do(key, func() (any, error) {
		return c.fetchSummary(ctx, endpoint)
	})
	if err != nil {
		return PageSummary{}, err
	}

	summary, ok := out.(PageSummary)
	if !ok {
		return PageSummary{}, fmt.Errorf("unexpected summary payload type %T", out)
	}
	return summary, nil
}

// PageSummary is the normalized page extract.
type PageSummary struct {
	Title       string
	Description string
	Extract     string
	ImageURL    string
}

func (c *Client) fetchSummary(ctx context.Context, endpoint string) (PageSummary, error) {
	if err := c.pacer.AwaitTurn(ctx, string(sourcing.ProviderWiki)); err != nil {
		return PageSummary{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PageSummary{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PageSummary{}, fmt.Errorf("%w: send request: %v", errWikiTransient, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return PageSummary{}, fmt.Errorf("%w: read response body: %v", errWikiTransient, readErr)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return PageSummary{}, errWikiNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return PageSummary{}, fmt.Errorf("%w: status=%d", errWikiTransient, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return PageSummary{}, fmt.Errorf("wiki status=%d", resp.StatusCode)
	}

	var payload summaryPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return PageSummary{}, fmt.Errorf("decode summary payload: %w", err)
	}
	if strings.TrimSpace(payload.Extract) == "" {
		return PageSummary{}, errWikiNotFound
	}

	return PageSummary{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Extract:     strings.TrimSpace(payload.Extract),
		ImageURL:    strings.TrimSpace(payload.Thumbnail.Source),
	}, nil
}

func (c *Client) endpointFor(languageTag string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	lang := strings.ToLower(strings.TrimSpace(languageTag))
	if lang == "" || len(lang) > 3 {
		lang = "en"
	}
	return fmt.Sprintf(defaultBaseURL, lang)
}

// titleCase capitalizes each word the way page titles are written.
func titleCase(raw, languageTag string) string {
	tag, err := language.Parse(languageTag)
	if err != nil {
		tag = language.English
	}
	return cases.Title(tag, cases.NoLower).String(raw)
}
