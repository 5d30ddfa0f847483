package videosearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/matchlens/matchlens/internal/platform/pacing"
	"github.com/valyala/fasthttp"
)

const defaultTimeout = 5 * time.Second

var errVideoTransient = crerr.New("video search transient failure")

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *logging.Logger
	Pacer   *pacing.Pacer
}

// Client finds highlight clips for finished matches. Decoration is strictly
// best effort: the caller drops the link on any failure.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *logging.Logger
	pacer   *pacing.Pacer
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pacer := cfg.Pacer
	if pacer == nil {
		pacer = pacing.NewPacer(0, nil)
	}

	return &Client{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		logger:  logger,
		pacer:   pacer,
	}
}

// Configured requires both an endpoint and a key.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// HighlightURL searches for a highlights clip of the given match and
// returns the first hit.
func (c *Client) HighlightURL(ctx context.Context, match sourcing.Match) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("video search is not configured")
	}
	if err := c.pacer.AwaitTurn(ctx, string(sourcing.ProviderVideoSearch)); err != nil {
		return "", err
	}

	values := url.Values{}
	values.Set("q", fmt.Sprintf("%s vs %s highlights", match.HomeTeam, match.AwayTeam))
	values.Set("key", c.apiKey)
	values.Set("limit", "1")

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/search?" + values.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return "", fmt.Errorf("%w: send request: %v", errVideoTransient, err)
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusTooManyRequests || status >= 500 {
		return "", fmt.Errorf("%w: status=%d", errVideoTransient, status)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("video search status=%d", status)
	}

	var payload searchResponse
	if err := sonic.Unmarshal(resp.Body(), &payload); err != nil {
		return "", fmt.Errorf("decode video search payload: %w", err)
	}
	for _, item := range payload.Items {
		if link := strings.TrimSpace(item.URL); link != "" {
			return link, nil
		}
	}
	return "", fmt.Errorf("no highlight found for match %d", match.ID)
}
