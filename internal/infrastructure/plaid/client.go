package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fintrack/internal/shared/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	apiVersion     = "2020-09-14"
	defaultTimeout = 30 * time.Second

	linkTokenCreatePath = "/link/token/create"
	tokenExchangePath   = "/item/public_token/exchange"
	accountsPath        = "/accounts/get"
	balancesPath        = "/accounts/balance/get"
	transactionsPath    = "/transactions/sync"
	liabilitiesPath     = "/liabilities/get"
	itemRemovePath      = "/item/remove"
)

var environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Client talks to the aggregator REST API. Every call waits on a shared
// rate limiter and runs under its own deadline.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	secret       string
	clientName   string
	products     []string
	countryCodes []string
	timeout      time.Duration
	limiter      *rate.Limiter
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

type Option func(*Client)

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg config.PlaidConfig, opts ...Option) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:      environments[cfg.Env],
		clientID:     cfg.ClientID,
		secret:       cfg.Secret,
		clientName:   cfg.ClientName,
		products:     cfg.Products,
		countryCodes: cfg.CountryCodes,
		timeout:      timeout,
		limiter:      rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenBody struct {
	ClientName   string        `json:"client_name"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
	Products     []string      `json:"products"`
	User         linkTokenUser `json:"user"`
	RedirectURI  string        `json:"redirect_uri,omitempty"`
}

func (c *Client) CreateLinkToken(ctx context.Context, req LinkTokenRequest) (*LinkTokenResponse, error) {
	body := linkTokenBody{
		ClientName:   c.clientName,
		Language:     "en",
		CountryCodes: c.countryCodes,
		Products:     c.products,
		User:         linkTokenUser{ClientUserID: req.ClientUserID},
		RedirectURI:  req.RedirectURI,
	}

	var resp LinkTokenResponse
	if err := c.post(ctx, linkTokenCreatePath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	body := map[string]string{"public_token": publicToken}

	var resp ExchangeResponse
	if err := c.post(ctx, tokenExchangePath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	var resp AccountsResponse
	if err := c.post(ctx, accountsPath, accessTokenBody(accessToken), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetBalances(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	var resp AccountsResponse
	if err := c.post(ctx, balancesPath, accessTokenBody(accessToken), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncTransactions fetches one page of the feed. An empty cursor requests the
// first page and is left out of the request.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*TransactionsSyncResponse, error) {
	body := accessTokenBody(accessToken)
	if cursor != "" {
		body["cursor"] = cursor
	}

	var resp TransactionsSyncResponse
	if err := c.post(ctx, transactionsPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetLiabilities(ctx context.Context, accessToken string) (*LiabilitiesResponse, error) {
	var resp LiabilitiesResponse
	if err := c.post(ctx, liabilitiesPath, accessTokenBody(accessToken), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	var resp struct {
		RequestID string `json:"request_id"`
	}
	return c.post(ctx, itemRemovePath, accessTokenBody(accessToken), &resp)
}

func accessTokenBody(accessToken string) map[string]string {
	return map[string]string{"access_token": accessToken}
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PLAID-CLIENT-ID", c.clientID)
	req.Header.Set("PLAID-SECRET", c.secret)
	req.Header.Set("Plaid-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
