package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/logging"
)

// Fallback messages used when the service gives no reason of its own.
const (
	FallbackInfo         = "Failed to fetch API information"
	FallbackAccounts     = "Failed to fetch accounts"
	FallbackBalance      = "Failed to fetch account balance"
	FallbackTransactions = "Failed to fetch transactions"
	FallbackTransfer     = "Transfer failed. Please try again."
	FallbackFreeze       = "Failed to freeze account"
	FallbackUnfreeze     = "Failed to unfreeze account"
	FallbackInterest     = "Failed to fetch account interest"
	FallbackStatement    = "Failed to fetch account statement"
	FallbackCreate       = "Failed to create account"
)

const maxBodyBytes = 4 << 20

// BreakerConfig tunes the circuit breaker in front of the service.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; zero never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig trips after 5 consecutive upstream failures.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Options configures a Client.
type Options struct {
	BaseURL string
	TeamID  string
	// Timeout bounds each request; ignored when HTTPClient is set.
	Timeout    time.Duration
	HTTPClient *http.Client
	Breaker    BreakerConfig
	Logger     *logging.Logger
}

// Client is the only component that talks to the bank service. Every
// request carries the tenant id as the teamId query parameter.
type Client struct {
	baseURL *url.URL
	teamID  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// New validates opts and builds a client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("bank api base url is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid bank api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid bank api base url %q", opts.BaseURL)
	}
	if opts.TeamID == "" {
		return nil, errors.New("team id is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.L()
	}
	logger = logger.Named("bankapi")

	breaker := opts.Breaker
	if breaker.ConsecutiveFailures == 0 {
		breaker = DefaultBreakerConfig()
	}

	c := &Client{
		baseURL: base,
		teamID:  opts.TeamID,
		http:    httpClient,
		logger:  logger,
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "bank-api",
		MaxRequests: breaker.MaxRequests,
		Interval:    breaker.Interval,
		Timeout:     breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breaker.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var apiErr *Error
			return errors.As(err, &apiErr) && apiErr.Client()
		},
	})
	return c, nil
}

// TeamID returns the tenant identifier attached to every request.
func (c *Client) TeamID() string { return c.teamID }

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Info fetches the service description served at the root path.
func (c *Client) Info(ctx context.Context) (domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, http.MethodGet, "/", "/", nil, &doc, FallbackInfo)
	return doc, err
}

// ListAccounts fetches every account of the tenant.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.list(ctx, "/api/accounts", &accounts, FallbackAccounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetBalance fetches the current balance snapshot of one account.
func (c *Client) GetBalance(ctx context.Context, id int64) (domain.BalanceSnapshot, error) {
	var snap domain.BalanceSnapshot
	err := c.do(ctx, http.MethodGet, accountPath(id, "balance"), "/api/accounts/{id}/balance", nil, &snap, FallbackBalance)
	return snap, err
}

// GetInterest fetches the server's interest calculation for an account.
func (c *Client) GetInterest(ctx context.Context, id int64) (domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, http.MethodGet, accountPath(id, "interest"), "/api/accounts/{id}/interest", nil, &doc, FallbackInterest)
	return doc, err
}

// GetStatement fetches the server's statement for an account.
func (c *Client) GetStatement(ctx context.Context, id int64) (domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, http.MethodGet, accountPath(id, "statement"), "/api/accounts/{id}/statement", nil, &doc, FallbackStatement)
	return doc, err
}

// Freeze marks an account frozen. The service treats repeats as no-ops.
func (c *Client) Freeze(ctx context.Context, id int64) (domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, http.MethodPost, accountPath(id, "freeze"), "/api/accounts/{id}/freeze", nil, &doc, FallbackFreeze)
	return doc, err
}

// Unfreeze marks an account active again.
func (c *Client) Unfreeze(ctx context.Context, id int64) (domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, http.MethodPost, accountPath(id, "unfreeze"), "/api/accounts/{id}/unfreeze", nil, &doc, FallbackUnfreeze)
	return doc, err
}

// ListTransactions fetches every transaction of the tenant.
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := c.list(ctx, "/api/transactions", &txs, FallbackTransactions); err != nil {
		return nil, err
	}
	return txs, nil
}

// Transfer moves money between two accounts.
func (c *Client) Transfer(ctx context.Context, req domain.TransferRequest) (domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, http.MethodPost, "/api/transfer", "/api/transfer", req, &doc, FallbackTransfer)
	return doc, err
}

// CreateAccount opens an account. The tenant id travels in the body as well
// as the query string because the create endpoint reads it from the body.
func (c *Client) CreateAccount(ctx context.Context, holder string, kind domain.AccountType, balance decimal.Decimal) (domain.Account, error) {
	req := domain.CreateAccountRequest{
		AccountHolder: holder,
		AccountType:   kind,
		Balance:       balance,
		TeamID:        c.teamID,
	}
	var acc domain.Account
	err := c.do(ctx, http.MethodPost, "/api/accounts", "/api/accounts", req, &acc, FallbackCreate)
	return acc, err
}

func accountPath(id int64, action string) string {
	return "/api/accounts/" + strconv.FormatInt(id, 10) + "/" + action
}

// list fetches an endpoint whose body must be a JSON array.
func (c *Client) list(ctx context.Context, path string, out any, fallback string) error {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, path, nil, &raw, fallback); err != nil {
		return err
	}
	if len(raw) == 0 || raw[0] != '[' {
		c.logger.Warn("non-array list response", zap.String("endpoint", path))
		return &Error{Message: msgInvalidFormat}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Message: msgInvalidFormat, Err: err}
	}
	return nil
}

// do runs one request through the breaker and records its outcome.
func (c *Client) do(ctx context.Context, method, path, endpoint string, body, out any, fallback string) error {
	start := time.Now()
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, body, out, fallback)
	})
	elapsed := time.Since(start)
	upstreamLatency.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "breaker_open"
		err = &Error{Message: msgUnavailable, Err: err}
	default:
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status != 0 {
			status = strconv.Itoa(apiErr.Status)
		} else {
			status = "transport"
		}
	}
	upstreamRequests.WithLabelValues(method, endpoint, status).Inc()

	if err != nil {
		c.logger.Warn("bank api request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return err
	}
	c.logger.Debug("bank api request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any, fallback string) error {
	u := c.baseURL.JoinPath(path)
	q := u.Query()
	q.Set("teamId", c.teamID)
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fallback, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return &Error{Message: fallback, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Message: fallback, Err: ctxErr}
		}
		return &Error{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		msg := serverMessage(data)
		if msg == "" {
			msg = fallback
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	data = bytes.TrimSpace(data)
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
