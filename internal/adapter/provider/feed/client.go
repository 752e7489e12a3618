// Package feed fetches reference data from the upstream betting feed API.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/guymillicare/parsingHugeData/internal/config"
	"github.com/guymillicare/parsingHugeData/internal/provider"
	"github.com/guymillicare/parsingHugeData/pkg/ctxutil"
)

const maxBodySize = 32 << 20

// ErrUnexpectedStatus is returned for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client fetches sports, countries, tournaments and market definitions.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	maxRetries    uint64
	retryInterval time.Duration
	log           *slog.Logger
}

// NewClient creates a Client from FeedConfig.
func NewClient(cfg config.FeedConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		log:           logger.With("adapter", "feed"),
	}
}

// envelope is the wrapper every feed endpoint responds with.
type envelope[T any] struct {
	Data []T `json:"data"`
}

// Sports fetches GET /sports.
func (c *Client) Sports(ctx context.Context) ([]provider.Sport, error) {
	return fetch[provider.Sport](ctx, c, "/sports", nil)
}

// Countries fetches GET /countries.
func (c *Client) Countries(ctx context.Context) ([]provider.Country, error) {
	return fetch[provider.Country](ctx, c, "/countries", nil)
}

// Tournaments fetches GET /tournaments for one sport/country pair.
// A null or missing data field yields an empty slice.
func (c *Client) Tournaments(ctx context.Context, sportID, countryID string) ([]provider.Tournament, error) {
	q := url.Values{}
	q.Set("sport_id", sportID)
	q.Set("country_id", countryID)
	return fetch[provider.Tournament](ctx, c, "/tournaments", q)
}

// MarketDefinitions fetches GET /market-definitions.
func (c *Client) MarketDefinitions(ctx context.Context) ([]provider.MarketDefinition, error) {
	return fetch[provider.MarketDefinition](ctx, c, "/market-definitions", nil)
}

func fetch[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	body, err := c.get(ctx, reqURL)
	if err != nil {
		c.log.ErrorContext(ctx, "feed request failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, fmt.Errorf("feed: GET %s: %w", path, err)
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("feed: decode %s: %w", path, err)
	}

	c.log.DebugContext(ctx, "feed response", slog.String("path", path), slog.Int("items", len(env.Data)))

	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

// get performs the request with constant backoff on network errors and 5xx.
// 4xx responses are permanent failures.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if runID := ctxutil.RunIDFromCtx(ctx); runID != "" {
			req.Header.Set("X-Request-ID", runID)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
			if resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryInterval), c.maxRetries),
		ctx,
	)

	notify := func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "feed retry",
			slog.String("phase", ctxutil.PhaseFromCtx(ctx)),
			slog.String("url", reqURL),
			slog.String("reason", err.Error()),
			slog.Duration("wait", wait),
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}
