// Package searchclient calls the external uniform-cost search service.
//
// The service receives the graph, start node and goal nodes and answers with
// the best path and the step trace that produced it. Every call goes through
// a circuit breaker; failures are reported as domain.ErrSearchService and are
// never retried.
package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ucsboard/internal/domain"
	"ucsboard/internal/logging"
	"ucsboard/internal/metrics"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	searchPath = "/api/search"

	// maxResponseBytes caps the size of a decoded search response
	maxResponseBytes = 32 << 20
)

// Config configures the search client
type Config struct {
	URL         string
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Client is an HTTP client for the search service
type Client struct {
	endpoint string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

// New creates a search client for the service at cfg.URL
func New(cfg Config, logger *zap.Logger, m *metrics.Collector) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid search service URL %q", cfg.URL)
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	logger = logging.OrNop(logger).With(zap.String("component", "searchclient"))

	c := &Client{
		endpoint: base.String() + searchPath,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}

	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "search",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			m.BreakerState(int(to))
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about the service
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return c, nil
}

// Endpoint returns the URL searches are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Search posts req to the service and decodes the response
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.do(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.SearchResponse{}, fmt.Errorf("%w: search service unavailable: %v", domain.ErrSearchService, err)
		}
		return domain.SearchResponse{}, err
	}
	return out.(domain.SearchResponse), nil
}

func (c *Client) do(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("%w: %w", domain.ErrSearchService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("search service returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(msg))),
		)
		return domain.SearchResponse{}, fmt.Errorf("%w: status %d", domain.ErrSearchService, resp.StatusCode)
	}

	var out domain.SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return domain.SearchResponse{}, fmt.Errorf("%w: invalid response: %v", domain.ErrSearchService, err)
	}

	c.logger.Debug("search service responded", zap.Int("results", len(out.Results)))
	return out, nil
}
