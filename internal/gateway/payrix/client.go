// Package payrix is the acquiring-gateway adapter: a small authenticated
// REST helper plus the entity/merchant calls built on it. Upstream failures
// are translated into the uniform provider error shape; callers never see
// the raw transport error.
package payrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/intelebee/connect/internal/config"
	domainErrors "github.com/intelebee/connect/internal/domain/errors"
	"github.com/intelebee/connect/internal/infrastructure/observability"
)

// Response is the provider's JSON envelope. Data is kept raw so each caller
// decodes only the shape it expects.
type Response struct {
	Data json.RawMessage `json:"data"`
}

// Client issues authenticated JSON calls against the acquiring-gateway REST
// API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// NewClient builds a client from the injected configuration. Metrics may be
// nil.
func NewClient(cfg config.PayrixConfig, logger zerolog.Logger, metrics *observability.Metrics) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Do issues one authenticated request. The body, when non-nil, is sent as
// JSON. A non-2xx response or transport failure comes back as a
// *errors.ProviderError carrying the upstream status and body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("APIKEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, start, true)
		c.logger.Error().Str("method", method).Str("path", path).Err(err).Msg("payrix transport failure")
		return nil, domainErrors.NewProviderError(0, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, path, start, true)
		return nil, domainErrors.NewProviderError(0, fmt.Sprintf("%s %s failed", method, path), err)
	}

	if resp.StatusCode >= 400 {
		c.observe(method, path, start, true)
		msg := upstreamMessage(raw)
		if msg == "" {
			msg = fmt.Sprintf("%s %s failed", method, path)
		}
		c.logger.Error().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("payrix request rejected")
		return nil, &domainErrors.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Details:    json.RawMessage(raw),
		}
	}

	c.observe(method, path, start, false)

	out := &Response{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			// Some endpoints return the payload bare, without the envelope.
			out.Data = json.RawMessage(raw)
		}
	}
	return out, nil
}

// DecodeList decodes the envelope data as a list, coercing any non-list
// shape to an empty list.
func DecodeList[T any](resp *Response) []T {
	if resp == nil || len(resp.Data) == 0 {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(resp.Data, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func upstreamMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func (c *Client) observe(method, path string, start time.Time, failed bool) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if failed {
		outcome = "error"
	}
	op := method + " " + routePattern(path)
	c.metrics.ProviderCallsTotal.WithLabelValues("payrix", op, outcome).Inc()
	c.metrics.ProviderCallDuration.WithLabelValues("payrix", op).Observe(time.Since(start).Seconds())
}

// routePattern collapses path ids so metric labels stay low-cardinality.
func routePattern(path string) string {
	parts := strings.Split(path, "/")
	for i := 2; i < len(parts); i += 2 {
		if parts[i] != "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
