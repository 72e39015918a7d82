package gateway

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

	"agrimarket/internal/logger"
	"agrimarket/internal/metrics"

	"go.uber.org/zap"
)

// Client performs single-attempt JSON calls against the marketplace backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	stats      *metrics.Set
}

type Option func(*Client)

func WithMetrics(s *metrics.Set) Option {
	return func(c *Client) { c.stats = s }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		logger.L().Warn("gateway base URL is empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		stats: metrics.NewSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ----------------- Generic operations -----------------

func (c *Client) FetchCollection(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) FetchOne(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

func (c *Client) Create(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, payload, out)
}

func (c *Client) Update(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, payload, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ----------------- Transport -----------------

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	op := method + " " + path
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("op", op),
	)
	timer := metrics.StartTimer()
	c.stats.Counter("gateway.requests").Inc()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Error("failed to marshal payload", zap.Error(err))
			return fmt.Errorf("%s: marshal payload: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.Counter("gateway.failures.network").Inc()
		log.Warn("backend unreachable", zap.Error(err), zap.Duration("duration", timer.Duration()))
		return &Error{Kind: KindNetwork, Op: op, Message: "Unable to reach the server. Please check your connection.", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.stats.Counter("gateway.failures.network").Inc()
		log.Warn("failed to read response body", zap.Error(err))
		return &Error{Kind: KindNetwork, Op: op, Status: resp.StatusCode, Message: "Unable to read the server response.", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.stats.Counter("gateway.failures.application").Inc()
		kind := KindApplication
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		msg := backendMessage(respBody, resp.StatusCode)
		log.Warn("backend returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
			zap.Duration("duration", timer.Duration()),
		)
		return &Error{Kind: kind, Op: op, Status: resp.StatusCode, Message: msg}
	}

	log.Debug("backend call succeeded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", timer.Duration()),
	)

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		log.Error("failed decoding response", zap.Error(err))
		return &Error{Kind: KindApplication, Op: op, Status: resp.StatusCode, Message: "Unexpected response from server.", Err: err}
	}
	return nil
}

// Stats exposes the request counters.
func (c *Client) Stats() *metrics.Set {
	return c.stats
}

func backendMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}

// envelope decodes either {"<key>": {...}} or the bare record.
type envelope[T any] struct {
	key    string
	record T
}

func (e *envelope[T]) UnmarshalJSON(data []byte) error {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if inner, ok := wrapped[e.key]; ok {
			return json.Unmarshal(inner, &e.record)
		}
	}
	return json.Unmarshal(data, &e.record)
}

func escape(id string) string {
	return url.PathEscape(id)
}
