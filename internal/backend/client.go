package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/config"
	"github.com/telecom-ops/admin-console/internal/observability"
)

const (
	AuthorizationHeader = "Authorization"
	ContentTypeHeader   = "Content-Type"
	ContentTypeJSON     = "application/json"
)

// maxErrorBody bounds how much of an error reply is read for its message.
const maxErrorBody = 64 << 10

type contextKey string

const requestIDKey = contextKey("request_id")

// WithRequestID attaches the id forwarded as X-Request-ID on outbound calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// Client issues JSON requests against the backend REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient builds a client. If httpClient is nil a client with the configured
// timeout is used.
func NewClient(cfg config.BackendConfig, httpClient *http.Client, logger *zap.Logger, metrics *observability.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger.Named("backend"),
		metrics:    metrics,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request. header may be nil; in and out may be nil. Network
// failures wrap domain.ErrTransport, non-2xx replies return *HTTPError.
func (c *Client) do(ctx context.Context, endpoint, method, path string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if in != nil && req.Header.Get(ContentTypeHeader) == "" {
		req.Header.Set(ContentTypeHeader, ContentTypeJSON)
	}
	req.Header.Set("Accept", ContentTypeJSON)

	requestID, ok := RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	req.Header.Set(observability.RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendCall(endpoint, 0)
		c.logger.Warn("backend unreachable",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	c.metrics.RecordBackendCall(endpoint, resp.StatusCode)
	c.logger.Debug("backend call",
		zap.String("endpoint", endpoint),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
