// Package predict talks to the external calorie-prediction service: one
// JSON POST per submission, no retries, no cancellation beyond the caller's
// context.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request carries the four form values, parsed as floats and keyed exactly
// as the service expects them.
type Request struct {
	Age       float64 `json:"age"`
	Duration  float64 `json:"duration"`
	HeartRate float64 `json:"heart_rate"`
	BodyTemp  float64 `json:"body_temp"`
}

// response decodes the service reply. CaloriesBurnt stays nil when the
// field is absent, which counts as a malformed reply.
type response struct {
	CaloriesBurnt *float64 `json:"calories_burnt"`
}

// Predictor is the behavior the UI layers depend on. The concrete Client
// talks HTTP; tests substitute their own.
type Predictor interface {
	Predict(ctx context.Context, req Request) (float64, error)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration // zero means no client-side timeout
	Logger  *zap.Logger
}

// Client calls the prediction service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Predictor = (*Client)(nil)

// NewClient builds a Client for the service at cfg.BaseURL. A nil logger
// is replaced with a no-op one.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// CloseIdleConnections releases kept-alive connections. Useful when a Client
// is discarded before process exit.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Predict POSTs the values to /predict and returns the calorie estimate.
// Any transport error, non-2xx status, or reply without a numeric
// calories_burnt is an error; callers surface them all with the same
// user-facing text, so the cause only shows up in logs.
func (c *Client) Predict(ctx context.Context, req Request) (float64, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("prediction request failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return 0, fmt.Errorf("call prediction service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		c.logger.Warn("prediction service returned non-ok status",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		return 0, fmt.Errorf("prediction service status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.CaloriesBurnt == nil {
		return 0, fmt.Errorf("response missing calories_burnt")
	}

	c.logger.Debug("prediction succeeded",
		zap.String("request_id", requestID),
		zap.Float64("calories", *out.CaloriesBurnt),
		zap.Duration("elapsed", time.Since(start)))
	return *out.CaloriesBurnt, nil
}
