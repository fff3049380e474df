// Package classifier talks to the remote spam classification service.
//
// The contract is a single endpoint: POST {"message": "..."} and receive
// {"prediction": "spam"|"ham"}. Non-2xx answers may carry {"error": "..."}.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SpamCheck/pkg/logger"

	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// Predictor is what the form needs from a classification backend.
type Predictor interface {
	Predict(ctx context.Context, message string) (*Prediction, error)
	Endpoint() string
}

// Config configures a Client.
type Config struct {
	URL       string
	AuthToken string
	Timeout   time.Duration // zero means no per-request timeout
}

// Client sends messages to the classification service. It never retries:
// a failed prediction is reported and the user resubmits.
type Client struct {
	url        string
	authToken  string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a client. A nil logger disables logging.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		url:       cfg.URL,
		authToken: cfg.AuthToken,
		timeout:   cfg.Timeout,
		// Cancellation and timeouts are handled via request context.
		httpClient: &http.Client{},
		log:        log,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Endpoint returns the URL predictions are posted to.
func (c *Client) Endpoint() string { return c.url }

// Predict classifies message. Blank messages fail with ErrEmptyMessage
// without touching the network.
func (c *Client) Predict(ctx context.Context, message string) (*Prediction, error) {
	if err := ValidateMessage(message); err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(PredictRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	c.log.Debug("[%s] POST %s (%d chars)", requestID, c.url, len(message))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("[%s] request failed: %v", requestID, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Detail: parseErrorDetail(body)}
		c.log.Warn("[%s] %s after %s", requestID, statusErr, latency)
		return nil, statusErr
	}

	var parsed PredictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.log.Error("[%s] undecodable response: %v", requestID, err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.TrimSpace(parsed.Prediction) == "" {
		c.log.Error("[%s] %v", requestID, ErrMissingPrediction)
		return nil, ErrMissingPrediction
	}

	c.log.Info("[%s] prediction=%q status=%d latency=%s", requestID, parsed.Prediction, resp.StatusCode, latency)

	return &Prediction{
		Label:     parsed.Prediction,
		Message:   message,
		RequestID: requestID,
		Latency:   latency,
	}, nil
}
