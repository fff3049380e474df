// Package health checks whether the classification service can be reached.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"SpamCheck/pkg/logger"
	"SpamCheck/pkg/utils"
)

// Status is the outcome of a single reachability check.
type Status struct {
	Timestamp  time.Time
	Reachable  bool
	StatusCode int
	Latency    time.Duration
	Err        error

	// sent is false when the request could not even be built.
	sent bool
}

// String renders a one-line summary for the status bar and the ping command.
func (s Status) String() string {
	if !s.Reachable {
		if s.Err != nil {
			return fmt.Sprintf("unreachable: %v", s.Err)
		}
		return "unreachable"
	}
	return fmt.Sprintf("reachable (HTTP %d, %s)", s.StatusCode, s.Latency.Round(time.Millisecond))
}

// Checker probes a single endpoint.
type Checker struct {
	url        string
	retry      utils.RetryConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewChecker creates a checker for url. A nil logger disables logging.
func NewChecker(url string, retry utils.RetryConfig, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	return &Checker{
		url:        url,
		retry:      retry,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        log,
	}
}

// Check performs one HEAD request. Any HTTP answer, including 405 from a
// POST-only endpoint, means the service is up.
func (c *Checker) Check(ctx context.Context) Status {
	status := Status{Timestamp: time.Now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		status.Err = fmt.Errorf("failed to create request: %w", err)
		return status
	}

	status.sent = true
	resp, err := c.httpClient.Do(req)
	status.Latency = time.Since(status.Timestamp)
	if err != nil {
		status.Err = err
		return status
	}
	resp.Body.Close()

	status.Reachable = true
	status.StatusCode = resp.StatusCode
	return status
}

// Probe retries Check with exponential backoff until the service answers,
// the retry budget is spent or ctx is done.
func (c *Checker) Probe(ctx context.Context) Status {
	var last Status
	attempt := 0

	operation := func() error {
		attempt++
		last = c.Check(ctx)
		if last.Reachable {
			return nil
		}
		if !last.sent {
			return utils.Permanent(last.Err)
		}
		return last.Err
	}
	notify := func(err error, next time.Duration) {
		c.log.Debug("probe %s attempt %d failed: %v (retrying in %s)", c.url, attempt, err, next.Round(time.Millisecond))
	}

	if err := utils.ExecuteWithRetryContext(ctx, operation, c.retry, notify); err != nil {
		last.Reachable = false
		last.Err = err
		c.log.Warn("probe %s gave up after %d attempts: %v", c.url, attempt, err)
		return last
	}

	c.log.Info("probe %s: %s", c.url, last)
	return last
}
