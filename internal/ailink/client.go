package ailink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/ailink/driver"
	"github.com/namelens/namesmith/internal/metrics"
	"github.com/namelens/namesmith/internal/observability"
)

// Client sends a composed prompt to a completion driver, retrying transient
// failures with linear backoff.
type Client struct {
	Driver      driver.Driver
	Model       string
	MaxTokens   int
	Temperature *float64

	AttemptTimeout time.Duration
	MaxRetries     int
	BaseDelay      time.Duration

	// Sleep waits between attempts. It returns early with ctx.Err() when
	// the context ends.
	Sleep  func(ctx context.Context, d time.Duration) error
	Now    func() time.Time
	Logger observability.Logger
}

// NewClient builds a Client for a resolved provider using cfg's retry policy.
func NewClient(resolved *ResolvedProvider, cfg Config) *Client {
	c := &Client{
		Driver:         resolved.Driver,
		Model:          resolved.Model,
		MaxTokens:      cfg.MaxTokens,
		Temperature:    cfg.Temperature,
		AttemptTimeout: cfg.AttemptTimeout,
		MaxRetries:     cfg.MaxRetries,
		BaseDelay:      cfg.RetryBaseDelay,
	}
	return c
}

type attemptState int

const (
	stateAttempt attemptState = iota
	stateWait
	stateRetry
	stateFail
)

// Complete returns the completion text for prompt. After the initial attempt
// plus MaxRetries retries have failed it returns a *RetryError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.Driver == nil {
		return "", fmt.Errorf("completion client not configured")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	log := observability.Or(c.Logger)
	maxRetries := c.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	req := &driver.Request{
		Model:       c.Model,
		Messages:    []driver.Message{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens(),
		Temperature: c.Temperature,
		JSONMode:    c.Driver.Capabilities().SupportsJSONMode,
	}

	var (
		attempt int
		lastErr error
		text    string
	)
	state := stateAttempt
	for {
		switch state {
		case stateAttempt:
			start := c.now()
			text, lastErr = c.attempt(ctx, req)
			elapsed := c.now().Sub(start)
			if lastErr == nil {
				metrics.RecordCompletionAttempt(c.Driver.Name(), "success", elapsed)
				return text, nil
			}
			if !retryable(ctx, lastErr) || attempt >= maxRetries {
				metrics.RecordCompletionAttempt(c.Driver.Name(), "failed", elapsed)
				state = stateFail
				continue
			}
			metrics.RecordCompletionAttempt(c.Driver.Name(), "retry", elapsed)
			log.Warn("completion attempt failed",
				zap.String("provider", c.Driver.Name()),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
			state = stateWait

		case stateWait:
			delay := c.baseDelay() * time.Duration(attempt+1)
			if err := c.sleep(ctx, delay); err != nil {
				lastErr = err
				state = stateFail
				continue
			}
			state = stateRetry

		case stateRetry:
			attempt++
			state = stateAttempt

		case stateFail:
			log.Error("completion failed",
				zap.String("provider", c.Driver.Name()),
				zap.Int("attempts", attempt+1),
				zap.Error(lastErr))
			return "", &RetryError{Attempts: attempt + 1, Err: lastErr}
		}
	}
}

func (c *Client) attempt(ctx context.Context, req *driver.Request) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout())
	defer cancel()

	resp, err := c.Driver.Complete(attemptCtx, req)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("%s returned no response", c.Driver.Name())
	}
	return resp.Text, nil
}

func (c *Client) attemptTimeout() time.Duration {
	if c.AttemptTimeout > 0 {
		return c.AttemptTimeout
	}
	return DefaultAttemptTimeout
}

func (c *Client) baseDelay() time.Duration {
	if c.BaseDelay > 0 {
		return c.BaseDelay
	}
	return DefaultRetryBaseDelay
}

func (c *Client) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
