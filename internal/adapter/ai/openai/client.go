// Package openai implements a domain.AIClient against any OpenAI-compatible
// chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	ai "github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai"
	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/observability"
	"github.com/ranqi-ly/soul-matrix-ai/internal/config"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// Client calls the configured chat-completions endpoint with bounded retries
// and an optional single-lane serialization of outbound calls.
type Client struct {
	cfg  config.Config
	hc   *http.Client
	lane *ai.Lane
}

// New constructs a Client. The lane may be nil to disable call serialization.
func New(cfg config.Config, lane *ai.Lane) *Client {
	return &Client{
		cfg:  cfg,
		hc:   &http.Client{Timeout: cfg.AITimeout},
		lane: lane,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// rateLimitPattern matches provider error messages that indicate quota
// pressure even when the status code is not 429.
func isRateLimitMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "rate limit") ||
		strings.Contains(m, "负载已饱和") ||
		strings.Contains(m, "请稍后再试")
}

// newBackoff builds the retry policy: exponential delay capped at AIMaxDelay,
// no jitter so inter-attempt delays are non-decreasing, and exactly
// AIMaxAttempts total attempts.
func (c *Client) newBackoff(ctx context.Context) backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.cfg.AIInitialDelay
	expo.MaxInterval = c.cfg.AIMaxDelay
	expo.Multiplier = 2.0
	expo.RandomizationFactor = 0
	expo.MaxElapsedTime = 0
	attempts := c.cfg.AIMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(expo, uint64(attempts-1)), ctx)
}

// ChatJSON performs one chat round trip and returns the raw message content.
// Only transient failure classes are retried here: network and timeout
// errors, 5xx, 429 and rate-limit-worded provider errors. A malformed body
// behind a 2xx is not this layer's problem; the repair stage owns it.
func (c *Client) ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.cfg.ValidateAI(); err != nil {
		return "", err
	}
	body := map[string]any{
		"model":       c.cfg.AIModel,
		"temperature": c.cfg.AITemperature,
		"max_tokens":  c.cfg.AIMaxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	b, _ := json.Marshal(body)

	var content string
	op := func() error {
		start := time.Now()
		// Recreate the request each attempt; bodies are single-use.
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AIBaseURL+"/chat/completions", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.AIAPIKey)
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(req)
		observability.AIRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
		if err != nil {
			observability.AIRequestsTotal.WithLabelValues("chat", "network_error").Inc()
			slog.Warn("ai request failed", slog.Any("error", err))
			var ne interface{ Timeout() bool }
			if errors.As(err, &ne) && ne.Timeout() {
				return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
			}
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			observability.AIRequestsTotal.WithLabelValues("chat", "rate_limited").Inc()
			slog.Warn("ai provider rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("%w: status 429", domain.ErrUpstreamRateLimit)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet := string(raw)
			if len(snippet) > 512 {
				snippet = snippet[:512]
			}
			var out chatResponse
			_ = json.Unmarshal(raw, &out)
			if out.Error != nil && isRateLimitMessage(out.Error.Message) {
				observability.AIRequestsTotal.WithLabelValues("chat", "rate_limited").Inc()
				return fmt.Errorf("%w: %s", domain.ErrUpstreamRateLimit, out.Error.Message)
			}
			observability.AIRequestsTotal.WithLabelValues("chat", "upstream_error").Inc()
			slog.Error("ai provider non-2xx", slog.Int("status", resp.StatusCode), slog.String("body", snippet))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				// Client errors will not heal on retry.
				return backoff.Permanent(fmt.Errorf("chat status %d: %s", resp.StatusCode, snippet))
			}
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		var out chatResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			observability.AIRequestsTotal.WithLabelValues("chat", "decode_error").Inc()
			slog.Error("ai provider decode error", slog.Any("error", err))
			return err
		}
		if len(out.Choices) == 0 {
			observability.AIRequestsTotal.WithLabelValues("chat", "empty_choices").Inc()
			return errors.New("empty choices from provider")
		}
		observability.AIRequestsTotal.WithLabelValues("chat", "ok").Inc()
		content = out.Choices[0].Message.Content
		return nil
	}

	run := func() error { return backoff.Retry(op, c.newBackoff(ctx)) }
	if err := c.lane.Do(ctx, run); err != nil {
		slog.Error("ai call failed after retries", slog.Any("error", err))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return content, nil
}
