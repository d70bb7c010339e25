package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"skinsight/internal/logging"
	"skinsight/internal/services"
)

const (
	defaultHTTPTimeout   = 45 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBase     = 1 * time.Second
	defaultRetryMax      = 8 * time.Second

	jsonMimeType = "application/json"
	jpegMimeType = "image/jpeg"
)

// Config captures the runtime settings required to talk to the gateway.
type Config struct {
	APIKey         string
	BaseURL        string
	TextModel      string
	ImageModel     string
	TimeoutSeconds int
}

// Client wraps the Gemini generateContent API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithLogger attaches a logger for the best-effort operations that absorb
// failures instead of returning them.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "gateway")
		}
	}
}

// NewClient constructs a gateway client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TextModel:      strings.TrimSpace(cfg.TextModel),
			ImageModel:     strings.TrimSpace(cfg.ImageModel),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logging.NewNop(),
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBase,
		retryMaxDelay:    defaultRetryMax,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Configured reports whether an API key is present. Callers gate
// gateway-dependent actions on this instead of crashing at startup.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// part is a single content fragment in a generateContent request or response.
type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("gateway request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// textParts builds the parts for a request that mixes JPEG frames and a prompt.
func textParts(prompt string, images ...[]byte) []part {
	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: jpegMimeType,
			Data:     base64.StdEncoding.EncodeToString(img),
		}})
	}
	parts = append(parts, part{Text: prompt})
	return parts
}

// generateJSON issues a generateContent request that demands a JSON reply and
// returns the text of the first non-empty candidate part.
func (c *Client) generateJSON(ctx context.Context, model string, parts []part, op string) (string, error) {
	req := generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: &generationConfig{ResponseMimeType: jsonMimeType},
	}
	resp, err := c.generateWithRetry(ctx, model, req, op)
	if err != nil {
		return "", err
	}
	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("%s: empty candidate text", op)
	}
	return text, nil
}

// generateWithRetry sends one request per attempt, backing off on transient
// failures. Context cancellation and client errors stop retries immediately.
func (c *Client) generateWithRetry(ctx context.Context, model string, payload generateRequest, op string) (generateResponse, error) {
	attempts := c.retryAttempts()
	requestID := uuid.NewString()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.sendOnce(ctx, model, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return generateResponse{}, err
		}
		c.logger.Debug("gateway request retrying",
			logging.String(logging.FieldRequestID, requestID),
			logging.String("op", op),
			logging.Int("attempt", attempt),
			logging.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return generateResponse{}, err
		}
	}

	return generateResponse{}, fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, model string, payload generateRequest) (generateResponse, error) {
	var out generateResponse
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, url.PathEscape(model))
	encoded, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("gateway request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return out, fmt.Errorf("gateway request: new request: %w", err)
	}
	req.Header.Set("Content-Type", jsonMimeType)
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("gateway request: http error (timeout=%s): %w", c.timeoutDuration(), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("gateway request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return out, &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("gateway request: decode response: %w", err)
	}
	if out.Error != nil {
		return out, fmt.Errorf("gateway request: api error %s: %s", out.Error.Status, strings.TrimSpace(out.Error.Message))
	}
	return out, nil
}

func firstText(resp generateResponse) string {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if trimmed := strings.TrimSpace(p.Text); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func firstInlineImage(resp generateResponse) (string, string) {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData.MimeType, p.InlineData.Data
			}
		}
	}
	return "", ""
}

func (c *Client) timeoutDuration() time.Duration {
	if c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func (c *Client) retryAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil {
		return 0, false
	}
	if ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return c.backoffDelay(attempt), true
	}

	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.retryBaseDelay
	maxDelay := c.retryMaxDelay
	if base <= 0 {
		return 0
	}
	if maxDelay <= 0 {
		maxDelay = defaultRetryMax
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			return maxDelay
		}
		delay *= 2
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classify maps a transport-level failure onto the shared error taxonomy.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrTransient, "gateway", op, "request timed out", err)
	case errors.Is(err, context.Canceled):
		return err
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden {
			return services.Wrap(services.ErrConfiguration, "gateway", op, "credential rejected", err)
		}
		return services.Wrap(services.ErrTransient, "gateway", op, "request failed", err)
	}
	return services.Wrap(services.ErrTransient, "gateway", op, "request failed", err)
}
