// Package completion is the boundary to the remote chat-completion service.
package completion

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

	"github.com/ashureev/bibleai/internal/domain"
)

// Completer generates assistant text. Implementations classify failures as
// *Error so callers can show the fixed message for each kind.
type Completer interface {
	// Complete sends the system prompt and transcript and returns the reply.
	Complete(ctx context.Context, systemPrompt string, messages []domain.Message, maxTokens int) (string, error)

	// GenerateTitle returns a short title for seed. It never fails; any
	// error degrades to DefaultTitle.
	GenerateTitle(ctx context.Context, seed string) string
}

// Config configures Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// Ensure Client implements Completer.
var _ Completer = (*Client)(nil)

// NewClient builds a client. Missing fields take the service defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger.With("component", "completion"),
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete issues one chat completion bounded by the configured timeout.
func (c *Client) Complete(ctx context.Context, systemPrompt string, messages []domain.Message, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", &Error{Kind: KindNotConfigured, Message: "no API key configured"}
	}

	wire := make([]wireMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		wire = append(wire, wireMessage{Role: "system", Content: systemPrompt})
	}
	for _, m := range messages {
		wire = append(wire, wireMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.cfg.Model,
		Messages:    wire,
		Temperature: c.cfg.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", &Error{Kind: KindService, Message: "encode request", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindService, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("completion request failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		cerr := classify(res.StatusCode, raw)
		c.logger.Warn("completion rejected", "status", res.StatusCode, "kind", cerr.Kind, "message", cerr.Message)
		return "", cerr
	}

	var out completionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", &Error{Kind: KindNetwork, Message: "response interrupted", Err: err}
		}
		return "", &Error{Kind: KindService, Message: "decode response", Err: err}
	}
	c.logger.Debug("completion succeeded", "duration_ms", time.Since(start).Milliseconds(), "choices", len(out.Choices))
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

// classify maps an error response onto a Kind. Quota wording is checked
// before credential wording.
func classify(status int, raw []byte) *Error {
	var body errorResponse
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		msg = body.Error.Message
	}
	code := body.Error.Code
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}

	lower := strings.ToLower(msg)
	switch {
	case status == http.StatusTooManyRequests,
		code == "insufficient_quota", code == "rate_limit_exceeded",
		strings.Contains(lower, "quota"), strings.Contains(lower, "limit"):
		return &Error{Kind: KindRateLimited, Status: status, Message: msg}
	case status == http.StatusUnauthorized, status == http.StatusForbidden,
		code == "invalid_api_key",
		strings.Contains(msg, "invalid_api_key"), strings.Contains(msg, "Incorrect API key"):
		return &Error{Kind: KindInvalidCredential, Status: status, Message: msg}
	default:
		return &Error{Kind: KindService, Status: status, Message: msg}
	}
}

// GenerateTitle asks for a 2-4 word title for seed.
func (c *Client) GenerateTitle(ctx context.Context, seed string) string {
	raw, err := c.Complete(ctx, titlePrompt, []domain.Message{{Role: domain.RoleUser, Content: seed}}, titleMaxTokens)
	if err != nil {
		c.logger.Debug("title generation failed, using default", "kind", KindOf(err), "error", err)
		return DefaultTitle
	}
	if title := cleanTitle(raw); title != "" {
		return title
	}
	return DefaultTitle
}
