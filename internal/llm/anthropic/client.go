package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/depobrain/depobrain/internal/common"
	"github.com/depobrain/depobrain/internal/llm"
)

const apiVersion = "2023-06-01"

// Config for the Anthropic messages client.
type Config struct {
	APIKey      string        // required
	BaseURL     string        // default https://api.anthropic.com
	Model       string        // e.g. "claude-3-5-sonnet-latest"
	MaxTokens   int           // default 1024
	Temperature float32       // 0..1, extraction wants 0
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-sonnet-latest"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ExtractIssues implements llm.IssueExtractor: one synchronous messages
// call per segment, the fixed instruction template plus the segment text,
// then JSON-in-prose extraction and per-item validation of the reply.
func (c *Client) ExtractIssues(ctx context.Context, segmentText string) ([]llm.Issue, []byte, error) {
	start := time.Now()

	body := map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": llm.BuildPrompt(segmentText)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.NewAppError("SERVICE_CALL", "anthropic messages", common.ErrServiceCall)
	}

	var mr struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &mr); err != nil {
		c.logger.Error("llm.extract.decode_error", "error", err, "raw_bytes", len(raw))
		return nil, raw, common.NewAppError("MALFORMED", "decode messages response", common.ErrMalformedResponse)
	}
	var text string
	for _, block := range mr.Content {
		if block.Type == "text" || block.Type == "" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, raw, common.NewAppError("MALFORMED", "empty messages content", common.ErrMalformedResponse)
	}

	issues, dropped, err := llm.ParseResponse(text, c.logger)
	if err != nil {
		return nil, raw, err
	}

	c.logger.Info("llm.extract.ok",
		"model", c.cfg.Model,
		"text_len", len(segmentText),
		"issues", len(issues),
		"dropped_items", dropped,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return issues, raw, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			c.logger.Warn("anthropic response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, fmt.Errorf("anthropic status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
