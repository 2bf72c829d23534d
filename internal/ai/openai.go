package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	altai "github.com/sashabaranov/go-openai"

	"logpane/internal/model"
	"logpane/internal/util"
)

// maxRecords bounds how many records go into one prompt.
const maxRecords = 200

var ErrDisabled = errors.New("openai disabled")

// Client explains log records through an OpenAI-compatible chat endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, model: model, timeout: timeout}
}

func (c *Client) Enabled() bool { return c != nil && c.apiKey != "" }

// Explain asks the model what the given records say. Messages and metadata
// are PII-redacted before they leave the process.
func (c *Client) Explain(ctx context.Context, records []model.Record) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if len(records) == 0 {
		return "", errors.New("nothing selected")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := altai.DefaultConfig(c.apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cli := altai.NewClientWithConfig(cfg)
	resp, err := cli.CreateChatCompletion(ctx, altai.ChatCompletionRequest{
		Model: c.model,
		Messages: []altai.ChatCompletionMessage{
			{Role: altai.ChatMessageRoleSystem, Content: "You are an SRE assistant. Explain what the log records show, likely causes of any errors, and what to check next. Be concise."},
			{Role: altai.ChatMessageRoleUser, Content: BuildPrompt(records)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt renders at most maxRecords records, keeping the most recent.
func BuildPrompt(records []model.Record) string {
	if len(records) > maxRecords {
		records = records[len(records)-maxRecords:]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Explain these %d log records:\n", len(records))
	for _, r := range records {
		if !r.Timestamp.IsZero() {
			b.WriteString(r.Timestamp.Format(time.RFC3339))
			b.WriteByte(' ')
		}
		for _, m := range r.Metadata {
			fmt.Fprintf(&b, "%s=%s ", m.Name, util.RedactPII(m.Value))
		}
		b.WriteString(util.RedactPII(r.Message))
		b.WriteByte('\n')
	}
	return b.String()
}
