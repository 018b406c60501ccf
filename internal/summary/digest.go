package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/crisiswatch/internal/model"
)

// Digester polishes the heuristic summary into a short analyst-style
// digest using a chat completion model. It is optional; with no provider
// configured the heuristic text is served as-is.
type Digester struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewDigester builds a Digester from the LLM configuration. Returns nil
// when no provider is configured.
func NewDigester(cfg model.LLMConfig) (*Digester, error) {
	if cfg.Provider == "" {
		return nil, nil
	}
	if cfg.Provider != "openai" {
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}

	d := &Digester{
		client:    openai.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
	if d.model == "" {
		d.model = openai.GPT4oMini
	}
	if d.maxTokens == 0 {
		d.maxTokens = 400
	}
	if d.timeout == 0 {
		d.timeout = 30 * time.Second
	}
	return d, nil
}

// Digest rewrites the heuristic summary given the recent headlines. On
// any API failure the caller should fall back to the heuristic text.
func (d *Digester) Digest(ctx context.Context, heuristic string, recent []model.Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a conflict-monitoring analyst. Rewrite the draft " +
					"situation summary into 2-3 precise sentences. Use only the " +
					"provided headlines; do not invent events, numbers, or places.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(heuristic, recent),
			},
		},
		MaxTokens:   d.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("digest: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(heuristic string, recent []model.Event) string {
	var b strings.Builder
	b.WriteString("Draft summary:\n")
	b.WriteString(heuristic)
	b.WriteString("\n\nRecent headlines:\n")
	for i, ev := range recent {
		if i >= 20 {
			fmt.Fprintf(&b, "... and %d more\n", len(recent)-20)
			break
		}
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", ev.Type.Display().Label, ev.Title, ev.SourceName)
	}
	return b.String()
}
