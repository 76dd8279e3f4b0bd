package suggest

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/new-north/platform-api/internal/config"
)

// Mode selects what the collaborator does with the text.
type Mode string

const (
	ModeGrammar Mode = "grammar"
	ModeExpand  Mode = "expand"
	ModeTone    Mode = "tone"
	ModeTags    Mode = "tags"
)

// tagContentLimit is how much of the draft is sent for tag generation.
const tagContentLimit = 500

// Suggester produces enhanced text or candidate tags for a draft. Both
// calls are best-effort: they never return an error, degrading to the input
// text or a default tag list whenever the collaborator is unavailable.
type Suggester interface {
	Enhance(ctx context.Context, mode Mode, text string) string
	Tags(ctx context.Context, text string) []string
}

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client calls the text-generation service and owns the degrade policy.
// With no API key configured it answers from the deterministic fallbacks
// without any network call.
type Client struct {
	client  chatClient // nil when unconfigured
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

var (
	defaultTags = []string{"general"}
	failureTags = []string{"general", "life"}
)

// New creates a suggestion client from configuration
func New(cfg *config.SuggestConfig, log zerolog.Logger) *Client {
	c := &Client{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     log.With().Str("component", "suggest").Logger(),
	}
	if c.timeout <= 0 {
		c.timeout = 15 * time.Second
	}
	if cfg.APIKey == "" {
		c.log.Warn().Msg("No API key configured, text suggestions will use fallbacks")
		return c
	}
	c.client = openai.NewClient(cfg.APIKey)
	return c
}

// Enhance rewrites the text per mode, returning the input unchanged on any
// failure or unknown mode.
func (c *Client) Enhance(ctx context.Context, mode Mode, text string) string {
	if c.client == nil {
		return text
	}

	var prompt string
	switch mode {
	case ModeGrammar:
		prompt = "Fix grammar and spelling, keep the same tone/language: " + text
	case ModeExpand:
		prompt = "Expand on this idea slightly to make it more inspiring, keep the language used: " + text
	case ModeTone:
		prompt = "Make this text sound more professional and reflective (Vas3k style blog), keep language: " + text
	default:
		return text
	}

	out, err := c.complete(ctx, prompt)
	if err != nil {
		c.log.Warn().Err(err).Str("mode", string(mode)).Msg("Enhance call failed, returning original text")
		return text
	}
	if out == "" {
		return text
	}
	return out
}

// Tags proposes 3-5 short tags for the draft. Failures degrade to fixed
// tag lists so publishing never blocks on the collaborator.
func (c *Client) Tags(ctx context.Context, text string) []string {
	if c.client == nil {
		return defaultTags
	}

	prompt := "Analyze this blog post and generate 3-5 relevant, short tags (one word each). " +
		"Return them as a comma-separated list. Content: " + clipRunes(text, tagContentLimit)

	out, err := c.complete(ctx, prompt)
	if err != nil {
		c.log.Warn().Err(err).Msg("Tag generation failed, returning fallback tags")
		return failureTags
	}
	tags := parseTags(out)
	if len(tags) == 0 {
		return defaultTags
	}
	return tags
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	// Bounded by our own timeout, cancelled early if the caller goes away.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// parseTags splits a comma-separated tag list, trimming whitespace and
// leading hash marks and dropping empty entries.
func parseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(strings.ReplaceAll(p, "#", ""))
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func clipRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
