package ner

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/veridex/veridex/internal/model"
)

const recognizePrompt = `Extract named entities from the text below.

Return ONLY a JSON array, no prose. Each element: {"text": "<exact span>", "label": "<LABEL>"}.
Allowed labels: PERSON, ORG, GPE, LOC, DATE. Use GPE for countries/cities/states,
LOC for other locations. Do not invent entities that are not literally in the text.

Text:
`

// OpenAIRecognizer implements Recognizer using OpenAI-compatible chat APIs
type OpenAIRecognizer struct {
	client *openai.Client
	cfg    model.NERConfig
}

// NewOpenAIRecognizer creates a recognizer backed by the Chat Completions API
func NewOpenAIRecognizer(cfg model.NERConfig) (*OpenAIRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (r *OpenAIRecognizer) Name() string { return "openai" }

// Recognize extracts entity spans from text
func (r *OpenAIRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	mdl := r.cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	timeout := time.Duration(r.cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a named-entity extraction engine. You output only JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: recognizePrompt + text,
			},
		},
		Temperature: 0, // deterministic extraction, not generation
	})
	if err != nil {
		return nil, errors.Wrap(err, "NER API call")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("NER API returned no choices")
	}

	return ParseSpans(resp.Choices[0].Message.Content)
}

// ParseSpans parses the provider's JSON reply, tolerating code fences
func ParseSpans(reply string) ([]Span, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	// Some models wrap the array in a short sentence; find the array bounds.
	start := strings.IndexByte(reply, '[')
	end := strings.LastIndexByte(reply, ']')
	if start < 0 || end < start {
		return nil, errors.Newf("no JSON array in NER reply (%d bytes)", len(reply))
	}

	var spans []Span
	if err := json.Unmarshal([]byte(reply[start:end+1]), &spans); err != nil {
		return nil, errors.Wrap(err, "decode NER reply")
	}

	for i := range spans {
		spans[i].Text = strings.TrimSpace(spans[i].Text)
		spans[i].Label = strings.ToUpper(strings.TrimSpace(spans[i].Label))
	}
	return filterSpans(spans), nil
}
