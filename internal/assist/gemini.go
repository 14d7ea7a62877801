package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tartampluch/go-calendar/internal/config"
	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

// GeminiGenerator calls the Gemini generateContent endpoint with a JSON
// response schema so the reply can be decoded by DecodeDraft.
type GeminiGenerator struct {
	svc    *generativelanguage.Service
	model  string
	schema *generativelanguage.Schema
}

// NewGeminiGenerator creates a client authenticated with apiKey.
// Extra options (such as option.WithEndpoint in tests) are appended.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if model == "" {
		model = config.DefaultAIModel
	}

	schema := new(generativelanguage.Schema)
	if err := json.Unmarshal([]byte(config.AIResponseSchema), schema); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAISchema, err)
	}

	all := append([]option.ClientOption{
		option.WithAPIKey(apiKey),
		option.WithUserAgent(config.UserAgent),
	}, opts...)

	svc, err := generativelanguage.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAIClient, err)
	}

	return &GeminiGenerator{svc: svc, model: model, schema: schema}, nil
}

// Model returns the model name used for requests.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate sends a single-turn prompt and concatenates the text parts of the
// first candidate that has content.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: config.MimeJSON,
			ResponseSchema:   g.schema,
		},
	}

	resp, err := g.svc.Models.GenerateContent(config.AIModelPrefix+g.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrAIRequest, err)
	}

	var sb strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		break
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", errors.New(config.ErrAIEmptyReply)
	}
	return sb.String(), nil
}
