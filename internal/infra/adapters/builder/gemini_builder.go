package builder

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"

	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
	"tutor-lesson-pipeline/internal/infra/metrics"
)

var _ adapter.LessonBuilder = (*GeminiBuilder)(nil)

// GeminiBuilder implements adapter.LessonBuilder using the official SDK.
type GeminiBuilder struct {
	client *genai.Client
	model  string
}

func NewGeminiBuilder(ctx context.Context, apiKey, baseURL, model string) (*GeminiBuilder, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiBuilder{client: c, model: model}, nil
}

func (g *GeminiBuilder) BuildLesson(ctx context.Context, in adapter.BuildInput) (*model.Lesson, error) {
	start := time.Now()
	lesson, err := g.build(ctx, in)
	metrics.ObserveBuild("gemini", time.Since(start), err == nil)
	return lesson, err
}

func (g *GeminiBuilder) build(ctx context.Context, in adapter.BuildInput) (*model.Lesson, error) {
	// Gemini has no separate system role in history; the instructions ride
	// along as the opening user turn.
	history := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: systemPrompt}},
	}}

	chat, err := g.client.Chats.Create(
		ctx,
		g.model,
		&genai.GenerateContentConfig{
			MaxOutputTokens:  4096,
			ResponseMIMEType: "application/json",
		},
		history,
	)
	if err != nil {
		return nil, err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: payloadJSON(in.Topic, in.Text, in.Age)})
	if err != nil {
		return nil, err
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}
	if text == "" {
		return nil, errors.New("gemini: empty reply")
	}
	return parseLesson(text, in.Text)
}
