package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
	"tutor-lesson-pipeline/internal/infra/metrics"
)

// Compile-time assurance this builder satisfies the port
var _ adapter.LessonBuilder = (*OpenAIBuilder)(nil)

// OpenAIBuilder implements adapter.LessonBuilder using the Chat Completions
// API in JSON mode.
type OpenAIBuilder struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewOpenAIBuilder(apiKey, model string, timeout time.Duration) (*OpenAIBuilder, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIBuilder{
		apiKey: apiKey,
		base:   "https://api.openai.com/v1",
		model:  model,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *OpenAIBuilder) BuildLesson(ctx context.Context, in adapter.BuildInput) (*model.Lesson, error) {
	start := time.Now()
	lesson, err := o.build(ctx, in)
	metrics.ObserveBuild("openai", time.Since(start), err == nil)
	return lesson, err
}

func (o *OpenAIBuilder) build(ctx context.Context, in adapter.BuildInput) (*model.Lesson, error) {
	reqBody := struct {
		Model          string         `json:"model"`
		Temperature    float64        `json:"temperature"`
		ResponseFormat map[string]any `json:"response_format"`
		Messages       []chatMessage  `json:"messages"`
	}{
		Model:          o.model,
		Temperature:    0.4,
		ResponseFormat: map[string]any{"type": "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: payloadJSON(in.Topic, in.Text, in.Age)},
		},
	}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			return parseLesson(c.Message.Content, in.Text)
		}
	}
	return nil, errors.New("no choice content")
}
