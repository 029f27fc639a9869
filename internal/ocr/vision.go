package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// visionConfidence is the fixed confidence for the vision engine: the API
// reports no score, so the adapter assigns the method's reliability figure.
const visionConfidence = 0.8

// VisionEngine transcribes prescription images through an OpenAI-compatible
// vision model. Second in the cascade: strong on printed text, costs an API
// call per image.
type VisionEngine struct {
	client *openai.Client
	model  string
}

// NewVisionEngine creates a vision engine
func NewVisionEngine(apiKey, baseURL, model string) (*VisionEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	if model == "" {
		model = openai.GPT4oMini
	}

	return &VisionEngine{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name returns the engine name
func (e *VisionEngine) Name() string { return "vision" }

// IsAvailable checks if the API is reachable with the configured key
func (e *VisionEngine) IsAvailable(ctx context.Context) bool {
	_, err := e.client.ListModels(ctx)
	return err == nil
}

// Recognize asks the vision model to transcribe the image verbatim
func (e *VisionEngine) Recognize(ctx context.Context, image []byte) (*Result, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Transcribe all text in this prescription image verbatim. Output only the transcribed text, no commentary.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
				},
			},
		},
		MaxTokens:   1000,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("vision API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from vision API")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, nil
	}

	return &Result{
		Text:       text,
		Confidence: visionConfidence,
	}, nil
}
