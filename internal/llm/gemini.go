package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client      *genai.Client
	model       string
	visionModel string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string, visionModel string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if visionModel == "" {
		visionModel = model
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		visionModel: visionModel,
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.model, genai.Text(prompt))
}

func (c *GeminiClient) Describe(ctx context.Context, prompt string, image Image) (string, error) {
	// ImageData wants the subtype only, e.g. "jpeg"
	format := strings.TrimPrefix(image.MIMEType, "image/")
	return c.generate(ctx, c.visionModel, genai.ImageData(format, image.Data), genai.Text(prompt))
}

func (c *GeminiClient) generate(ctx context.Context, modelName string, parts ...genai.Part) (string, error) {
	model := c.client.GenerativeModel(modelName)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	return "", fmt.Errorf("no response candidates or content")
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
