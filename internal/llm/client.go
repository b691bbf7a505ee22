package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionClient answers a prompt about one image.
type VisionClient interface {
	Describe(ctx context.Context, prompt string, image Image) (string, error)
}

type Client interface {
	LLMClient
	VisionClient
}

type Image struct {
	Data     []byte
	MIMEType string
}

// ReadImage loads an image file and sniffs its MIME type.
func ReadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	return Image{Data: data, MIMEType: http.DetectContentType(data)}, nil
}
