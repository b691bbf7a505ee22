package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/config"
)

func TestGuarded_PassesThrough(t *testing.T) {
	mock := &MockClient{Response: "hello"}
	g := NewGuarded(mock, config.AnalysisConfig{TimeoutSeconds: 5, BreakerFailures: 2, BreakerCooldown: 60}, zap.NewNop())

	out, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	img := Image{Data: []byte{1, 2, 3}, MIMEType: "image/png"}
	out, err = g.Describe(context.Background(), "who is this", img)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, []Image{img}, mock.Images)
}

func TestGuarded_OpensAfterFailures(t *testing.T) {
	mock := &MockClient{Err: errors.New("model unavailable")}
	g := NewGuarded(mock, config.AnalysisConfig{TimeoutSeconds: 5, BreakerFailures: 2, BreakerCooldown: 60}, zap.NewNop())
	ctx := context.Background()

	_, err := g.Generate(ctx, "a")
	assert.Error(t, err)
	_, err = g.Generate(ctx, "b")
	assert.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, g.State())

	_, err = g.Generate(ctx, "c")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, mock.Calls(), "open breaker must not reach the model")
}

func TestGuarded_Timeout(t *testing.T) {
	mock := &MockClient{Response: "late", Delay: 2 * time.Second}
	g := NewGuarded(mock, config.AnalysisConfig{TimeoutSeconds: 1, BreakerFailures: 5}, zap.NewNop())

	_, err := g.Generate(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixel.png")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.NoError(t, os.WriteFile(path, png, 0o644))

	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, png, img.Data)

	_, err = ReadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{Provider: "Ollama", Model: "qwen2.5:7b"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "claude", APIKey: "k", Model: "claude-3-5-sonnet-latest"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)

	_, err = NewClient(ctx, config.LLMConfig{Provider: "parrot"}, zap.NewNop())
	assert.Error(t, err)
}

func TestOllamaBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", OllamaBaseURL(""))
	assert.Equal(t, "http://gpu:11434/v1", OllamaBaseURL("http://gpu:11434/"))
	assert.Equal(t, "http://gpu:11434/v1", OllamaBaseURL("http://gpu:11434/v1"))
}
