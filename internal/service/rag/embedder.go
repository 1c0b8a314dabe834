package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/pkg/vector"
)

// Embedder converts text into a fixed-dimension vector. Implementations must
// never fail: when the provider is unreachable they return the all-zero
// vector of the configured dimension so the rest of the pipeline keeps
// moving.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
	Dimension() int
}

type EmbedderConfig struct {
	URL           string
	Model         string
	Dimension     int
	MaxInputChars int
	Timeout       time.Duration
}

type httpEmbedder struct {
	config EmbedderConfig
	client *http.Client
	logger zerolog.Logger
}

func NewHTTPEmbedder(config EmbedderConfig, logger zerolog.Logger) Embedder {
	return &httpEmbedder{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *httpEmbedder) Embed(ctx context.Context, text string) []float32 {
	if len(text) > e.config.MaxInputChars {
		text = text[:e.config.MaxInputChars]
	}

	embedding, err := e.embed(ctx, text)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Embedding request failed, falling back to zero vector")
		return vector.Zero(e.config.Dimension)
	}

	return embedding
}

func (e *httpEmbedder) Dimension() int {
	return e.config.Dimension
}

func (e *httpEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{
		Model: e.config.Model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := e.config.URL + "/api/embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding provider returned status %d", resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding provider returned no vectors")
	}

	embedding := decoded.Embeddings[0]
	if len(embedding) != e.config.Dimension {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(embedding), e.config.Dimension)
	}

	return embedding, nil
}
