package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/pressgen/pressgen/resilience"
)

// embeddingRequest is the wire request body.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the wire response body.
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed performs a guarded embedding call for a batch of texts. The
// returned vectors are positionally aligned with the inputs.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	vectors, err := resilience.GuardDo(ctx, c.embedGuard, func(ctx context.Context) ([][]float64, error) {
		return c.embed(ctx, texts)
	})
	c.metrics.RecordCall(ctx, BreakerEmbed, time.Since(start), err)
	return vectors, err
}

func (c *Client) embed(ctx context.Context, texts []string) ([][]float64, error) {
	var resp embeddingResponse
	err := c.post(ctx, "/v1/embeddings", embeddingRequest{
		Model: c.cfg.EmbedModel,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("llm: expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("llm: embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
