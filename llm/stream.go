package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pressgen/pressgen/resilience"
)

// streamChunk is one SSE data payload from the streaming endpoint.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// CompleteStream performs a guarded streaming chat-completion call,
// invoking fn for each content delta as it arrives. The stream runs on
// its own breaker so a flaky streaming endpoint does not open the
// non-streaming one.
//
// A disconnect mid-stream is transient: the whole call is retried from
// the beginning, so fn may observe deltas from an earlier aborted
// attempt. Callers that assemble deltas into a document should do so in
// a buffer they reset if CompleteStream ultimately returns an error.
func (c *Client) CompleteStream(ctx context.Context, req ChatRequest, fn func(delta string)) error {
	start := time.Now()
	err := c.streamGuard.Do(ctx, func(ctx context.Context) error {
		return c.stream(ctx, req, fn)
	})
	c.metrics.RecordCall(ctx, BreakerStream, time.Since(start), err)
	return err
}

func (c *Client) stream(ctx context.Context, req ChatRequest, fn func(delta string)) error {
	body := chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return resilience.Transient(fmt.Errorf("llm: stream request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, strings.TrimSpace(string(data)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed keep-alive frames rather than abort a
			// stream that is otherwise delivering content.
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				fn(choice.Delta.Content)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return resilience.Transient(fmt.Errorf("llm: stream interrupted: %w", err))
	}
	return nil
}
