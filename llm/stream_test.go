package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pressgen/pressgen/resilience"
)

func sseChunk(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n\n"
}

func TestClient_CompleteStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q, want text/event-stream", r.Header.Get("Accept"))
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("Elon ")))
		w.Write([]byte(sseChunk("founded ")))
		w.Write([]byte(": keep-alive comment\n\n"))
		w.Write([]byte(sseChunk("SpaceX.")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), resilience.NewRegistry())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	var sb strings.Builder
	err = client.CompleteStream(context.Background(), ChatRequest{Prompt: "p"}, func(delta string) {
		sb.WriteString(delta)
	})
	if err != nil {
		t.Fatalf("CompleteStream() error = %v", err)
	}

	if got := sb.String(); got != "Elon founded SpaceX." {
		t.Errorf("assembled = %q, want %q", got, "Elon founded SpaceX.")
	}
}

func TestClient_CompleteStream_SkipsMalformedFrames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {not json}\n\n"))
		w.Write([]byte(sseChunk("still works")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), resilience.NewRegistry())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	var sb strings.Builder
	err = client.CompleteStream(context.Background(), ChatRequest{Prompt: "p"}, func(delta string) {
		sb.WriteString(delta)
	})
	if err != nil {
		t.Fatalf("CompleteStream() error = %v", err)
	}
	if sb.String() != "still works" {
		t.Errorf("assembled = %q, want %q", sb.String(), "still works")
	}
}

func TestClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %q, want /v1/embeddings", r.URL.Path)
		}
		// Out-of-order indices must still align positionally.
		w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0.4,0.5,0.6]},
			{"index":0,"embedding":[0.1,0.2,0.3]}
		]}`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), resilience.NewRegistry())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	vectors, err := client.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("vectors = %d, want 2", len(vectors))
	}
	if vectors[0][0] != 0.1 || vectors[1][0] != 0.4 {
		t.Errorf("vectors misaligned: %v", vectors)
	}
}

func TestClient_Embed_Empty(t *testing.T) {
	client, err := NewClient(testConfig("http://unused"), resilience.NewRegistry())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	vectors, err := client.Embed(context.Background(), nil)
	if err != nil {
		t.Errorf("Embed(nil) error = %v", err)
	}
	if vectors != nil {
		t.Errorf("Embed(nil) = %v, want nil", vectors)
	}
}

func TestClient_Embed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1]}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), resilience.NewRegistry())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error for embedding count mismatch")
	}
}
