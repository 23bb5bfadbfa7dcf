// Package llm is the outbound client for the chat-completion and
// embedding APIs used to generate article content.
//
// Every request runs through a resilience.Guard. Chat, streaming chat,
// and embedding calls use distinct breaker names ("llm-chat",
// "llm-chat-stream", "llm-embed") so a failing streaming endpoint does
// not take non-streaming generation down with it.
//
// This package is also the classification boundary: transport failures,
// call timeouts, and gateway errors (502/503/504) are wrapped with
// resilience.Transient before they reach the retry classifier; client
// errors (4xx), auth failures, and malformed responses surface
// immediately as non-retryable.
package llm
