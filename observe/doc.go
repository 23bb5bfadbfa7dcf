// Package observe provides observability primitives for the content
// engine: a structured JSON logger, OpenTelemetry metrics for guarded
// outbound calls and article generation, and tracing for pipeline runs.
//
// It is a pure instrumentation library: no execution, no transport, no
// I/O beyond exporter setup. Consumers wire the observer into the
// generation pipeline, the importers, and the LLM client.
package observe
