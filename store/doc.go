// Package store is the Postgres layer for keyword clusters, "People
// Also Ask" questions, generated articles, and question embeddings.
//
// Article rows carry a cache_expires_at column: a TTL, not an eviction
// policy. CachedArticle returns only rows whose TTL has not lapsed;
// expired articles stay in place until regenerated.
//
// The RAG context queries (SearchContext) are plain SQL: ILIKE match
// plus ts_rank ordering over the question corpus. Similarity search
// over embeddings fetches candidate vectors and ranks them by cosine
// similarity in process.
package store
