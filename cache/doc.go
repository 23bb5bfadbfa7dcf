// Package cache stores rendered article HTML keyed by slug.
//
// Two backends are provided: an in-process memory cache for single
// instances and a Redis cache for deployments where several processes
// serve the same site. Both expire entries by TTL; a miss means the
// caller loads from the store (which applies its own freshness rule)
// and repopulates.
package cache
