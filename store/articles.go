package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Article is one generated page.
type Article struct {
	ID             uuid.UUID
	KeywordID      uuid.UUID
	Slug           string
	Title          string
	HTML           string
	Model          string
	Status         string
	GeneratedAt    time.Time
	CacheExpiresAt *time.Time
}

// SaveArticle inserts or replaces the article for its slug. A positive
// ttl sets cache_expires_at that far in the future; zero leaves the
// article valid indefinitely.
func (s *Store) SaveArticle(ctx context.Context, a Article, ttl time.Duration) (uuid.UUID, error) {
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var expires *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expires = &t
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO articles (id, keyword_id, slug, title, html, model, status, generated_at, cache_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'published', now(), $7)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			html = EXCLUDED.html,
			model = EXCLUDED.model,
			status = EXCLUDED.status,
			generated_at = EXCLUDED.generated_at,
			cache_expires_at = EXCLUDED.cache_expires_at`,
		id, a.KeywordID, a.Slug, a.Title, a.HTML, a.Model, expires,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: save article: %w", err)
	}
	return id, nil
}

// CachedArticle returns the article for slug if it exists and has not
// passed cache_expires_at. Expired and missing articles both return
// ErrNotFound so callers regenerate either way.
func (s *Store) CachedArticle(ctx context.Context, slug string) (*Article, error) {
	var a Article
	err := s.pool.QueryRow(ctx, `
		SELECT id, keyword_id, slug, title, html, model, status, generated_at, cache_expires_at
		FROM articles
		WHERE slug = $1
		  AND status = 'published'
		  AND (cache_expires_at IS NULL OR cache_expires_at > now())`,
		slug,
	).Scan(&a.ID, &a.KeywordID, &a.Slug, &a.Title, &a.HTML, &a.Model, &a.Status, &a.GeneratedAt, &a.CacheExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load article: %w", err)
	}
	return &a, nil
}

// PublishedArticles returns up to limit unexpired articles, newest
// first. The warm command uses it to prefill the page cache.
func (s *Store) PublishedArticles(ctx context.Context, limit int) ([]Article, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, keyword_id, slug, title, html, model, status, generated_at, cache_expires_at
		FROM articles
		WHERE status = 'published'
		  AND (cache_expires_at IS NULL OR cache_expires_at > now())
		ORDER BY generated_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list published articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.KeywordID, &a.Slug, &a.Title, &a.HTML, &a.Model, &a.Status, &a.GeneratedAt, &a.CacheExpiresAt); err != nil {
			return nil, fmt.Errorf("store: scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleCount returns totals by status for the status command.
func (s *Store) ArticleCount(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, count(*) FROM articles GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("store: count articles: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("store: scan article count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
