package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Keyword statuses.
const (
	StatusPending   = "pending"
	StatusGenerated = "generated"
	StatusFailed    = "failed"
)

// KeywordCluster is one target keyword with its cluster metadata.
type KeywordCluster struct {
	ID           uuid.UUID
	Keyword      string
	Slug         string
	Cluster      string
	SearchVolume int
	Intent       string
	Status       string
	CreatedAt    time.Time
}

// UpsertKeywords inserts keyword clusters in one batch, skipping rows
// whose slug already exists. Returns the number of rows inserted.
func (s *Store) UpsertKeywords(ctx context.Context, keywords []KeywordCluster) (int, error) {
	if len(keywords) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, k := range keywords {
		id := k.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(`
			INSERT INTO keyword_clusters (id, keyword, slug, cluster, search_volume, intent, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug) DO NOTHING`,
			id, k.Keyword, k.Slug, k.Cluster, k.SearchVolume, k.Intent, StatusPending,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range keywords {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("store: upsert keyword: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// ListPending returns up to limit keywords awaiting generation, highest
// search volume first.
func (s *Store) ListPending(ctx context.Context, limit int) ([]KeywordCluster, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, keyword, slug, cluster, search_volume, intent, status, created_at
		FROM keyword_clusters
		WHERE status = $1
		ORDER BY search_volume DESC, created_at
		LIMIT $2`,
		StatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list pending keywords: %w", err)
	}
	defer rows.Close()

	var keywords []KeywordCluster
	for rows.Next() {
		var k KeywordCluster
		if err := rows.Scan(&k.ID, &k.Keyword, &k.Slug, &k.Cluster, &k.SearchVolume, &k.Intent, &k.Status, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// KeywordCount returns totals by status for the status command.
func (s *Store) KeywordCount(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, count(*) FROM keyword_clusters GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("store: count keywords: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("store: scan keyword count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// SetKeywordStatus updates a keyword's generation status.
func (s *Store) SetKeywordStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE keyword_clusters SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("store: set keyword status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
