package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Question is one "People Also Ask" entry. Questions form a shallow
// tree: follow-ups reference their parent.
type Question struct {
	ID        uuid.UUID
	Question  string
	Answer    string
	Slug      string
	ParentID  *uuid.UUID
	Level     int
	CreatedAt time.Time
}

// Snippet is one RAG context fragment with its relevance rank.
type Snippet struct {
	Question string
	Answer   string
	Rank     float64
}

// UpsertQuestions inserts PAA questions in one batch, skipping rows
// whose slug already exists. Returns the number of rows inserted.
func (s *Store) UpsertQuestions(ctx context.Context, questions []Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, q := range questions {
		id := q.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(`
			INSERT INTO paa_questions (id, question, answer, slug, parent_id, level)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO NOTHING`,
			id, q.Question, q.Answer, q.Slug, q.ParentID, q.Level,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range questions {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("store: upsert question: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// SearchContext returns up to limit answered questions relevant to the
// topic, ranked by full-text relevance with an ILIKE fallback match.
// This feeds prompt construction; it is deliberately plain SQL.
func (s *Store) SearchContext(ctx context.Context, topic string, limit int) ([]Snippet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT question, coalesce(answer, ''),
		       ts_rank(
		           to_tsvector('english', question || ' ' || coalesce(answer, '')),
		           plainto_tsquery('english', $1)
		       ) AS rank
		FROM paa_questions
		WHERE answer IS NOT NULL AND answer <> ''
		  AND (
		      to_tsvector('english', question || ' ' || coalesce(answer, ''))
		          @@ plainto_tsquery('english', $1)
		      OR question ILIKE '%' || $1 || '%'
		  )
		ORDER BY rank DESC
		LIMIT $2`,
		topic, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: search context: %w", err)
	}
	defer rows.Close()

	var snippets []Snippet
	for rows.Next() {
		var sn Snippet
		if err := rows.Scan(&sn.Question, &sn.Answer, &sn.Rank); err != nil {
			return nil, fmt.Errorf("store: scan snippet: %w", err)
		}
		snippets = append(snippets, sn)
	}
	return snippets, rows.Err()
}

// QuestionsWithoutEmbeddings returns up to limit answered questions that
// have no embedding row yet.
func (s *Store) QuestionsWithoutEmbeddings(ctx context.Context, limit int) ([]Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id, q.question, coalesce(q.answer, ''), q.slug, q.parent_id, q.level, q.created_at
		FROM paa_questions q
		LEFT JOIN question_embeddings e ON e.question_id = q.id
		WHERE e.question_id IS NULL
		  AND q.answer IS NOT NULL AND q.answer <> ''
		ORDER BY q.created_at
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list unembedded questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Slug, &q.ParentID, &q.Level, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
