package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// Embedding is a stored question vector.
type Embedding struct {
	QuestionID uuid.UUID
	Model      string
	Vector     []float64
}

// SimilarQuestion pairs a question with its cosine similarity to a
// query vector.
type SimilarQuestion struct {
	QuestionID uuid.UUID
	Question   string
	Answer     string
	Similarity float64
}

// SaveEmbedding stores or replaces the vector for a question.
func (s *Store) SaveEmbedding(ctx context.Context, e Embedding) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO question_embeddings (question_id, model, vector)
		VALUES ($1, $2, $3)
		ON CONFLICT (question_id) DO UPDATE SET
			model = EXCLUDED.model,
			vector = EXCLUDED.vector,
			created_at = now()`,
		e.QuestionID, e.Model, e.Vector,
	)
	if err != nil {
		return fmt.Errorf("store: save embedding: %w", err)
	}
	return nil
}

// SimilarQuestions ranks stored question embeddings by cosine
// similarity to the query vector and returns the top limit matches.
// Similarity runs in process: the corpus is small enough that loading
// the vectors beats installing a vector extension.
func (s *Store) SimilarQuestions(ctx context.Context, query []float64, limit int) ([]SimilarQuestion, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT e.question_id, q.question, coalesce(q.answer, ''), e.vector
		FROM question_embeddings e
		JOIN paa_questions q ON q.id = e.question_id`)
	if err != nil {
		return nil, fmt.Errorf("store: load embeddings: %w", err)
	}
	defer rows.Close()

	var matches []SimilarQuestion
	for rows.Next() {
		var m SimilarQuestion
		var vec []float64
		if err := rows.Scan(&m.QuestionID, &m.Question, &m.Answer, &vec); err != nil {
			return nil, fmt.Errorf("store: scan embedding: %w", err)
		}
		m.Similarity = cosineSimilarity(query, vec)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either vector is empty, zero, or the lengths differ.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	dot := floats.Dot(a, b)
	na := math.Sqrt(floats.Dot(a, a))
	nb := math.Sqrt(floats.Dot(b, b))
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}
