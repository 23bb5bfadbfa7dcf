package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pressgen/pressgen/observe"
	"github.com/pressgen/pressgen/store"
)

// QuestionStore is the subset of the store the PAA importer needs.
type QuestionStore interface {
	UpsertQuestions(ctx context.Context, questions []store.Question) (int, error)
}

// paaEntry is one line of a PAA results JSONL file.
type paaEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Slug     string `json:"slug"`
	Level    int    `json:"level"`
}

// ImportQuestions reads a JSONL stream of generated Q&A entries and
// inserts new questions. Lines that fail to parse count as errors and
// entries without an answer are skipped; neither stops the run.
func ImportQuestions(ctx context.Context, s QuestionStore, r io.Reader, log observe.Logger) (Stats, error) {
	var stats Stats

	seen := make(map[string]bool)
	var questions []store.Question

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Loaded++

		var entry paaEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			stats.Errors++
			log.Warn(ctx, "skipping malformed jsonl line", observe.F("error", err.Error()))
			continue
		}

		if entry.Question == "" || strings.TrimSpace(entry.Answer) == "" {
			stats.Skipped++
			continue
		}

		slug := entry.Slug
		if slug == "" {
			slug = Slugify(entry.Question)
		}
		if slug == "" || seen[slug] {
			stats.Skipped++
			continue
		}
		seen[slug] = true

		questions = append(questions, store.Question{
			Question: entry.Question,
			Answer:   entry.Answer,
			Slug:     slug,
			Level:    entry.Level,
		})
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("importer: read jsonl: %w", err)
	}

	if len(questions) == 0 {
		return stats, nil
	}

	inserted, err := s.UpsertQuestions(ctx, questions)
	if err != nil {
		stats.Errors++
		return stats, fmt.Errorf("importer: store questions: %w", err)
	}
	stats.Imported = inserted
	stats.Skipped += len(questions) - inserted

	log.Info(ctx, "question import complete",
		observe.F("loaded", stats.Loaded),
		observe.F("imported", stats.Imported),
		observe.F("skipped", stats.Skipped),
	)
	return stats, nil
}
