package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pressgen/pressgen/observe"
	"github.com/pressgen/pressgen/store"
)

// ErrMissingKeywordColumn is returned when the CSV has no Keyword header.
var ErrMissingKeywordColumn = errors.New("importer: csv missing Keyword column")

// Stats summarizes one import run.
type Stats struct {
	Loaded   int
	Imported int
	Skipped  int
	Errors   int
}

// KeywordStore is the subset of the store the keyword importer needs.
type KeywordStore interface {
	UpsertKeywords(ctx context.Context, keywords []store.KeywordCluster) (int, error)
}

// ImportKeywords reads a keyword research CSV export and inserts new
// keyword clusters. Columns are matched by header name: Keyword is
// required; Cluster, Volume, and Intent are optional. Rows with an
// empty keyword are skipped, duplicate slugs within the file keep the
// first occurrence, and rows already in the store count as skipped.
func ImportKeywords(ctx context.Context, s KeywordStore, r io.Reader, log observe.Logger) (Stats, error) {
	var stats Stats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("importer: read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	keywordCol, ok := cols["keyword"]
	if !ok {
		return stats, ErrMissingKeywordColumn
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	seen := make(map[string]bool)
	var keywords []store.KeywordCluster
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Errors++
			log.Warn(ctx, "skipping malformed csv row", observe.F("error", err.Error()))
			continue
		}
		stats.Loaded++

		if keywordCol >= len(record) {
			stats.Skipped++
			continue
		}
		keyword := strings.TrimSpace(record[keywordCol])
		if keyword == "" {
			stats.Skipped++
			continue
		}

		slug := Slugify(keyword)
		if slug == "" || seen[slug] {
			stats.Skipped++
			continue
		}
		seen[slug] = true

		volume := 0
		if v := field(record, "volume"); v != "" {
			if n, err := strconv.Atoi(strings.ReplaceAll(v, ",", "")); err == nil {
				volume = n
			}
		}

		keywords = append(keywords, store.KeywordCluster{
			Keyword:      keyword,
			Slug:         slug,
			Cluster:      field(record, "cluster"),
			SearchVolume: volume,
			Intent:       field(record, "intent"),
		})
	}

	if len(keywords) == 0 {
		return stats, nil
	}

	inserted, err := s.UpsertKeywords(ctx, keywords)
	if err != nil {
		stats.Errors++
		return stats, fmt.Errorf("importer: store keywords: %w", err)
	}
	stats.Imported = inserted
	stats.Skipped += len(keywords) - inserted

	log.Info(ctx, "keyword import complete",
		observe.F("loaded", stats.Loaded),
		observe.F("imported", stats.Imported),
		observe.F("skipped", stats.Skipped),
	)
	return stats, nil
}
