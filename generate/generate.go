package generate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/pressgen/pressgen/llm"
	"github.com/pressgen/pressgen/observe"
	"github.com/pressgen/pressgen/resilience"
	"github.com/pressgen/pressgen/store"
)

// ErrEmptyArticle is returned when the model's output sanitizes down
// to nothing.
var ErrEmptyArticle = errors.New("generate: model returned empty article")

// Config controls one batch run.
type Config struct {
	BatchLimit      int           `yaml:"batch_limit"`
	Workers         int           `yaml:"workers"`
	ContextSnippets int           `yaml:"context_snippets"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	MaxTokens       int           `yaml:"max_tokens"`
	Temperature     float64       `yaml:"temperature"`
}

func (c *Config) applyDefaults() {
	if c.BatchLimit <= 0 {
		c.BatchLimit = 25
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.ContextSnippets <= 0 {
		c.ContextSnippets = 5
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 7 * 24 * time.Hour
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 2048
	}
}

// Store is the persistence surface the pipeline needs.
type Store interface {
	ListPending(ctx context.Context, limit int) ([]store.KeywordCluster, error)
	SearchContext(ctx context.Context, topic string, limit int) ([]store.Snippet, error)
	SaveArticle(ctx context.Context, a store.Article, ttl time.Duration) (uuid.UUID, error)
	SetKeywordStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Completer is the LLM surface the pipeline needs.
type Completer interface {
	Complete(ctx context.Context, req llm.ChatRequest) (*llm.Completion, error)
}

// BatchStats summarizes one Run.
type BatchStats struct {
	Pending   int
	Generated int
	Failed    int
	Aborted   bool
}

// Generator turns pending keywords into published articles.
type Generator struct {
	cfg       Config
	store     Store
	llm       Completer
	sanitizer *bluemonday.Policy
	logger    observe.Logger
	metrics   observe.Metrics
}

// NewGenerator wires a batch generator.
func NewGenerator(cfg Config, s Store, c Completer, logger observe.Logger, metrics observe.Metrics) *Generator {
	cfg.applyDefaults()
	if logger == nil {
		logger = observe.NopLogger()
	}
	if metrics == nil {
		metrics = observe.NopMetrics()
	}
	return &Generator{
		cfg:       cfg,
		store:     s,
		llm:       c,
		sanitizer: newSanitizer(),
		logger:    logger.With("generate"),
		metrics:   metrics,
	}
}

// Run processes one batch of pending keywords. Item failures are
// recorded against the keyword and do not stop the batch; an open
// circuit does, since every remaining call would be rejected too.
func (g *Generator) Run(ctx context.Context) (BatchStats, error) {
	var stats BatchStats

	pending, err := g.store.ListPending(ctx, g.cfg.BatchLimit)
	if err != nil {
		return stats, fmt.Errorf("generate: list pending: %w", err)
	}
	stats.Pending = len(pending)
	if len(pending) == 0 {
		g.logger.Info(ctx, "no pending keywords")
		return stats, nil
	}

	g.logger.Info(ctx, "starting batch",
		observe.F("pending", len(pending)),
		observe.F("workers", g.cfg.Workers),
	)

	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.cfg.Workers)

	for _, k := range pending {
		grp.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			err := g.generateOne(gctx, k)
			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				stats.Generated++
				return nil
			case errors.Is(err, resilience.ErrCircuitOpen):
				stats.Failed++
				stats.Aborted = true
				g.logger.Error(gctx, "circuit open, aborting batch",
					observe.F("keyword", k.Keyword))
				return err
			default:
				stats.Failed++
				g.logger.Warn(gctx, "keyword failed",
					observe.F("keyword", k.Keyword),
					observe.F("error", err.Error()),
				)
				return nil
			}
		})
	}

	err = grp.Wait()
	g.logger.Info(ctx, "batch complete",
		observe.F("generated", stats.Generated),
		observe.F("failed", stats.Failed),
		observe.F("aborted", stats.Aborted),
	)
	return stats, err
}

func (g *Generator) generateOne(ctx context.Context, k store.KeywordCluster) error {
	start := time.Now()
	err := g.generateArticle(ctx, k)
	g.metrics.RecordArticle(ctx, time.Since(start), err)

	if err != nil {
		if serr := g.store.SetKeywordStatus(ctx, k.ID, store.StatusFailed); serr != nil {
			g.logger.Warn(ctx, "could not mark keyword failed",
				observe.F("keyword", k.Keyword),
				observe.F("error", serr.Error()),
			)
		}
		return err
	}
	return g.store.SetKeywordStatus(ctx, k.ID, store.StatusGenerated)
}

func (g *Generator) generateArticle(ctx context.Context, k store.KeywordCluster) error {
	snippets, err := g.store.SearchContext(ctx, k.Keyword, g.cfg.ContextSnippets)
	if err != nil {
		return fmt.Errorf("generate: context for %q: %w", k.Keyword, err)
	}

	completion, err := g.llm.Complete(ctx, llm.ChatRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(k, snippets),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return err
	}

	articleHTML := cleanHTML(g.sanitizer, completion.Content)
	if articleHTML == "" {
		return ErrEmptyArticle
	}

	_, err = g.store.SaveArticle(ctx, store.Article{
		KeywordID: k.ID,
		Slug:      k.Slug,
		Title:     extractTitle(articleHTML, k.Keyword),
		HTML:      articleHTML,
		Model:     completion.Model,
	}, g.cfg.CacheTTL)
	if err != nil {
		return err
	}

	g.logger.Info(ctx, "article generated",
		observe.F("slug", k.Slug),
		observe.F("tokens", completion.OutputTokens),
	)
	return nil
}
