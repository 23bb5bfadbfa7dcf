package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/pressgen/pressgen/cache"
	"github.com/pressgen/pressgen/store"
)

var warmLimit int

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Prefill the Redis page cache with published articles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, closeApp, err := setup(ctx)
		if err != nil {
			return err
		}
		defer closeApp()

		if a.cfg.Redis.Addr == "" {
			return errors.New("warm requires redis.addr in the configuration")
		}

		s, err := store.New(ctx, a.cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()

		pages, err := cache.NewRedis(ctx, a.cfg.Redis)
		if err != nil {
			return err
		}
		defer pages.Close()

		articles, err := s.PublishedArticles(ctx, warmLimit)
		if err != nil {
			return err
		}

		defaultTTL := a.cfg.Generate.CacheTTL
		if defaultTTL <= 0 {
			defaultTTL = 24 * time.Hour
		}

		warmed := 0
		now := time.Now()
		for _, art := range articles {
			ttl := defaultTTL
			if art.CacheExpiresAt != nil {
				ttl = art.CacheExpiresAt.Sub(now)
			}
			if ttl <= 0 {
				continue
			}
			if err := pages.Set(ctx, art.Slug, []byte(art.HTML), ttl); err != nil {
				return err
			}
			warmed++
		}

		cmd.Printf("warmed %d of %d articles\n", warmed, len(articles))
		return nil
	},
}

func init() {
	warmCmd.Flags().IntVar(&warmLimit, "limit", 1000, "maximum articles to warm")
}
