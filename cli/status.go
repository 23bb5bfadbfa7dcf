package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pressgen/pressgen/cache"
	"github.com/pressgen/pressgen/health"
	"github.com/pressgen/pressgen/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dependency health and content totals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, closeApp, err := setup(ctx)
		if err != nil {
			return err
		}
		defer closeApp()

		agg := health.NewAggregator(10 * time.Second)

		s, err := store.New(ctx, a.cfg.Database)
		if err != nil {
			cmd.Printf("database   unhealthy  %v\n", err)
		} else {
			defer s.Close()
			agg.Register(health.NewPingChecker("database", s))
		}

		if a.cfg.Redis.Addr != "" {
			pages, err := cache.NewRedis(ctx, a.cfg.Redis)
			if err != nil {
				cmd.Printf("redis      unhealthy  %v\n", err)
			} else {
				defer pages.Close()
				agg.Register(health.NewPingChecker("redis", pages))
			}
		}

		report := agg.Check(ctx)
		for _, name := range report.Names {
			r := report.Results[name]
			if r.Err != nil {
				cmd.Printf("%-10s %-10s %v (%s)\n", name, r.Status, r.Err, r.Duration.Round(time.Millisecond))
				continue
			}
			cmd.Printf("%-10s %-10s %s\n", name, r.Status, r.Duration.Round(time.Millisecond))
		}

		if s != nil {
			keywords, err := s.KeywordCount(ctx)
			if err != nil {
				return err
			}
			articles, err := s.ArticleCount(ctx)
			if err != nil {
				return err
			}

			cmd.Println()
			cmd.Printf("keywords: pending=%d generated=%d failed=%d\n",
				keywords[store.StatusPending], keywords[store.StatusGenerated], keywords[store.StatusFailed])
			total := 0
			for _, n := range articles {
				total += n
			}
			cmd.Printf("articles: published=%d total=%d\n", articles["published"], total)
		}
		return nil
	},
}
