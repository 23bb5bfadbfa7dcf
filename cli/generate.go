package cli

import (
	"github.com/spf13/cobra"

	"github.com/pressgen/pressgen/generate"
	"github.com/pressgen/pressgen/llm"
	"github.com/pressgen/pressgen/resilience"
	"github.com/pressgen/pressgen/store"
)

var (
	generateLimit   int
	generateWorkers int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate articles for pending keywords",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, closeApp, err := setup(ctx)
		if err != nil {
			return err
		}
		defer closeApp()

		s, err := store.New(ctx, a.cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()

		reg := resilience.NewRegistry()
		client, err := llm.NewClient(a.cfg.LLM, reg,
			llm.WithLogger(a.logger),
			llm.WithMetrics(a.metrics),
		)
		if err != nil {
			return err
		}

		gcfg := a.cfg.Generate
		if generateLimit > 0 {
			gcfg.BatchLimit = generateLimit
		}
		if generateWorkers > 0 {
			gcfg.Workers = generateWorkers
		}

		g := generate.NewGenerator(gcfg, s, client, a.logger, a.metrics)
		stats, err := g.Run(ctx)
		cmd.Printf("pending=%d generated=%d failed=%d aborted=%v\n",
			stats.Pending, stats.Generated, stats.Failed, stats.Aborted)
		return err
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateLimit, "limit", 0, "override batch size")
	generateCmd.Flags().IntVar(&generateWorkers, "workers", 0, "override worker count")
}
