package cli

import (
	"github.com/spf13/cobra"

	"github.com/pressgen/pressgen/llm"
	"github.com/pressgen/pressgen/observe"
	"github.com/pressgen/pressgen/resilience"
	"github.com/pressgen/pressgen/store"
)

var embedLimit int

// embedBatchSize bounds texts per embedding request.
const embedBatchSize = 64

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute embeddings for answered questions that lack one",
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

		client, err := llm.NewClient(a.cfg.LLM, resilience.NewRegistry(),
			llm.WithLogger(a.logger),
			llm.WithMetrics(a.metrics),
		)
		if err != nil {
			return err
		}

		questions, err := s.QuestionsWithoutEmbeddings(ctx, embedLimit)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			cmd.Println("all answered questions have embeddings")
			return nil
		}

		saved := 0
		for start := 0; start < len(questions); start += embedBatchSize {
			end := min(start+embedBatchSize, len(questions))
			batch := questions[start:end]

			texts := make([]string, len(batch))
			for i, q := range batch {
				texts[i] = q.Question + "\n" + q.Answer
			}

			vectors, err := client.Embed(ctx, texts)
			if err != nil {
				return err
			}
			for i, q := range batch {
				err := s.SaveEmbedding(ctx, store.Embedding{
					QuestionID: q.ID,
					Model:      a.cfg.LLM.EmbedModel,
					Vector:     vectors[i],
				})
				if err != nil {
					return err
				}
				saved++
			}
			a.logger.Info(ctx, "embedding batch saved",
				observe.F("saved", saved),
				observe.F("total", len(questions)),
			)
		}

		cmd.Printf("embedded %d questions\n", saved)
		return nil
	},
}

func init() {
	embedCmd.Flags().IntVar(&embedLimit, "limit", 1000, "maximum questions to embed")
}
