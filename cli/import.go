package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/pressgen/pressgen/importer"
	"github.com/pressgen/pressgen/store"
)

var (
	importKeywordsPath string
	importPAAPath      string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import keyword CSV and PAA JSONL files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if importKeywordsPath == "" && importPAAPath == "" {
			return errors.New("nothing to import: pass --keywords and/or --paa")
		}

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

		if importKeywordsPath != "" {
			f, err := os.Open(importKeywordsPath)
			if err != nil {
				return err
			}
			stats, err := importer.ImportKeywords(ctx, s, f, a.logger)
			f.Close()
			if err != nil {
				return err
			}
			cmd.Printf("keywords: loaded=%d imported=%d skipped=%d errors=%d\n",
				stats.Loaded, stats.Imported, stats.Skipped, stats.Errors)
		}

		if importPAAPath != "" {
			f, err := os.Open(importPAAPath)
			if err != nil {
				return err
			}
			stats, err := importer.ImportQuestions(ctx, s, f, a.logger)
			f.Close()
			if err != nil {
				return err
			}
			cmd.Printf("questions: loaded=%d imported=%d skipped=%d errors=%d\n",
				stats.Loaded, stats.Imported, stats.Skipped, stats.Errors)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importKeywordsPath, "keywords", "", "keyword research CSV export")
	importCmd.Flags().StringVar(&importPAAPath, "paa", "", "PAA results JSONL file")
}
