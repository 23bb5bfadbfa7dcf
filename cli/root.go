// Package cli wires the pressgen commands: schema migration, data
// import, article generation, embeddings, cache warming, and status.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pressgen/pressgen/config"
	"github.com/pressgen/pressgen/observe"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "pressgen",
	Short:         "Programmatic SEO content engine",
	Long:          "pressgen imports keyword research, generates grounded articles through a guarded LLM client, and serves them from a TTL page cache.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the configuration file")

	rootCmd.AddCommand(
		migrateCmd,
		importCmd,
		generateCmd,
		embedCmd,
		warmCmd,
		statusCmd,
	)
}

// app bundles the pieces every command needs.
type app struct {
	cfg     *config.AppConfig
	obs     observe.Observer
	logger  observe.Logger
	metrics observe.Metrics
}

// setup loads configuration and telemetry. Callers must invoke close
// when done.
func setup(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	obs, err := observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return nil, nil, err
	}

	a := &app{cfg: cfg, obs: obs, logger: obs.Logger(), metrics: metrics}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}
	return a, cleanup, nil
}

// signalContext returns a context canceled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
