package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cyber-phys/hyperplex/internal/config"
	"github.com/cyber-phys/hyperplex/internal/util"
	"github.com/cyber-phys/hyperplex/pkg/logger"
	"github.com/cyber-phys/hyperplex/pkg/logger/console"

	"github.com/spf13/cobra"
)

var (
	cfg config.Config

	graphPath   string
	forceReinit bool
	debug       bool
	envFile     string
)

var rootCmd = &cobra.Command{
	Use:   "hyperplex",
	Short: "Ingest screenshots and documents into a directed hypergraph",
	Long: `hyperplex captures evidence (screenshots, OCR'd documents), annotates it
with language models and appends it to a single JSON hypergraph file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			util.LoadEnv(envFile)
		} else {
			util.LoadEnv()
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("graph") {
			cfg.GraphPath = graphPath
		}

		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug:  debug || cfg.Debug,
			Prefix: "hyperplex",
		}))
		return nil
	},
}

// Execute runs the root command under a context canceled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&graphPath, "graph", "", "Hypergraph file (overrides GRAPH_PATH)")
	rootCmd.PersistentFlags().BoolVar(&forceReinit, "force-reinit", false, "Move a corrupt hypergraph aside and start empty")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load variables from this file instead of .env")
}
