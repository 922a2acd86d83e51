package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"metasearch/api"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "metasearch",
	Short: "LLM-planned metasearch across Wikipedia, Reddit, podcasts and photos",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search page",
	RunE:  runServe,
}

var planCmd = &cobra.Command{
	Use:   "plan <topic>",
	Short: "Print the engine-tagged sub-queries for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlan,
}

var searchCmd = &cobra.Command{
	Use:   "search <topic>",
	Short: "Run the full search and print the deduplicated results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var imagesCmd = &cobra.Command{
	Use:   "images <text>",
	Short: "Query the image vector index directly",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImages,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd, planCmd, searchCmd, imagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := setup()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if svc.images != nil {
		if err := svc.images.EnsureImageCollection(ctx); err != nil {
			svc.logger.Warn("image collection unavailable", zap.Error(err))
		}
	}

	server := api.NewServer(svc.pipeline, svc.logger, svc.cfg.AppPort)
	return server.Start(ctx)
}

func runPlan(cmd *cobra.Command, args []string) error {
	svc, err := setup()
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.planner == nil {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	queries, err := svc.planner.Plan(cmd.Context(), joinArgs(args))
	for _, q := range queries {
		fmt.Fprintln(cmd.OutOrStdout(), q.String())
	}
	return err
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := setup()
	if err != nil {
		return err
	}
	defer svc.Close()

	outcome := svc.pipeline.Search(cmd.Context(), joinArgs(args))
	printOutcome(cmd, outcome)
	return nil
}

func runImages(cmd *cobra.Command, args []string) error {
	svc, err := setup()
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.images == nil {
		return fmt.Errorf("QDRANT_HOST and CLIP_EMBEDDING_URL must be set")
	}
	outcome := svc.pipeline.Images(cmd.Context(), joinArgs(args))
	printOutcome(cmd, outcome)
	return nil
}
