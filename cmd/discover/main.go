// Command discover queries GitHub for Nano AI repositories and rewrites
// the curated table in README.md.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/adapter/actions"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/adapter/github"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/adapter/readme"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/config"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/formatter"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/service"
)

var (
	cfgFile    string
	readmePath string
	minStars   int
	dryRun     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Nano AI services on GitHub and update README.md",
	Long: `discover searches GitHub for repositories matching the curated "nano" AI
query list, merges the results with the table embedded in README.md, and
rewrites that table with deduplicated, star-sorted entries.

Intended to run from CI: set GITHUB_TOKEN for authenticated API access
and GITHUB_OUTPUT to receive the new_count / new_services outputs.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: ./awesome-nano-ai.yaml)")
	rootCmd.Flags().StringVar(&readmePath, "readme", "", "README to update (default: README.md)")
	rootCmd.Flags().IntVar(&minStars, "min-stars", config.DefaultMinStars, "minimum star count for search results")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing the README")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	// .env is a local convenience; CI sets real environment variables.
	_ = godotenv.Load()

	logger := newLogger(verbose)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if readmePath != "" {
		cfg.DocPath = readmePath
	}
	if cmd.Flags().Changed("min-stars") {
		cfg.MinStars = minStars
	}
	if dryRun {
		cfg.DryRun = true
	}

	// Cancel in-flight API calls on Ctrl+C.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	searcher := github.NewSearcher(cfg.Token, cfg.MinStars)
	store := readme.NewStore(cfg.DocPath, cfg.MarkerStart, cfg.MarkerEnd)
	reporter := actions.NewReporter(cfg.OutputPath)

	svc := service.NewDiscoveryService(cfg, searcher, store, reporter, logger)

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if len(res.New) > 0 {
		fmt.Println("\nNewly added repositories:")
		formatter.RenderNewRepos(os.Stdout, res.New)
	}

	switch {
	case res.Wrote:
		fmt.Printf("\nREADME updated with %d new entries\n", len(res.New))
	case cfg.DryRun:
		fmt.Printf("\nDry run: %d new entries would be added\n", len(res.New))
	default:
		fmt.Println("\nREADME left unchanged")
	}

	return nil
}

// newLogger builds the console logger for the run.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
