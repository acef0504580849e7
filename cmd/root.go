package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"marquee/config"
	"marquee/shared/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "A shared movie list for two",
	Long: `marquee keeps one movie list for a household: search OMDb, save what
you want to see, mark what each of you has watched, and keep a few to-do lists
next to it.`,
	PersistentPreRunE: initializeApp,
	RunE:              runServe,
	SilenceUsage:      true,
}

// Execute runs the root command. Without a subcommand it serves the app.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (yaml, json or toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// initializeApp loads configuration and sets up logging for every command.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = logger.Init(logger.Options{
		Environment: cfg.Environment,
		Debug:       cfg.Debug,
		File:        cfg.LogFile,
	})
	return nil
}
