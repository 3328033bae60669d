package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"personify/internal/config"
	"personify/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "personify",
	Short: "personify - personification manual generator (Protocolo Clara R.)",
	Long: `personify turns questionnaire sessions into a personification manual.

It transcribes recorded answers, runs concurrent personality analyses over
the full transcript corpus, and assembles the manual together with a
markdown report and a fine-tuning dataset.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Debug = true
			cfg.Logging.Level = "debug"
		}

		return logging.Initialize(config.StateDir(), logging.Options{
			Debug:      cfg.Logging.Debug,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config",
		filepath.Join(config.StateDir(), "config.yaml"), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logs")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(sessionsCmd)
}
