package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tradedocs/internal/config"
	"tradedocs/internal/logger"
)

var (
	logLevel string
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:          "extract",
	Short:        "Run import document extractions from the command line",
	Long:         "extract runs the multi-step extraction for a single document against the configured model provider and prints the assembled result.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file to load before reading configuration")
	rootCmd.AddCommand(newRunCmd(), newStepsCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the env file, if any, and the TRADEDOCS_ configuration.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(logger.Config{Level: logLevel, Format: "console"}); err != nil {
		return nil, err
	}
	return cfg, nil
}
