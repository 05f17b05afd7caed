package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/config"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagDelimiter = "delimiter"
	flagWorkers   = "workers"

	logFormatJSON = "json"
	logFormatText = "text"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	delimiter string
	workers   int

	cfg    config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "rankstat",
	Short: "Rank correlation and descriptive statistics for CSV tables",
	Long: `Rank the rows of CSV tables by a numeric column, match two rankings
by label and measure their agreement with Spearman and Kendall coefficients.
Also describes, bins and samples numeric columns.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, flagConfig, "",
		"config file (default is $HOME/.rankstat.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, flagLogLevel, "info",
		"logging level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, flagLogFormat, logFormatText,
		"logging format (text|json)")
	rootCmd.PersistentFlags().StringVar(&delimiter, flagDelimiter, "auto",
		"field delimiter (auto detects among , ; tab |)")
	rootCmd.PersistentFlags().IntVar(&workers, flagWorkers, 0,
		"number of parallel workers (0 sizes the pool from CPU cores and input size)")
}

// loadSettings merges .env, config file, environment and flags, then
// builds the logger shared by every command.
func loadSettings(cmd *cobra.Command, _ []string) error {
	// a missing .env file is not an error
	_ = godotenv.Load()

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed(flagLogLevel) {
		loaded.LogLevel = logLevel
	}
	if flags.Changed(flagLogFormat) {
		loaded.LogFormat = logFormat
	}
	if flags.Changed(flagDelimiter) {
		loaded.Delimiter = delimiter
	}
	if flags.Changed(flagWorkers) {
		loaded.Workers = workers
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	cfg = loaded

	logger, err = newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("delimiter", cfg.Delimiter).
		Int("workers", cfg.Workers).
		Int("schemas", len(cfg.Schemas)).
		Msg("settings loaded")
	return nil
}

func newLogger(level, format string) (zerolog.Logger, error) {
	logLvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var w = os.Stderr
	switch format {
	case logFormatJSON:
		return zerolog.New(w).Level(logLvl).With().Timestamp().Logger(), nil
	case logFormatText:
		return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(logLvl).With().Timestamp().Logger(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("invalid logging format: %s", format)
	}
}
