package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/sheetlens/internal/config"
	"github.com/KaramelBytes/sheetlens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "sheetlens",
	Short: "sheetlens: schema inference and summary statistics for CSV and spreadsheet files",
	Long: `sheetlens loads a delimited text file or spreadsheet, infers a type per column
from its first row, and computes count, mean, min, max, sum, median and quartiles
for numeric columns. Use it from the command line or run it as an upload service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sheetlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// currentConfig returns the loaded config, or defaults when loading failed.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		ListenAddr:         ":8080",
		UploadDir:          filepath.Join(os.TempDir(), "sheetlens-uploads"),
		MaxUploadBytes:     cfgpkg.DefaultMaxUploadBytes,
		CORSOrigin:         "*",
		ShutdownTimeoutSec: 5,
		PreviewRows:        5,
		BatchJobs:          4,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func newLogger() *slog.Logger {
	c := currentConfig()
	level := c.LogLevel
	if debug {
		level = "debug"
	}
	format := c.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	return logging.New(os.Stderr, level, format)
}
