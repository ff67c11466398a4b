package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// HTTP boundary
	ListenAddr         string `mapstructure:"listen_addr" yaml:"listen_addr"`
	UploadDir          string `mapstructure:"upload_dir" yaml:"upload_dir"`
	MaxUploadBytes     int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	CORSOrigin         string `mapstructure:"cors_origin" yaml:"cors_origin"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`

	// Analysis
	PreviewRows  int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	BatchJobs    int    `mapstructure:"batch_jobs" yaml:"batch_jobs"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultMaxUploadBytes is the upload cap enforced by the HTTP boundary.
const DefaultMaxUploadBytes = 10 << 20

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// A .env file in the working directory is merged into the environment first.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load() // optional; real env vars are not overwritten

	v := viper.New()
	v.SetEnvPrefix("SHEETLENS")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("upload_dir", "")
	v.SetDefault("max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("cors_origin", "*")
	v.SetDefault("shutdown_timeout_sec", 5)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("csv_delimiter", "")
	v.SetDefault("batch_jobs", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(os.TempDir(), "sheetlens-uploads")
	}
	return &c, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sheetlens"), nil
}

// Delimiter converts the csv_delimiter setting (",", ";", "tab") to a rune.
// An empty setting yields 0: pick by file extension.
func Delimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s", s)
	}
}
