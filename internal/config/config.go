package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
	"github.com/danielpatrickdp/language-alignment/internal/exemplar"
)

// #region config
// Config holds the inputs and limits for an alignment analysis.
type Config struct {
	// Language datasets
	DatasetDir string   `yaml:"dataset_dir"`
	Datasets   []string `yaml:"datasets"`

	// Alignment inputs
	PhrasePrefix  string `yaml:"phrase_prefix"`  // directory holding phrase-table
	GrammarPath   string `yaml:"grammar_path"`   // JSON escape map, optional
	FrontiersPath string `yaml:"frontiers_path"` // JSON frontiers

	// Limits
	MaxTranslations int `yaml:"max_translations"`
	MaxTasks        int `yaml:"max_tasks"`

	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// DefaultConfig returns the limits used when no config file is given.
func DefaultConfig() Config {
	return Config{
		MaxTranslations: alignment.DefaultMaxTranslations,
		MaxTasks:        exemplar.DefaultMaxTasks,
		DBPath:          "language_alignment.db",
		LogLevel:        "info",
	}
}
// #endregion config

// #region load
// Load reads a YAML config over the defaults. An empty path or a missing
// file yields the defaults. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.DBPath = envOr("LANGALIGN_DB", c.DBPath)
	c.DatasetDir = envOr("LANGALIGN_DATASET_DIR", c.DatasetDir)
	c.PhrasePrefix = envOr("LANGALIGN_PHRASE_PREFIX", c.PhrasePrefix)
	c.LogLevel = envOr("LANGALIGN_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("LANGALIGN_MAX_TRANSLATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LANGALIGN_MAX_TRANSLATIONS: %w", err)
		}
		c.MaxTranslations = n
	}
	return nil
}
// #endregion load

// #region validate
// Validate rejects limits the pipeline cannot run with.
func (c Config) Validate() error {
	if c.MaxTranslations <= 0 {
		return fmt.Errorf("max_translations: %w", alignment.ErrInvalidMaxTranslations)
	}
	if c.MaxTasks <= 0 {
		return fmt.Errorf("max_tasks must be positive, got %d", c.MaxTasks)
	}
	return nil
}
// #endregion validate

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
