package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdpower/cchistory/internal/pricing"
	"github.com/sdpower/cchistory/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	fileName      = ".cchistory.yaml"
	configEnv     = "CCHISTORY_CONFIG"
	claudeDirEnv  = "CLAUDE_CONFIG_DIR"
	DefaultFormat = "interactive"
)

// Config holds user preferences read from ~/.cchistory.yaml.
type Config struct {
	DataPath string   `yaml:"data_path"`
	NoColor  bool     `yaml:"no_color"`
	Format   string   `yaml:"format"`
	Pricing  *Pricing `yaml:"pricing,omitempty"`
}

// Pricing overrides the built-in rates. Values are USD per million tokens.
type Pricing struct {
	Input      float64 `yaml:"input"`
	Output     float64 `yaml:"output"`
	CacheWrite float64 `yaml:"cache_write"`
	CacheRead  float64 `yaml:"cache_read"`
}

// Path returns the config file to read: explicit, then $CCHISTORY_CONFIG,
// then ~/.cchistory.yaml.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(configEnv); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fileName), nil
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{Format: DefaultFormat}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidConfig, path, err)
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if _, err := cfg.Rates(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Rates returns the configured rates or pricing.DefaultRates.
func (c *Config) Rates() (pricing.Rates, error) {
	if c.Pricing == nil {
		return pricing.DefaultRates, nil
	}
	rates := pricing.PerMillion(c.Pricing.Input, c.Pricing.Output, c.Pricing.CacheWrite, c.Pricing.CacheRead)
	if err := rates.Validate(); err != nil {
		return pricing.Rates{}, err
	}
	return rates, nil
}

// ResolveDataPath picks the log root: flag, then config file, then the
// Claude Code defaults.
func (c *Config) ResolveDataPath(flag string) string {
	if flag != "" {
		return flag
	}
	if c.DataPath != "" {
		return expandHome(c.DataPath)
	}
	return DefaultDataPath()
}

// DefaultDataPath locates the Claude Code projects directory.
func DefaultDataPath() string {
	// Check environment variable first
	if claudeConfigDir := os.Getenv(claudeDirEnv); claudeConfigDir != "" {
		return claudeConfigDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	claudePath := filepath.Join(homeDir, ".claude", "projects")
	if _, err := os.Stat(claudePath); err == nil {
		return claudePath
	}

	configPath := filepath.Join(homeDir, ".config", "claude", "projects")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	// Fall back to ~/.claude/projects so the missing-directory error names it
	return claudePath
}

func expandHome(path string) string {
	if path != "~" && !hasHomePrefix(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
