package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/streamdown/streamdown/internal/ui"
)

type Config struct {
	Mode       string         `mapstructure:"mode"`        // "repaint" or "flow"
	IntervalMs int            `mapstructure:"interval_ms"` // minimum ms between repaints
	Width      int            `mapstructure:"width"`       // 0 = detect from terminal
	Style      string         `mapstructure:"style"`       // markdown style: dark, light, notty...
	CodeStyle  string         `mapstructure:"code_style"`  // highlighting style for code blocks
	CacheSize  int            `mapstructure:"cache_size"`  // rendered-block cache entries
	Theme      ui.ThemeConfig `mapstructure:"theme"`
}

func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("STREAMDOWN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("mode", "repaint")
	viper.SetDefault("interval_ms", 50)
	viper.SetDefault("width", 0) // detect
	viper.SetDefault("style", "dark")
	viper.SetDefault("code_style", "monokai")
	viper.SetDefault("cache_size", 256)

	// Read config file (optional - won't error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyOverrides applies command-line overrides to the config. Zero and
// empty values leave the loaded settings in place.
func (c *Config) ApplyOverrides(mode string, intervalMs, width int) {
	if mode != "" {
		c.Mode = mode
	}
	if intervalMs > 0 {
		c.IntervalMs = intervalMs
	}
	if width > 0 {
		c.Width = width
	}
}

// Validate rejects settings the renderer cannot work with.
func (c *Config) Validate() error {
	switch c.Mode {
	case "repaint", "flow":
	default:
		return fmt.Errorf("invalid mode %q: must be \"repaint\" or \"flow\"", c.Mode)
	}
	if c.IntervalMs < 0 {
		return fmt.Errorf("interval_ms must not be negative, got %d", c.IntervalMs)
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// GetConfigDir returns the XDG config directory for streamdown.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "streamdown"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "streamdown"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# Output mode: "repaint" redraws changed blocks in place,
# "flow" appends blocks once they are complete.
mode: %s

# Minimum milliseconds between repaints while streaming.
interval_ms: %d

# Wrap width in terminal cells. 0 detects the terminal width.
width: %d

# Markdown style set: dark, light, notty, ...
style: %s

# Syntax highlighting style for fenced code blocks.
code_style: %s

# Rendered-block cache entries.
cache_size: %d

# theme:
#   primary: "#83a598"
#   success: "#b8bb26"
#   error: "#fb4934"
`, cfg.Mode, cfg.IntervalMs, cfg.Width, cfg.Style, cfg.CodeStyle, cfg.CacheSize)

	return os.WriteFile(path, []byte(content), 0600)
}
