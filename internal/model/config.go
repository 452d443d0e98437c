package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appDirName = "itodo"

// StorageConfig locates the database file.
type StorageConfig struct {
	// DataDir holds the database and default export files.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// DBFile is the database file name inside DataDir.
	DBFile string `mapstructure:"db_file" yaml:"db_file"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ClockConfig controls how "today" is computed.
type ClockConfig struct {
	// Timezone is an IANA name; "today" is the current date in this zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// DisplayConfig holds terminal rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Clock   ClockConfig   `mapstructure:"clock" yaml:"clock"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DBPath returns the full path of the database file.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.DBFile)
}

// Location resolves Clock.Timezone, falling back to UTC when unset.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Clock.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Clock.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Clock.Timezone, err)
	}
	return loc, nil
}

// DefaultDataDir returns the per-OS application data directory,
// e.g. ~/.config/itodo on Linux.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appDirName)
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			DataDir: DefaultDataDir(),
			DBFile:  "itodo.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Clock: ClockConfig{
			Timezone: "UTC",
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with ITODO_ override file values
// (ITODO_LOG_LEVEL, ITODO_STORAGE_DATA_DIR, ...). If the file does not
// exist, defaults plus environment overrides are returned.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ITODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.data_dir", def.Storage.DataDir)
	v.SetDefault("storage.db_file", def.Storage.DBFile)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("clock.timezone", def.Clock.Timezone)
	v.SetDefault("display.theme", def.Display.Theme)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = def.Storage.DataDir
	}
	if cfg.Storage.DBFile == "" {
		cfg.Storage.DBFile = def.Storage.DBFile
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)
	v.Set("clock", cfg.Clock)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
