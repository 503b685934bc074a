package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Locker      LockerConfig      `toml:"locker"`
	Credentials CredentialsConfig `toml:"credentials"`
	Library     LibraryConfig     `toml:"library"`
	Sync        SyncConfig        `toml:"sync"`
	Database    DatabaseConfig    `toml:"database"`
}

// LockerConfig contains locker service connection settings.
type LockerConfig struct {
	BaseURL string `toml:"base_url"`
}

// CredentialsConfig contains client-specific credentials.
type CredentialsConfig struct {
	Manager ManagerConfig `toml:"manager"`
	Mobile  MobileConfig  `toml:"mobile"`
}

// ManagerConfig contains music manager client credentials.
type ManagerConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	TokenPath    string `toml:"token_path"`
	UploaderID   string `toml:"uploader_id"`
}

// MobileConfig contains mobile client credentials.
type MobileConfig struct {
	Username string `toml:"username"`
	DeviceID string `toml:"device_id"`
}

// LibraryConfig contains local music library settings.
type LibraryConfig struct {
	Paths           []string `toml:"paths"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	MaxDepth        int      `toml:"max_depth"`
}

// SyncConfig contains upload/download settings.
type SyncConfig struct {
	Template  string  `toml:"template"`
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
