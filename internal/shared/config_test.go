package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "mlx.db" {
			t.Errorf("expected database path mlx.db, got %s", config.Database.Path)
		}

		if config.Locker.BaseURL != "http://localhost:8080" {
			t.Errorf("expected locker base URL http://localhost:8080, got %s", config.Locker.BaseURL)
		}

		if config.Library.MaxDepth != -1 {
			t.Errorf("expected unlimited scan depth, got %d", config.Library.MaxDepth)
		}

		if config.Sync.Template != "%albumartist%/%album%/%track2% - %title%" {
			t.Errorf("unexpected default download template %s", config.Sync.Template)
		}

		if config.Sync.Workers != 5 {
			t.Errorf("expected 5 sync workers, got %d", config.Sync.Workers)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[locker]
base_url = "https://locker.example.com"

[credentials.manager]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:8080/callback"
token_path = "/tmp/token.json"
uploader_id = "00:11:22:33:44:55"

[credentials.mobile]
username = "listener"
device_id = "device-1"

[library]
paths = ["/music"]
exclude_patterns = ["\\.part$"]
max_depth = 2

[sync]
template = "%artist%/%title%"
workers = 3
rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Locker.BaseURL != "https://locker.example.com" {
			t.Errorf("expected locker base URL https://locker.example.com, got %s", config.Locker.BaseURL)
		}

		if config.Credentials.Manager.ClientID != "test_client_id" {
			t.Errorf("expected manager client_id test_client_id, got %s", config.Credentials.Manager.ClientID)
		}

		if config.Credentials.Mobile.DeviceID != "device-1" {
			t.Errorf("expected mobile device_id device-1, got %s", config.Credentials.Mobile.DeviceID)
		}

		if len(config.Library.Paths) != 1 || config.Library.Paths[0] != "/music" {
			t.Errorf("expected library paths [/music], got %v", config.Library.Paths)
		}

		if config.Library.MaxDepth != 2 {
			t.Errorf("expected max depth 2, got %d", config.Library.MaxDepth)
		}

		if config.Sync.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.Sync.RateLimit)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
