package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("expected default APIBaseURL='http://localhost:8000', got %q", cfg.APIBaseURL)
	}

	if cfg.CaptionMaxLength != 32 {
		t.Errorf("expected default CaptionMaxLength=32, got %d", cfg.CaptionMaxLength)
	}

	if cfg.PreviewChars != 1200 {
		t.Errorf("expected default PreviewChars=1200, got %d", cfg.PreviewChars)
	}

	if cfg.InFlightGuard {
		t.Error("expected in-flight guard to be off by default")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("expected default APIBaseURL, got %q", cfg.APIBaseURL)
	}

	if cfg.ThumbnailSize != 300 {
		t.Errorf("expected default ThumbnailSize=300, got %d", cfg.ThumbnailSize)
	}
}

func TestSave_And_Load(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.APIBaseURL = "https://stegshare.example.com"
	cfg.CaptionMaxLength = 64
	cfg.InFlightGuard = true
	cfg.ImageExtensions = []string{".png"}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("APIBaseURL: expected %q, got %q", cfg.APIBaseURL, loaded.APIBaseURL)
	}

	if loaded.CaptionMaxLength != 64 {
		t.Errorf("CaptionMaxLength: expected 64, got %d", loaded.CaptionMaxLength)
	}

	if !loaded.InFlightGuard {
		t.Error("InFlightGuard: expected true")
	}

	if len(loaded.ImageExtensions) != 1 || loaded.ImageExtensions[0] != ".png" {
		t.Errorf("ImageExtensions: got %v", loaded.ImageExtensions)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `api_base_url: http://api.local:9000/
caption_max_length: 0
preview_chars: -5
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.APIBaseURL != "http://api.local:9000" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}

	if cfg.CaptionMaxLength != 32 {
		t.Errorf("expected CaptionMaxLength default 32, got %d", cfg.CaptionMaxLength)
	}

	if cfg.PreviewChars != 1200 {
		t.Errorf("expected PreviewChars default 1200, got %d", cfg.PreviewChars)
	}

	if len(cfg.ImageExtensions) == 0 {
		t.Error("expected default image extensions")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("api_base_url: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("api_base_url: http://from-file\nverbose: false\n"), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	t.Setenv(EnvAPIURL, "http://from-env:8000")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvLogFile, "/tmp/stegshare-test.log")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.APIBaseURL != "http://from-env:8000" {
		t.Errorf("expected env API URL, got %q", cfg.APIBaseURL)
	}
	if !cfg.Verbose {
		t.Error("expected verbose from env")
	}
	if cfg.LogFile != "/tmp/stegshare-test.log" {
		t.Errorf("expected env log file, got %q", cfg.LogFile)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"garbage", true, true},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Setenv("STEGSHARE_TEST_BOOL", tt.value)
		if got := getEnvAsBool("STEGSHARE_TEST_BOOL", tt.fallback); got != tt.want {
			t.Errorf("getEnvAsBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
		}
	}
}
