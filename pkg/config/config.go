package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	APIBaseURL            string `yaml:"api_base_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`

	// Upload form
	CaptionMaxLength  int      `yaml:"caption_max_length"`
	PreviewChars      int      `yaml:"preview_chars"`
	ThumbnailSize     uint     `yaml:"thumbnail_size"`
	ImageExtensions   []string `yaml:"image_extensions"`
	CopyHiddenMessage bool     `yaml:"copy_hidden_message"`

	// In-flight guard
	InFlightGuard      bool `yaml:"in_flight_guard"`
	InFlightTTLSeconds int  `yaml:"in_flight_ttl_seconds"`

	// UI Settings
	ColorTheme  string `yaml:"color_theme"`
	Editor      string `yaml:"editor"`
	ImageViewer string `yaml:"image_viewer"`

	// Logging
	LogFile string `yaml:"log_file"`
	Verbose bool   `yaml:"verbose"`

	// Watch
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// Mock server
	MockServerPort   int    `yaml:"mock_server_port"`
	MockServerSecret string `yaml:"mock_server_secret"`

	// Charts
	ChartOutput string `yaml:"chart_output"`
}

// Environment variables that override file values
const (
	EnvAPIURL  = "STEGSHARE_API_URL"
	EnvLogFile = "STEGSHARE_LOG_FILE"
	EnvVerbose = "STEGSHARE_VERBOSE"
)

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:            "http://localhost:8000",
		RequestTimeoutSeconds: 60,
		CaptionMaxLength:      32,
		PreviewChars:          1200,
		ThumbnailSize:         300,
		ImageExtensions:       []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"},
		CopyHiddenMessage:     false,
		InFlightGuard:         false,
		InFlightTTLSeconds:    120,
		ColorTheme:            "auto",
		Editor:                "",
		ImageViewer:           "",
		LogFile:               "",
		Verbose:               false,
		WatchDebounceMS:       500,
		MockServerPort:        8000,
		MockServerSecret:      "stegshare-dev-secret",
		ChartOutput:           "",
	}
}

// Load reads configuration from the specified file path, then applies
// environment overrides (a .env file in the working directory is honoured)
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Missing .env is the common case
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIBaseURL = getEnv(EnvAPIURL, c.APIBaseURL)
	c.LogFile = getEnv(EnvLogFile, c.LogFile)
	c.Verbose = getEnvAsBool(EnvVerbose, c.Verbose)
}

// applyDefaults restores essential values left empty by the file
func (c *Config) applyDefaults() {
	d := DefaultConfig()

	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = d.APIBaseURL
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = d.RequestTimeoutSeconds
	}
	if c.CaptionMaxLength <= 0 {
		c.CaptionMaxLength = d.CaptionMaxLength
	}
	if c.PreviewChars <= 0 {
		c.PreviewChars = d.PreviewChars
	}
	if c.ThumbnailSize == 0 {
		c.ThumbnailSize = d.ThumbnailSize
	}
	if len(c.ImageExtensions) == 0 {
		c.ImageExtensions = d.ImageExtensions
	}
	if c.InFlightTTLSeconds <= 0 {
		c.InFlightTTLSeconds = d.InFlightTTLSeconds
	}
	if c.ColorTheme == "" {
		c.ColorTheme = d.ColorTheme
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = d.WatchDebounceMS
	}
	if c.MockServerPort <= 0 {
		c.MockServerPort = d.MockServerPort
	}
	if c.MockServerSecret == "" {
		c.MockServerSecret = d.MockServerSecret
	}
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
