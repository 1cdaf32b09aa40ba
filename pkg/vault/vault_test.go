package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVault_GetPreviewPath(t *testing.T) {
	v := NewAt("/test/vault", "/test/config.yaml")

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"png thumbnail", "cat.png", "/test/vault/cache/previews/cat.png"},
		{"hashed name", "3f2a-cat.png", "/test/vault/cache/previews/3f2a-cat.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.GetPreviewPath(tt.filename)
			if result != tt.expected {
				t.Errorf("GetPreviewPath(%q) = %q, want %q", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestVault_FilePaths(t *testing.T) {
	v := NewAt("/test/vault", "/test/config.yaml")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"session", v.SessionFile(), "/test/vault/session.yaml"},
		{"draft", v.DraftFile(), "/test/vault/draft.yaml"},
		{"log", v.LogFile(), "/test/vault/logs/stegshare.log"},
		{"chart", v.GetChartPath("feed.html"), "/test/vault/charts/feed.html"},
		{"cache", v.GetCachePath("x.json"), "/test/vault/cache/x.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s path = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestVault_Initialize(t *testing.T) {
	root := filepath.Join(t.TempDir(), "stegshare")
	v := NewAt(root, filepath.Join(root, "config.yaml"))

	if v.Exists() {
		t.Fatal("vault should not exist before Initialize")
	}

	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	for _, dir := range []string{v.RootPath, v.CachePath, v.PreviewPath, v.LogsPath, v.ChartsPath} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s was not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	if !v.Exists() {
		t.Error("vault should exist after Initialize")
	}

	// Idempotent
	if err := v.Initialize(); err != nil {
		t.Errorf("second Initialize() failed: %v", err)
	}
}

func TestVault_CleanCache(t *testing.T) {
	root := t.TempDir()
	v := NewAt(root, filepath.Join(root, "config.yaml"))
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	stale := v.GetPreviewPath("old.png")
	if err := os.WriteFile(stale, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write preview: %v", err)
	}

	if err := v.CleanCache(); err != nil {
		t.Fatalf("CleanCache() failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale preview should be removed")
	}
	if _, err := os.Stat(v.PreviewPath); err != nil {
		t.Error("preview directory should be recreated")
	}
}

func TestNew_UsesXDG(t *testing.T) {
	data := t.TempDir()
	cfg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CONFIG_HOME", cfg)

	v, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if v.RootPath != filepath.Join(data, "stegshare") {
		t.Errorf("RootPath = %q", v.RootPath)
	}
	if v.ConfigPath != filepath.Join(cfg, "stegshare", "config.yaml") {
		t.Errorf("ConfigPath = %q", v.ConfigPath)
	}
}
