package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "stegshare"

// Vault represents the managed data directory of the client
type Vault struct {
	RootPath    string
	CachePath   string
	PreviewPath string
	LogsPath    string
	ChartsPath  string
	ConfigPath  string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine vault root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return NewAt(rootPath, configPath), nil
}

// NewAt creates a vault rooted at an explicit directory
func NewAt(rootPath, configPath string) *Vault {
	cachePath := filepath.Join(rootPath, "cache")
	return &Vault{
		RootPath:    rootPath,
		CachePath:   cachePath,
		PreviewPath: filepath.Join(cachePath, "previews"),
		LogsPath:    filepath.Join(rootPath, "logs"),
		ChartsPath:  filepath.Join(rootPath, "charts"),
		ConfigPath:  configPath,
	}
}

// getVaultRoot returns the vault root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getVaultRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the vault directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.CachePath,
		v.PreviewPath,
		v.LogsPath,
		v.ChartsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the vault has been initialized
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// SessionFile is where the signed-in session is persisted
func (v *Vault) SessionFile() string {
	return filepath.Join(v.RootPath, "session.yaml")
}

// DraftFile is where the staged upload form is persisted
func (v *Vault) DraftFile() string {
	return filepath.Join(v.RootPath, "draft.yaml")
}

// LogFile returns the default log file path
func (v *Vault) LogFile() string {
	return filepath.Join(v.LogsPath, appName+".log")
}

// GetPreviewPath returns the full path for a preview thumbnail
func (v *Vault) GetPreviewPath(filename string) string {
	return filepath.Join(v.PreviewPath, filename)
}

// GetChartPath returns the full path for a rendered chart
func (v *Vault) GetChartPath(filename string) string {
	return filepath.Join(v.ChartsPath, filename)
}

// GetCachePath returns the full path for a cached file
func (v *Vault) GetCachePath(filename string) string {
	return filepath.Join(v.CachePath, filename)
}

// CleanCache removes all files in the cache directory
func (v *Vault) CleanCache() error {
	entries, err := os.ReadDir(v.CachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(v.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return os.MkdirAll(v.PreviewPath, 0755)
}
