package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// GetPreferredEditor returns the editor command from config, env, or default
func GetPreferredEditor() string {
	// 1. Check Config
	if appConfig != nil && appConfig.Editor != "" {
		return appConfig.Editor
	}
	// 2. Check Environment
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	// 3. Fallback
	return "vi"
}

// OpenTarget opens a file or URL using a custom viewer or the OS default
// application.
func OpenTarget(target string, viewer string) error {
	cmd := openCommand(runtime.GOOS, target, viewer)

	// Start detaches so the viewer outlives the command
	if err := cmd.Start(); err != nil {
		if viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", target, viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", target, err)
	}
	return nil
}

func openCommand(goos, target, viewer string) *exec.Cmd {
	if viewer != "" {
		return exec.Command(viewer, target)
	}
	switch goos {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("cmd", "/c", "start", target)
	default:
		return exec.Command("xdg-open", target)
	}
}
