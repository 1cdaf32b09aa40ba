package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your stegshare setup",
	Long: `Diagnose issues with your stegshare setup.

Checks for:
  - Data directory integrity
  - Configuration file existence
  - Session state and credential expiry
  - Server reachability
  - Recent errors in the log`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("stegshare doctor"))
	fmt.Println()

	// 1. Data directory
	checkStep("Data Directory", func() error {
		if !appVault.Exists() {
			return fmt.Errorf("not found at %s", appVault.RootPath)
		}
		return nil
	})

	checkStep("Preview Cache", func() error {
		if _, err := os.Stat(appVault.PreviewPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", appVault.PreviewPath)
		}
		return nil
	})

	// 2. Config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use, run 'stegshare config')", appVault.ConfigPath)
		}
		return nil
	})

	// 3. Session
	checkStep("Session", func() error {
		info := authService.WhoAmI()
		if !info.Session.IsAuthenticated() {
			return fmt.Errorf("not signed in")
		}
		if info.Expired {
			return fmt.Errorf("credential for %s expired %s", info.Session.Identity, info.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	})

	// 4. Server
	checkStep("Server "+appConfig.APIBaseURL, func() error {
		ctx, cancel := context.WithTimeout(getContext(), 5*time.Second)
		defer cancel()
		return apiClient.Health(ctx)
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking the log..."))

	checkStep("Recent Errors", func() error {
		entries, err := logger.Recent(logFilePath(), "error", 5)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		fmt.Println()
		for _, e := range entries {
			fmt.Printf("    %s %s %s\n", ui.FormatMuted(e.Timestamp), e.Module, e.Message)
		}
		return fmt.Errorf("found %d recent errors", len(entries))
	})
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render(ui.IconSuccess), name)
	} else {
		fmt.Printf("%s %s\n", ui.StyleError.Render(ui.IconError), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}

func logFilePath() string {
	if appConfig.LogFile != "" {
		return appConfig.LogFile
	}
	return appVault.LogFile()
}
