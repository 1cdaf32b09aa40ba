package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/adapters/api"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up stegshare and choose a server",
	Long: `Create the data directory and a configuration file.

You are asked for the server URL (pre-filled from --api-url or the current
configuration); the server is contacted once to confirm it is reachable.

The data directory holds:
  - session.yaml : the signed-in session
  - draft.yaml   : the staged upload
  - cache/       : generated previews
  - logs/        : the log file
  - charts/      : charts written by 'stegshare stats --chart'`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(appVault.ConfigPath); err == nil && !initForce {
		fmt.Println(ui.FormatWarning("Already initialized"))
		fmt.Println(ui.FormatMuted("Config: " + appVault.ConfigPath))
		fmt.Println(ui.FormatMuted("Use --force to start over, or 'stegshare config' to edit."))
		return nil
	}

	fmt.Println(ui.FormatUpload("Initializing stegshare..."))
	fmt.Println()

	url := flagAPIURL
	if url == "" {
		reader := bufio.NewReader(os.Stdin)
		url = promptIfEmpty(reader, "", fmt.Sprintf("Server URL [%s]: ", appConfig.APIBaseURL))
	}
	if url == "" {
		url = appConfig.APIBaseURL
	}
	appConfig.APIBaseURL = strings.TrimRight(url, "/")

	if err := appConfig.Save(appVault.ConfigPath); err != nil {
		fmt.Println(ui.FormatError("Failed to write config"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Config written"))

	ctx, cancel := context.WithTimeout(getContext(), 5*time.Second)
	defer cancel()
	client := api.NewClient(appConfig.APIBaseURL, 5*time.Second, appLogger)
	if err := client.Health(ctx); err != nil {
		fmt.Println(ui.FormatWarning("Server not reachable yet: " + err.Error()))
	} else {
		fmt.Println(ui.FormatSuccess("Server is reachable"))
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Data", appVault.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", appVault.ConfigPath))
	fmt.Println(ui.RenderKeyValue("Server", appConfig.APIBaseURL))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Print(ui.RenderSimpleList([]string{
		"Create an account: stegshare register",
		"Sign in: stegshare login",
		"Share an image: stegshare upload cat.png -m \"hello\"",
	}))
	return nil
}
