package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/pkg/config"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var configPrint bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the stegshare configuration file",
	Long: `Open the configuration file in $EDITOR.

The file is created with default values on first use. With --print the
effective configuration (file, environment and flags merged) is shown instead.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVarP(&configPrint, "print", "p", false, "Print the effective configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := appVault.ConfigPath

	if configPrint {
		fmt.Println(ui.FormatTitle("Configuration"))
		fmt.Println(ui.RenderKeyValue("File", path))
		fmt.Println(ui.RenderKeyValue("Server", appConfig.APIBaseURL))
		fmt.Println(ui.RenderKeyValue("Timeout", fmt.Sprintf("%ds", appConfig.RequestTimeoutSeconds)))
		fmt.Println(ui.RenderKeyValue("Caption limit", fmt.Sprintf("%d", appConfig.CaptionMaxLength)))
		fmt.Println(ui.RenderKeyValue("In-flight guard", fmt.Sprintf("%t", appConfig.InFlightGuard)))
		fmt.Println(ui.RenderKeyValue("Log file", logFilePath()))
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Created default config"))
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	c := exec.Command(GetPreferredEditor(), path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
