package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached previews",
	Long: `Remove generated preview thumbnails from the cache directory.

The staged upload keeps its source image; run 'stegshare stage' again to
regenerate its preview.`,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	fmt.Print(ui.StyleWarning.Render("Cleaning cache... "))

	if err := appVault.CleanCache(); err != nil {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Done"))
	fmt.Println(ui.FormatMuted("All cached previews removed."))
	return nil
}
