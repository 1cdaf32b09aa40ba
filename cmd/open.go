package cmd

import (
	"errors"
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var openStaged bool

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open [post-id]",
	Short: "Open a post's image in your viewer",
	Long: `Open the image of a post with the configured image viewer, or the
system default when none is set.

Without a post id a fuzzy finder lists the feed. With --staged the image of
the staged upload is opened instead.

Examples:
  stegshare open 12
  stegshare open --staged`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVarP(&openStaged, "staged", "s", false, "Open the staged image")
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	if openStaged {
		draft, err := uploadForm.Draft(ctx)
		if errors.Is(err, domain.ErrNoDraft) {
			return fmt.Errorf("nothing staged; run 'stegshare stage <image>' first")
		}
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatInfo("Opening " + draft.SourcePath))
		return OpenTarget(draft.SourcePath, appConfig.ImageViewer)
	}

	postID, err := pickPost(args)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil
	}
	if err != nil {
		return err
	}

	post, err := feedService.Find(ctx, postID)
	if err != nil {
		return err
	}
	if post.MediaURL == "" {
		fmt.Println(ui.FormatWarning("Post #" + post.ID + " has no image URL"))
		return nil
	}

	fmt.Println(ui.FormatInfo("Opening " + post.MediaURL))
	return OpenTarget(post.MediaURL, appConfig.ImageViewer)
}
