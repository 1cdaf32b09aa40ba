package cmd

import (
	"errors"
	"fmt"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/services"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var commentsCmd = &cobra.Command{
	Use:   "comments [post-id]",
	Short: "Show the comments of a post",
	Long: `Show the comments of a post.

Without a post id a fuzzy finder lists the feed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComments,
}

var commentCmd = &cobra.Command{
	Use:   "comment [post-id] <text>",
	Short: "Comment on a post",
	Long: `Comment on a post.

The text is screened for sentiment first; negative comments are not posted.
With a single argument the post is picked from the feed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComment,
}

func runComments(cmd *cobra.Command, args []string) error {
	postID, err := pickPost(args)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil
	}
	if err != nil {
		return err
	}

	comments, err := commentService.Load(getContext(), postID)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle(ui.IconComment + " Comments on #" + postID))
	fmt.Println()
	printComments(comments)
	return nil
}

func printComments(comments []domain.Comment) {
	if len(comments) == 0 {
		fmt.Println(ui.FormatMuted("No comments yet."))
		return
	}
	for _, c := range comments {
		who := ui.StyleBold.Render(c.DisplayIdentity())
		when := ""
		if !c.CreatedAt.IsZero() {
			when = ui.FormatMuted(" · " + c.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		if c.Pending {
			when += ui.FormatMuted(" · pending")
		}
		fmt.Printf("%s%s\n  %s\n", who, when, c.Text)
	}
}

func runComment(cmd *cobra.Command, args []string) error {
	var postArgs []string
	text := args[0]
	if len(args) > 1 {
		postArgs = args[:1]
		text = strings.Join(args[1:], " ")
	}

	postID, err := pickPost(postArgs)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil
	}
	if err != nil {
		return err
	}

	ctx := getContext()
	if _, err := commentService.Load(ctx, postID); errors.Is(err, domain.ErrUnauthorized) {
		return nil
	} else if err != nil {
		appLogger.Warn("comment", "could not load existing comments", map[string]interface{}{"post_id": postID, "error": err.Error()})
	}

	// notices are printed by the notifier
	res := commentService.Post(ctx, postID, text)
	if res.Status == services.CommentCreated {
		printComments(commentService.Thread(postID).Comments())
	}
	return nil
}
