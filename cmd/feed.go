package cmd

import (
	"errors"
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/services"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var (
	feedUser  string
	feedLimit int
)

var feedCmd = &cobra.Command{
	Use:     "feed",
	Aliases: []string{"ls"},
	Short:   "List uploaded images",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(services.FeedRequest{Identity: feedUser, Limit: feedLimit}, "Feed")
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List your own uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(services.FeedRequest{Mine: true, Limit: feedLimit}, "My posts")
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedUser, "user", "u", "", "Only show posts of this uploader")
	feedCmd.Flags().IntVarP(&feedLimit, "limit", "n", 0, "Maximum number of posts")
	postsCmd.Flags().IntVarP(&feedLimit, "limit", "n", 0, "Maximum number of posts")
}

func runList(req services.FeedRequest, title string) error {
	resp, err := feedService.Execute(getContext(), req)
	if errors.Is(err, domain.ErrNotSignedIn) {
		sessionCtx.RequireLogin()
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle(title))
	fmt.Println()

	if resp.Total == 0 {
		fmt.Println(ui.FormatMuted("No posts yet."))
		return nil
	}

	fmt.Print(postTable(resp.Posts).Render())
	fmt.Println()
	if len(resp.Posts) < resp.Total {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Showing %d of %d posts", len(resp.Posts), resp.Total)))
	} else {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("%d posts", resp.Total)))
	}
	return nil
}

func postTable(posts []domain.Post) *ui.Table {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "UPLOADER", MaxWidth: 24},
		{Header: "POSTED"},
		{Header: "MEDIA", MaxWidth: 60},
	})
	for _, p := range posts {
		table.AddRow(p.ID, displayUploader(p), formatTime(p), p.MediaURL)
	}
	return table
}

func displayUploader(p domain.Post) string {
	if p.Identity == "" {
		return "unknown"
	}
	return p.Identity
}

func formatTime(p domain.Post) string {
	if p.CreatedAt.IsZero() {
		return "-"
	}
	return p.CreatedAt.Local().Format("2006-01-02 15:04")
}

// pickPost returns args[0] or lets the user choose a post from the feed
func pickPost(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	resp, err := feedService.Execute(getContext(), services.FeedRequest{})
	if err != nil {
		return "", err
	}
	if resp.Total == 0 {
		return "", fmt.Errorf("the feed is empty")
	}

	posts := resp.Posts
	idx, err := fuzzyfinder.Find(
		posts,
		func(i int) string {
			return fmt.Sprintf("#%s %s", posts[i].ID, displayUploader(posts[i]))
		},
		fuzzyfinder.WithPromptString("post> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			p := posts[i]
			return fmt.Sprintf("Post #%s\n\nUploader: %s\nPosted:   %s\nMedia:    %s",
				p.ID, displayUploader(p), formatTime(p), p.MediaURL)
		}),
	)
	if err != nil {
		return "", err
	}
	return posts[idx].ID, nil
}
