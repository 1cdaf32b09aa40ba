package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/adapters/charts"
	"github.com/kamal-hamza/stegshare-cli/internal/core/services"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var (
	statsComments bool
	statsTop      int
	statsChart    bool
	statsOutput   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise uploads and comment activity",
	Long: `Summarise the feed: posts per uploader and, with --comments, the most
discussed posts.

With --chart an HTML page with bar charts is written to the data directory
(or --output).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVarP(&statsComments, "comments", "c", false, "Count comments (one request per post)")
	statsCmd.Flags().IntVarP(&statsTop, "top", "t", 10, "Number of posts in the activity ranking")
	statsCmd.Flags().BoolVar(&statsChart, "chart", false, "Write an HTML chart")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "", "Chart output path")
}

func runStats(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatInfo("Analyzing feed..."))

	resp, err := statsService.Execute(getContext(), services.StatsRequest{
		WithComments: statsComments,
		TopPosts:     statsTop,
	})
	if err != nil && resp == nil {
		return err
	}
	if err != nil {
		fmt.Println(ui.FormatWarning(err.Error()))
	}

	fmt.Println()
	fmt.Println(ui.FormatTitle("Overview"))
	fmt.Println(ui.RenderKeyValue("Posts", strconv.Itoa(resp.TotalPosts)))
	fmt.Println(ui.RenderKeyValue("Uploaders", strconv.Itoa(len(resp.Uploaders))))
	if statsComments {
		fmt.Println(ui.RenderKeyValue("Comments", strconv.Itoa(resp.TotalComments)))
		if resp.FailedPosts > 0 {
			fmt.Println(ui.RenderKeyValue("Unreadable posts", strconv.Itoa(resp.FailedPosts)))
		}
	}

	if len(resp.Uploaders) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatTitle("Posts per uploader"))
		table := ui.NewTable([]ui.TableColumn{
			{Header: "UPLOADER", MaxWidth: 24},
			{Header: "POSTS", Align: "right"},
			{Header: ""},
		})
		maxPosts := resp.Uploaders[0].Posts
		for _, u := range resp.Uploaders {
			table.AddRow(u.Identity, strconv.Itoa(u.Posts), bar(u.Posts, maxPosts, 30))
		}
		fmt.Print(table.Render())
	}

	if len(resp.Activity) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatTitle("Most discussed"))
		table := ui.NewTable([]ui.TableColumn{
			{Header: "POST", Align: "right"},
			{Header: "UPLOADER", MaxWidth: 24},
			{Header: "COMMENTS", Align: "right"},
		})
		for _, a := range resp.Activity {
			table.AddRow("#"+a.PostID, a.Identity, strconv.Itoa(a.Comments))
		}
		fmt.Print(table.Render())
	}

	if statsChart {
		return writeStatsChart(resp)
	}
	return nil
}

func writeStatsChart(resp *services.StatsResponse) error {
	uploaders := charts.Series{Title: "Posts per uploader", Name: "posts"}
	for _, u := range resp.Uploaders {
		uploaders.Labels = append(uploaders.Labels, u.Identity)
		uploaders.Values = append(uploaders.Values, u.Posts)
	}
	activity := charts.Series{Title: "Comments per post", Name: "comments"}
	for _, a := range resp.Activity {
		activity.Labels = append(activity.Labels, "#"+a.PostID)
		activity.Values = append(activity.Values, a.Comments)
	}

	path := statsOutput
	if path == "" {
		path = appConfig.ChartOutput
	}
	if path == "" {
		path = appVault.GetChartPath("stats.html")
	}

	if err := charts.WriteFile(path, "stegshare stats", uploaders, activity); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Println()
	fmt.Println(ui.FormatSuccess("Chart written to " + path))
	return nil
}

// bar renders value as a proportional run of block characters
func bar(value, max, width int) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := value * width / max
	if n == 0 {
		n = 1
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = '█'
	}
	return ui.StyleAccent.Render(string(out))
}
