package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/services"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var (
	uploadMessage string
	uploadCopy    bool
)

var checkCmd = &cobra.Command{
	Use:   "check <image>",
	Short: "Ask the server whether an image looks like an existing upload",
	Long: `Run the advisory duplicate pre-check for an image.

The result is informational; the server decides again when you upload.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var stageCmd = &cobra.Command{
	Use:   "stage [image]",
	Short: "Select an image for the next upload",
	Long: `Select an image and caption for the next upload.

The image is checked for duplicates and a preview is generated. Without an
argument a fuzzy finder lists the images in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStage,
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Upload the staged image",
	RunE:  runSubmit,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the staged image and caption",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := uploadForm.Reset(getContext()); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Upload form cleared"))
		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <image>",
	Short: "Stage and upload an image in one step",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	stageCmd.Flags().StringVarP(&uploadMessage, "message", "m", "", "Caption to embed")
	submitCmd.Flags().StringVarP(&uploadMessage, "message", "m", "", "Replace the staged caption")
	submitCmd.Flags().BoolVarP(&uploadCopy, "copy", "c", false, "Copy a detected hidden message to the clipboard")
	uploadCmd.Flags().StringVarP(&uploadMessage, "message", "m", "", "Caption to embed (required)")
	uploadCmd.Flags().BoolVarP(&uploadCopy, "copy", "c", false, "Copy a detected hidden message to the clipboard")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	res := duplicateService.Check(getContext(), services.DuplicateCheckRequest{
		Filename: filepath.Base(path),
		Image:    image,
	})
	if res.Checked && res.Err == nil && !res.Verdict.Matched {
		fmt.Println(ui.FormatSuccess("No similar image found (closest distance: " + res.Verdict.DistanceString() + ")"))
	}
	return nil
}

func runStage(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		picked, err := pickImage(".")
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		if err != nil {
			return err
		}
		path = picked
	}

	resp, err := uploadForm.Stage(getContext(), services.StageRequest{Path: path, Caption: uploadMessage})
	if err != nil {
		return err
	}

	printCandidate(resp.Candidate)
	if resp.Candidate.Caption == "" {
		fmt.Println(ui.FormatInfo("Add a caption with 'stegshare submit -m <message>'"))
	} else {
		fmt.Println(ui.FormatInfo("Run 'stegshare submit' to upload"))
	}
	return nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	if cmd.Flags().Changed("message") {
		if _, err := uploadForm.Caption(ctx, uploadMessage); err != nil {
			return err
		}
	}

	fmt.Println(ui.FormatUpload("Uploading..."))
	outcome, err := uploadForm.Submit(ctx)
	if errors.Is(err, domain.ErrNoDraft) {
		return fmt.Errorf("nothing staged; run 'stegshare stage <image>' first")
	}
	if err != nil {
		return err
	}
	afterUpload(outcome)
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatUpload("Uploading " + filepath.Base(args[0]) + "..."))
	_, outcome, err := uploadForm.Upload(getContext(), services.StageRequest{Path: args[0], Caption: uploadMessage})
	if err != nil {
		return err
	}
	afterUpload(outcome)
	return nil
}

// afterUpload handles follow-ups the notifier does not cover
func afterUpload(outcome domain.SubmissionOutcome) {
	if outcome.Kind != domain.OutcomeHiddenDataDetected || outcome.HiddenMessage == "" {
		return
	}
	if !uploadCopy && !appConfig.CopyHiddenMessage {
		return
	}
	if err := clipboard.WriteAll(outcome.HiddenMessage); err != nil {
		fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
		return
	}
	fmt.Println(ui.FormatInfo("Hidden message copied to clipboard"))
}

func printCandidate(c *domain.UploadCandidate) {
	fmt.Println(ui.FormatTitle(ui.IconImage + " Staged upload"))
	fmt.Println(ui.RenderKeyValue("File", c.Filename))
	fmt.Println(ui.RenderKeyValue("Size", fmt.Sprintf("%d bytes", len(c.Image))))
	caption := c.Caption
	if caption == "" {
		caption = ui.FormatMuted("(none)")
	}
	fmt.Println(ui.RenderKeyValue("Caption", caption))
	if c.PreviewPath != "" {
		fmt.Println(ui.RenderKeyValue("Preview", c.PreviewPath))
	}
}

// listImages returns the image files directly inside dir, sorted by name
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if domain.IsImageFile(e.Name(), appConfig.ImageExtensions) {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

func pickImage(dir string) (string, error) {
	images, err := listImages(dir)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no images found in %s", dir)
	}

	idx, err := fuzzyfinder.Find(
		images,
		func(i int) string { return filepath.Base(images[i]) },
		fuzzyfinder.WithPromptString("image> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			info, err := os.Stat(images[i])
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("%s\n\nSize:     %d bytes\nModified: %s",
				filepath.Base(images[i]), info.Size(), info.ModTime().Format("2006-01-02 15:04"))
		}),
	)
	if err != nil {
		return "", err
	}
	return images[idx], nil
}
