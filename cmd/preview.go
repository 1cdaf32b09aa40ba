package cmd

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/adapters/preview"
	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
)

var previewCmd = &cobra.Command{
	Use:   "preview [image]",
	Short: "Show the staged image in the terminal",
	Long: `Render an image with half-block characters.

Without an argument the staged upload is shown. Press q or Esc to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	var (
		path    string
		caption string
	)
	if len(args) > 0 {
		path = args[0]
	} else {
		draft, err := uploadForm.Draft(getContext())
		if err != nil {
			if err == domain.ErrNoDraft {
				return fmt.Errorf("nothing staged; run 'stegshare stage <image>' first")
			}
			return err
		}
		path = draft.PreviewPath
		if path == "" {
			path = draft.SourcePath
		}
		caption = draft.Caption
	}

	img, err := preview.Load(path)
	if err != nil {
		return err
	}

	view, err := NewImageView(img, path, caption)
	if err != nil {
		return err
	}
	return view.Run()
}

// ImageView shows one image full screen
type ImageView struct {
	img     image.Image
	title   string
	caption string
	screen  tcell.Screen
	width   int
	height  int
}

// NewImageView creates a viewer on a fresh terminal screen
func NewImageView(img image.Image, title, caption string) (*ImageView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return newImageViewOn(screen, img, title, caption), nil
}

func newImageViewOn(screen tcell.Screen, img image.Image, title, caption string) *ImageView {
	width, height := screen.Size()
	return &ImageView{
		img:     img,
		title:   title,
		caption: caption,
		screen:  screen,
		width:   width,
		height:  height,
	}
}

// Run draws until the user quits
func (v *ImageView) Run() error {
	defer v.screen.Fini()

	v.render()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.width, v.height = ev.Size()
			v.screen.Sync()
			v.render()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
		}
	}
}

func (v *ImageView) render() {
	v.screen.Clear()

	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorPurple)
	mutedStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	v.drawText(0, 0, v.title, titleStyle)
	if v.caption != "" {
		v.drawText(0, 1, "Caption: "+v.caption, mutedStyle)
	}

	// two header rows and one footer row
	rows := v.height - 3
	w, _ := preview.Fit(v.img, v.width, rows)
	x0 := (v.width - w) / 2
	if x0 < 0 {
		x0 = 0
	}
	preview.Draw(v.screen, v.img, x0, 2, v.width, rows)

	v.drawText(0, v.height-1, "q/Esc: quit", mutedStyle)
	v.screen.Show()
}

func (v *ImageView) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
