package preview

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/nfnt/resize"
)

// HalfBlock packs two vertical pixels into one cell: foreground on top,
// background below
const HalfBlock = '▀'

// Fit returns the largest cell size with the image's aspect ratio that fits
// in cols x rows. Cells are two pixels tall.
func Fit(img image.Image, cols, rows int) (int, int) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}

	w := cols
	h := w * b.Dy() / b.Dx()
	if h > rows*2 {
		h = rows * 2
		w = h * b.Dx() / b.Dy()
	}
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	return w, (h + 1) / 2
}

// Draw renders img onto screen at (x0, y0) within cols x rows cells and
// returns the cell size used
func Draw(screen tcell.Screen, img image.Image, x0, y0, cols, rows int) (int, int) {
	w, h := Fit(img, cols, rows)
	if w == 0 || h == 0 {
		return 0, 0
	}

	scaled := resize.Resize(uint(w), uint(h*2), img, resize.Bilinear)
	b := scaled.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := cellColor(scaled, b.Min.X+x, b.Min.Y+2*y)
			bottom := cellColor(scaled, b.Min.X+x, b.Min.Y+2*y+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(x0+x, y0+y, HalfBlock, nil, style)
		}
	}
	return w, h
}

func cellColor(img image.Image, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return tcell.ColorDefault
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
