// Package preview produces and renders the local preview handle of a staged
// upload candidate.
package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"

	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
)

// DefaultSize bounds both thumbnail dimensions
const DefaultSize = 300

// Thumbnailer writes JPEG thumbnails into a cache directory
type Thumbnailer struct {
	Dir  string
	Size uint
}

// NewThumbnailer creates a thumbnailer writing into dir
func NewThumbnailer(dir string, size uint) *Thumbnailer {
	if size == 0 {
		size = DefaultSize
	}
	return &Thumbnailer{Dir: dir, Size: size}
}

var _ ports.Thumbnailer = (*Thumbnailer)(nil)

// Thumbnail decodes data, shrinks it to fit Size x Size and returns the path
// of the written preview
func (t *Thumbnailer) Thumbnail(data []byte, name string) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resize.Thumbnail(t.Size, t.Size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	path := filepath.Join(t.Dir, stem+".preview.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return path, nil
}

// Load decodes an image file
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
