package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCaptionMaxLength is the caption bound used when none is configured
const DefaultCaptionMaxLength = 32

// UploadCandidate is the image selected for upload together with its caption.
// Image bytes are never persisted; the draft file stores the source path and
// reloads them on submit.
type UploadCandidate struct {
	Filename    string    `yaml:"filename"`
	SourcePath  string    `yaml:"source_path"`
	Caption     string    `yaml:"caption"`
	PreviewPath string    `yaml:"preview_path,omitempty"`
	SelectedAt  time.Time `yaml:"selected_at"`
	Image       []byte    `yaml:"-"`
}

// NewUploadCandidate creates a candidate from raw image bytes
func NewUploadCandidate(sourcePath string, image []byte, caption string) *UploadCandidate {
	return &UploadCandidate{
		Filename:   filepath.Base(sourcePath),
		SourcePath: sourcePath,
		Caption:    caption,
		SelectedAt: time.Now(),
		Image:      image,
	}
}

// HasImage reports whether the candidate carries image bytes
func (c *UploadCandidate) HasImage() bool {
	return c != nil && len(c.Image) > 0
}

// Validate checks the submission preconditions: a non-empty image and a
// caption within the bound. Caption emptiness is left to the form layer.
func (c *UploadCandidate) Validate(maxLen int) error {
	if !c.HasImage() {
		return ErrEmptyImage
	}
	return ValidateCaption(c.Caption, maxLen)
}

// ValidateCaption checks the caption length in characters
func ValidateCaption(caption string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultCaptionMaxLength
	}
	if err := validate.Var(caption, fmt.Sprintf("max=%d", maxLen)); err != nil {
		return fmt.Errorf("caption must be at most %d characters", maxLen)
	}
	return nil
}

// RequireCaption is the form-level check that a caption was entered
func RequireCaption(caption string) error {
	if strings.TrimSpace(caption) == "" {
		return fmt.Errorf("caption cannot be empty")
	}
	return nil
}

// IsImageFile reports whether the path has one of the given extensions
func IsImageFile(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
