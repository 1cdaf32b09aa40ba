package repository

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/vault"
)

// FileDraftRepository persists the staged upload form. Image bytes are not
// written; they are reloaded from the source path.
type FileDraftRepository struct {
	path string
	mu   sync.RWMutex
}

// NewFileDraftRepository creates a draft repository in the vault
func NewFileDraftRepository(v *vault.Vault) *FileDraftRepository {
	return &FileDraftRepository{path: v.DraftFile()}
}

var _ ports.DraftStore = (*FileDraftRepository)(nil)

// Load returns the staged candidate or domain.ErrNoDraft
func (r *FileDraftRepository) Load(ctx context.Context) (*domain.UploadCandidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNoDraft
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var c domain.UploadCandidate
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	if c.SourcePath == "" {
		return nil, domain.ErrNoDraft
	}
	return &c, nil
}

// Save replaces the staged candidate. A previous preview is discarded.
func (r *FileDraftRepository) Save(ctx context.Context, candidate *domain.UploadCandidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, err := r.read(); err == nil && prev.PreviewPath != "" && prev.PreviewPath != candidate.PreviewPath {
		os.Remove(prev.PreviewPath)
	}

	data, err := yaml.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	return writeFileAtomic(r.path, data, 0644)
}

// Reset clears image, caption and preview
func (r *FileDraftRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, err := r.read(); err == nil && prev.PreviewPath != "" {
		os.Remove(prev.PreviewPath)
	}

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove draft: %w", err)
	}
	return nil
}

func (r *FileDraftRepository) read() (*domain.UploadCandidate, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	var c domain.UploadCandidate
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
