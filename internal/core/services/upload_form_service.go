package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

// UploadFormService is the staged upload form: selecting an image stores a
// draft and fires the advisory pre-check, submitting hands the draft to the
// submission orchestrator.
type UploadFormService struct {
	drafts      ports.DraftStore
	thumbnailer ports.Thumbnailer
	duplicates  *DuplicateCheckService
	submissions *SubmissionService
	log         logger.Logger
	captionMax  int
}

// NewUploadFormService creates a new upload form service. thumbnailer may be nil.
func NewUploadFormService(
	drafts ports.DraftStore,
	thumbnailer ports.Thumbnailer,
	duplicates *DuplicateCheckService,
	submissions *SubmissionService,
	log logger.Logger,
	captionMax int,
) *UploadFormService {
	if captionMax <= 0 {
		captionMax = domain.DefaultCaptionMaxLength
	}
	return &UploadFormService{
		drafts:      drafts,
		thumbnailer: thumbnailer,
		duplicates:  duplicates,
		submissions: submissions,
		log:         log,
		captionMax:  captionMax,
	}
}

// StageRequest selects an image and caption
type StageRequest struct {
	Path    string
	Caption string
}

// StageResponse represents the staged draft and the pre-check result
type StageResponse struct {
	Candidate *domain.UploadCandidate
	Duplicate DuplicateCheckResult
}

// Stage selects a new candidate, replacing any previous draft
func (s *UploadFormService) Stage(ctx context.Context, req StageRequest) (*StageResponse, error) {
	image, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	candidate := domain.NewUploadCandidate(req.Path, image, req.Caption)

	// selecting an image always triggers the pre-check, even when the caption is rejected
	check := s.duplicates.Check(ctx, DuplicateCheckRequest{Filename: candidate.Filename, Image: image})
	if err := candidate.Validate(s.captionMax); err != nil {
		return nil, err
	}

	if s.thumbnailer != nil {
		preview, err := s.thumbnailer.Thumbnail(image, candidate.Filename)
		if err != nil {
			// the preview handle is cosmetic
			s.log.Warn("form", "failed to render preview", map[string]interface{}{"file": candidate.Filename, "error": err.Error()})
		} else {
			candidate.PreviewPath = preview
		}
	}

	if err := s.drafts.Save(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return &StageResponse{Candidate: candidate, Duplicate: check}, nil
}

// Caption updates the caption of the staged draft
func (s *UploadFormService) Caption(ctx context.Context, caption string) (*domain.UploadCandidate, error) {
	candidate, err := s.drafts.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCaption(caption, s.captionMax); err != nil {
		return nil, err
	}
	candidate.Caption = caption
	if err := s.drafts.Save(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return candidate, nil
}

// Draft returns the staged candidate with its image bytes reloaded
func (s *UploadFormService) Draft(ctx context.Context) (*domain.UploadCandidate, error) {
	candidate, err := s.drafts.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !candidate.HasImage() {
		image, err := os.ReadFile(candidate.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("staged image is no longer readable: %w", err)
		}
		candidate.Image = image
	}
	return candidate, nil
}

// Submit submits the staged draft. The caption must be non-empty.
func (s *UploadFormService) Submit(ctx context.Context) (domain.SubmissionOutcome, error) {
	candidate, err := s.Draft(ctx)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	if err := domain.RequireCaption(candidate.Caption); err != nil {
		return domain.SubmissionOutcome{}, err
	}
	return s.submissions.Submit(ctx, candidate), nil
}

// Upload stages and submits in one step. The advisory check still runs and
// never prevents the submission.
func (s *UploadFormService) Upload(ctx context.Context, req StageRequest) (*StageResponse, domain.SubmissionOutcome, error) {
	if err := domain.RequireCaption(req.Caption); err != nil {
		return nil, domain.SubmissionOutcome{}, err
	}
	staged, err := s.Stage(ctx, req)
	if err != nil {
		return nil, domain.SubmissionOutcome{}, err
	}
	if errors.Is(staged.Duplicate.Err, domain.ErrUnauthorized) {
		// the pre-check already expired the session and redirected
		return staged, domain.SubmissionOutcome{
			Kind:    domain.OutcomeAuthExpired,
			Message: MsgSessionExpired,
			Err:     domain.ErrUnauthorized,
		}, nil
	}
	outcome := s.submissions.Submit(ctx, staged.Candidate)
	return staged, outcome, nil
}

// Reset clears the staged draft; an empty form is not an error
func (s *UploadFormService) Reset(ctx context.Context) error {
	if err := s.drafts.Reset(ctx); err != nil && !errors.Is(err, domain.ErrNoDraft) {
		return err
	}
	return nil
}
