package services

import (
	"context"
	"io"
	"net/http"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

// SubmissionService performs the authoritative upload and classifies the
// reply into exactly one outcome
type SubmissionService struct {
	gateway    ports.UploadGateway
	drafts     ports.DraftStore
	session    *SessionContext
	notifier   ports.Notifier
	guard      *InFlightGuard
	log        logger.Logger
	captionMax int
	chain      []classifier
}

// SubmissionOptions tunes validation and classification
type SubmissionOptions struct {
	CaptionMaxLength int
	PreviewChars     int
	Guard            *InFlightGuard
}

// NewSubmissionService creates a new submission service. drafts may be nil
// when no form needs resetting.
func NewSubmissionService(
	gateway ports.UploadGateway,
	drafts ports.DraftStore,
	session *SessionContext,
	notifier ports.Notifier,
	log logger.Logger,
	opts SubmissionOptions,
) *SubmissionService {
	return &SubmissionService{
		gateway:    gateway,
		drafts:     drafts,
		session:    session,
		notifier:   notifier,
		guard:      opts.Guard,
		log:        log,
		captionMax: opts.CaptionMaxLength,
		chain:      uploadClassifiers(opts.PreviewChars),
	}
}

// Submit uploads the candidate and applies the single resulting effect
func (s *SubmissionService) Submit(ctx context.Context, candidate *domain.UploadCandidate) domain.SubmissionOutcome {
	outcome := s.submit(ctx, candidate)
	s.apply(ctx, candidate, outcome)
	return outcome
}

func (s *SubmissionService) submit(ctx context.Context, candidate *domain.UploadCandidate) domain.SubmissionOutcome {
	if err := candidate.Validate(s.captionMax); err != nil {
		return domain.SubmissionOutcome{Kind: domain.OutcomeInvalid, Message: err.Error(), Err: err}
	}

	credential, ok := s.session.Credential()
	if !ok {
		s.session.RequireLogin()
		return domain.SubmissionOutcome{Kind: domain.OutcomeAuthExpired, Message: MsgSignInToUpload, Err: domain.ErrNotSignedIn}
	}

	if !s.guard.Acquire("upload", candidate.Filename) {
		return domain.SubmissionOutcome{Kind: domain.OutcomeBusy, Message: MsgUploadBusy}
	}
	defer s.guard.Release("upload", candidate.Filename)

	resp, err := s.gateway.Upload(ctx, credential, candidate)
	if err != nil {
		return domain.SubmissionOutcome{
			Kind:    domain.OutcomeTransportFailure,
			Message: "Error uploading: " + err.Error(),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		s.session.Expire(ctx)
		return domain.SubmissionOutcome{
			Kind:       domain.OutcomeAuthExpired,
			HTTPStatus: resp.StatusCode,
			Message:    MsgSessionExpired,
			Err:        domain.ErrUnauthorized,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SubmissionOutcome{
			Kind:       domain.OutcomeFailed,
			HTTPStatus: resp.StatusCode,
			Message:    MsgUploadReadFailed,
			Err:        err,
		}
	}

	return classifyReply(s.chain, parseUploadReply(resp.StatusCode, body))
}

// apply performs the user-visible effect. AuthExpired already redirected.
func (s *SubmissionService) apply(ctx context.Context, candidate *domain.UploadCandidate, outcome domain.SubmissionOutcome) {
	details := map[string]interface{}{
		"outcome": outcome.Kind.String(),
		"status":  outcome.HTTPStatus,
	}
	if candidate != nil {
		details["file"] = candidate.Filename
	}

	switch outcome.Kind {
	case domain.OutcomeAccepted:
		s.log.Info("submission", "upload accepted", details)
	case domain.OutcomeMalformedResponse:
		details["response"] = outcome.RawText
		s.log.Error("submission", "unparsable upload response", details)
	case domain.OutcomeTransportFailure, domain.OutcomeFailed:
		if outcome.Err != nil {
			details["error"] = outcome.Err
		}
		s.log.Error("submission", "upload failed", details)
	default:
		s.log.Info("submission", "upload resolved", details)
	}

	if outcome.Kind != domain.OutcomeAuthExpired {
		s.notifier.Notify(outcome.Notice())
	}

	if outcome.ResetsForm() && s.drafts != nil {
		if err := s.drafts.Reset(ctx); err != nil {
			s.log.Warn("submission", "failed to reset upload form", map[string]interface{}{"error": err.Error()})
		}
	}
}
