package services

import (
	"context"
	"errors"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

// DuplicateCheckService runs the advisory similarity pre-check when an image
// is selected. It never blocks a later submission.
type DuplicateCheckService struct {
	gateway  ports.DuplicateGateway
	session  *SessionContext
	notifier ports.Notifier
	log      logger.Logger
}

// NewDuplicateCheckService creates a new duplicate pre-check service
func NewDuplicateCheckService(gateway ports.DuplicateGateway, session *SessionContext, notifier ports.Notifier, log logger.Logger) *DuplicateCheckService {
	return &DuplicateCheckService{
		gateway:  gateway,
		session:  session,
		notifier: notifier,
		log:      log,
	}
}

// DuplicateCheckRequest is the freshly selected image
type DuplicateCheckRequest struct {
	Filename string
	Image    []byte
}

// DuplicateCheckResult reports what the pre-check did
type DuplicateCheckResult struct {
	Checked bool // a network call was made
	Verdict domain.DuplicateVerdict
	Notice  *domain.Notice
	Err     error
}

// Check runs the pre-check. An empty selection is a no-op.
func (s *DuplicateCheckService) Check(ctx context.Context, req DuplicateCheckRequest) DuplicateCheckResult {
	if len(req.Image) == 0 {
		return DuplicateCheckResult{}
	}

	credential, ok := s.session.Credential()
	if !ok {
		return s.emit(DuplicateCheckResult{}, domain.WarningNotice(MsgSignInToCheck))
	}

	verdict, err := s.gateway.CheckDuplicate(ctx, credential, req.Filename, req.Image)
	if err != nil {
		res := DuplicateCheckResult{Checked: true, Err: err}
		if errors.Is(err, domain.ErrUnauthorized) {
			s.session.Expire(ctx)
			return res
		}
		s.log.Warn("duplicate", "duplicate pre-check failed", map[string]interface{}{
			"file":  req.Filename,
			"error": err.Error(),
		})
		return s.emit(res, domain.ErrorNotice(MsgDuplicateCheckError))
	}

	res := DuplicateCheckResult{Checked: true, Verdict: verdict}
	if !verdict.Matched {
		s.log.Debug("duplicate", "image is unique", map[string]interface{}{
			"file":     req.Filename,
			"distance": verdict.DistanceString(),
		})
		return res
	}

	return s.emit(res, domain.WarningNotice(MsgDuplicateFound+verdict.DistanceString()))
}

func (s *DuplicateCheckService) emit(res DuplicateCheckResult, n domain.Notice) DuplicateCheckResult {
	s.notifier.Notify(n)
	res.Notice = &n
	return res
}
