package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

// CommentStatus is the terminal state of one comment attempt
type CommentStatus int

const (
	CommentCreated CommentStatus = iota
	CommentBlocked
	CommentFailed
	CommentInvalid
	CommentSignedOut
	CommentAuthExpired
	CommentBusy
)

func (s CommentStatus) String() string {
	switch s {
	case CommentCreated:
		return "created"
	case CommentBlocked:
		return "blocked"
	case CommentFailed:
		return "failed"
	case CommentInvalid:
		return "invalid"
	case CommentSignedOut:
		return "signed-out"
	case CommentAuthExpired:
		return "auth-expired"
	case CommentBusy:
		return "busy"
	default:
		return fmt.Sprintf("comment-status(%d)", int(s))
	}
}

// CommentResult describes how a comment attempt resolved
type CommentResult struct {
	Status  CommentStatus
	Comment *domain.Comment
	Verdict domain.SentimentVerdict
	Notice  *domain.Notice
	Err     error
}

// CommentService gates comment creation behind sentiment screening and keeps
// the local per-post comment cache
type CommentService struct {
	moderation ports.ModerationGateway
	comments   ports.CommentGateway
	session    *SessionContext
	notifier   ports.Notifier
	guard      *InFlightGuard
	log        logger.Logger

	mu      sync.Mutex
	threads map[string]*domain.CommentThread
}

// NewCommentService creates a new comment service
func NewCommentService(
	moderation ports.ModerationGateway,
	comments ports.CommentGateway,
	session *SessionContext,
	notifier ports.Notifier,
	log logger.Logger,
	guard *InFlightGuard,
) *CommentService {
	return &CommentService{
		moderation: moderation,
		comments:   comments,
		session:    session,
		notifier:   notifier,
		guard:      guard,
		log:        log,
		threads:    make(map[string]*domain.CommentThread),
	}
}

// Thread returns the cached thread of a post, creating it if needed
func (s *CommentService) Thread(postID string) *domain.CommentThread {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[postID]
	if !ok {
		t = domain.NewCommentThread(postID)
		s.threads[postID] = t
	}
	return t
}

// Load fetches the authoritative comment list and replaces the cache
func (s *CommentService) Load(ctx context.Context, postID string) ([]domain.Comment, error) {
	credential, _ := s.session.Credential()

	list, err := s.comments.List(ctx, credential, postID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.session.Expire(ctx)
		}
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	thread := s.Thread(postID)
	thread.Replace(list)
	return thread.Comments(), nil
}

// Post screens the text, creates the comment and appends it locally.
// Screening always completes before creation starts.
func (s *CommentService) Post(ctx context.Context, postID, text string) CommentResult {
	text = domain.NormalizeCommentText(text)
	if text == "" {
		return s.resolve(CommentResult{Status: CommentInvalid}, domain.WarningNotice(MsgCommentEmpty))
	}

	credential, ok := s.session.Credential()
	if !ok {
		return s.resolve(CommentResult{Status: CommentSignedOut, Err: domain.ErrNotSignedIn}, domain.ErrorNotice(MsgSignInToComment))
	}

	if !s.guard.Acquire("comment", postID) {
		return s.resolve(CommentResult{Status: CommentBusy}, domain.WarningNotice(MsgCommentBusy))
	}
	defer s.guard.Release("comment", postID)

	verdict, err := s.moderation.Analyze(ctx, credential, text)
	if err != nil {
		return s.failure(ctx, postID, "sentiment check failed", err)
	}

	if verdict.Blocks() {
		s.log.Info("comment", "comment blocked by sentiment gate", map[string]interface{}{"post_id": postID})
		return s.resolve(CommentResult{Status: CommentBlocked, Verdict: verdict}, domain.WarningNotice(MsgCommentNegative))
	}

	created, err := s.comments.Create(ctx, credential, postID, text)
	if err != nil {
		res := s.failure(ctx, postID, "comment creation failed", err)
		res.Verdict = verdict
		return res
	}

	if created == nil {
		created = &domain.Comment{
			LocalID:   uuid.NewString(),
			Identity:  s.session.Identity(),
			Text:      text,
			CreatedAt: time.Now(),
			Pending:   true,
		}
	}
	if created.PostID == "" {
		created.PostID = postID
	}

	s.Thread(postID).Append(*created)
	s.log.Info("comment", "comment created", map[string]interface{}{
		"post_id": postID,
		"key":     created.Key(),
		"pending": created.Pending,
	})

	return s.resolve(CommentResult{Status: CommentCreated, Comment: created, Verdict: verdict}, domain.SuccessNotice(MsgCommentPosted))
}

func (s *CommentService) failure(ctx context.Context, postID, message string, err error) CommentResult {
	if errors.Is(err, domain.ErrUnauthorized) {
		s.session.Expire(ctx)
		return CommentResult{Status: CommentAuthExpired, Err: err}
	}

	s.log.Error("comment", message, map[string]interface{}{"post_id": postID, "error": err})
	return s.resolve(CommentResult{Status: CommentFailed, Err: err}, domain.ErrorNotice(MsgCommentFailed))
}

func (s *CommentService) resolve(res CommentResult, n domain.Notice) CommentResult {
	s.notifier.Notify(n)
	res.Notice = &n
	return res
}
