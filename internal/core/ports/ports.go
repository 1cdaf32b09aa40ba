package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
)

// SessionStore defines the port for persisting the signed-in session
type SessionStore interface {
	// Load returns the stored session, or an empty session when none exists
	Load(ctx context.Context) (*domain.Session, error)

	// Save persists the session
	Save(ctx context.Context, session *domain.Session) error

	// Clear removes the stored session
	Clear(ctx context.Context) error
}

// DraftStore defines the port for the staged upload form
type DraftStore interface {
	// Load returns the staged candidate or domain.ErrNoDraft
	Load(ctx context.Context) (*domain.UploadCandidate, error)

	// Save stages a candidate, replacing any previous one
	Save(ctx context.Context, candidate *domain.UploadCandidate) error

	// Reset clears image, caption and preview
	Reset(ctx context.Context) error
}

// Navigator performs navigation side effects
type Navigator interface {
	// RedirectToLogin sends the user to the sign-in view
	RedirectToLogin()
}

// Notifier surfaces user-visible notices
type Notifier interface {
	Notify(notice domain.Notice)
}

// RawResponse is an unread upload reply. The caller owns Body and must close it.
type RawResponse struct {
	StatusCode int
	Body       io.ReadCloser
}

// DuplicateGateway defines the port for the advisory similarity pre-check
type DuplicateGateway interface {
	CheckDuplicate(ctx context.Context, credential, filename string, image []byte) (domain.DuplicateVerdict, error)
}

// UploadGateway defines the port for the authoritative upload round trip.
// Classification of the reply is left to the caller.
type UploadGateway interface {
	Upload(ctx context.Context, credential string, candidate *domain.UploadCandidate) (*RawResponse, error)
}

// ModerationGateway defines the port for sentiment screening
type ModerationGateway interface {
	Analyze(ctx context.Context, credential, text string) (domain.SentimentVerdict, error)
}

// CommentGateway defines the port for comment creation and listing
type CommentGateway interface {
	// Create returns the server-created comment, or nil when the reply omitted it
	Create(ctx context.Context, credential, postID, text string) (*domain.Comment, error)

	// List returns the authoritative comments of a post in arrival order
	List(ctx context.Context, credential, postID string) ([]domain.Comment, error)
}

// FeedGateway defines the port for the read-only post listings
type FeedGateway interface {
	ListFeed(ctx context.Context, credential string) ([]domain.Post, error)
	ListMyPosts(ctx context.Context, credential string) ([]domain.Post, error)
}

// AuthGateway defines the port for session issuance
type AuthGateway interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error)
	Register(ctx context.Context, req domain.RegisterRequest) error
}

// HealthChecker reports whether the server is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Thumbnailer renders the ephemeral preview handle of a candidate
type Thumbnailer interface {
	// Thumbnail writes a preview image and returns its path
	Thumbnail(image []byte, name string) (string, error)
}
