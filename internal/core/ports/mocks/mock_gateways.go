package mocks

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
)

// MockDuplicateGateway returns a scripted verdict
type MockDuplicateGateway struct {
	mu      sync.Mutex
	Verdict domain.DuplicateVerdict
	Err     error
	calls   int
}

func (m *MockDuplicateGateway) CheckDuplicate(ctx context.Context, credential, filename string, image []byte) (domain.DuplicateVerdict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.Err != nil {
		return domain.DuplicateVerdict{}, m.Err
	}
	return m.Verdict, nil
}

func (m *MockDuplicateGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockUploadGateway returns a scripted raw reply
type MockUploadGateway struct {
	mu         sync.Mutex
	StatusCode int
	Body       string
	Err        error
	ReadErr    error
	Delay      time.Duration
	calls      int
	last       *domain.UploadCandidate
	credential string
}

func (m *MockUploadGateway) Upload(ctx context.Context, credential string, candidate *domain.UploadCandidate) (*ports.RawResponse, error) {
	m.mu.Lock()
	m.calls++
	m.last = candidate
	m.credential = credential
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	var body io.ReadCloser = io.NopCloser(strings.NewReader(m.Body))
	if m.ReadErr != nil {
		body = &failingBody{err: m.ReadErr}
	}
	return &ports.RawResponse{StatusCode: m.StatusCode, Body: body}, nil
}

func (m *MockUploadGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastCredential returns the bearer credential of the latest call
func (m *MockUploadGateway) LastCredential() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential
}

type failingBody struct {
	err error
}

func (b *failingBody) Read(p []byte) (int, error) { return 0, b.err }
func (b *failingBody) Close() error               { return nil }

// MockModerationGateway returns a scripted sentiment
type MockModerationGateway struct {
	mu      sync.Mutex
	Verdict domain.SentimentVerdict
	Err     error
	texts   []string
}

func (m *MockModerationGateway) Analyze(ctx context.Context, credential, text string) (domain.SentimentVerdict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.texts = append(m.texts, text)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Verdict, nil
}

func (m *MockModerationGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

// Texts returns every text submitted for screening
func (m *MockModerationGateway) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// MockCommentGateway records creation calls and serves scripted listings
type MockCommentGateway struct {
	mu          sync.Mutex
	Created     *domain.Comment
	CreateErr   error
	Listing     map[string][]domain.Comment
	ListErr     error
	createCalls int
	listCalls   int
}

func NewMockCommentGateway() *MockCommentGateway {
	return &MockCommentGateway{Listing: make(map[string][]domain.Comment)}
}

func (m *MockCommentGateway) Create(ctx context.Context, credential, postID, text string) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Created == nil {
		return nil, nil
	}
	c := *m.Created
	return &c, nil
}

func (m *MockCommentGateway) List(ctx context.Context, credential, postID string) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.Comment(nil), m.Listing[postID]...), nil
}

func (m *MockCommentGateway) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *MockCommentGateway) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// MockFeedGateway serves scripted post listings
type MockFeedGateway struct {
	Feed []domain.Post
	Mine []domain.Post
	Err  error
}

func (m *MockFeedGateway) ListFeed(ctx context.Context, credential string) ([]domain.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.Post(nil), m.Feed...), nil
}

func (m *MockFeedGateway) ListMyPosts(ctx context.Context, credential string) ([]domain.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.Post(nil), m.Mine...), nil
}

// MockAuthGateway accepts a single identity/secret pair
type MockAuthGateway struct {
	mu         sync.Mutex
	Identity   string
	Secret     string
	Credential string
	registered []domain.RegisterRequest
}

func (m *MockAuthGateway) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Identity != m.Identity || req.Secret != m.Secret {
		return nil, &domain.StatusError{StatusCode: 401, Message: "Invalid credentials"}
	}
	return &domain.Session{Credential: m.Credential, Identity: m.Identity}, nil
}

func (m *MockAuthGateway) Register(ctx context.Context, req domain.RegisterRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.registered {
		if r.Identity == req.Identity {
			return &domain.StatusError{StatusCode: 400, Message: "Username already exists"}
		}
	}
	m.registered = append(m.registered, req)
	return nil
}

// MockHealthChecker reports a scripted health state
type MockHealthChecker struct {
	Down bool
}

func (m *MockHealthChecker) Health(ctx context.Context) error {
	if m.Down {
		return errors.New("connection refused")
	}
	return nil
}
