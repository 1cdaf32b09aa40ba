package mocks

import (
	"context"
	"sync"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
)

// MockSessionStore is an in-memory SessionStore that counts calls
type MockSessionStore struct {
	mu         sync.RWMutex
	session    *domain.Session
	saveCalls  int
	clearCalls int
	LoadErr    error
}

// NewMockSessionStore creates a store holding the given session (may be nil)
func NewMockSessionStore(session *domain.Session) *MockSessionStore {
	return &MockSessionStore{session: session}
}

func (m *MockSessionStore) Load(ctx context.Context) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.session == nil {
		return &domain.Session{}, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *session
	m.session = &s
	m.saveCalls++
	return nil
}

func (m *MockSessionStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	m.clearCalls++
	return nil
}

// Stored returns the persisted session, nil when cleared
func (m *MockSessionStore) Stored() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

func (m *MockSessionStore) SaveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveCalls
}

func (m *MockSessionStore) ClearCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clearCalls
}

// MockDraftStore is an in-memory DraftStore
type MockDraftStore struct {
	mu         sync.RWMutex
	candidate  *domain.UploadCandidate
	resetCalls int
}

func NewMockDraftStore() *MockDraftStore {
	return &MockDraftStore{}
}

func (m *MockDraftStore) Load(ctx context.Context) (*domain.UploadCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.candidate == nil {
		return nil, domain.ErrNoDraft
	}
	c := *m.candidate
	return &c, nil
}

func (m *MockDraftStore) Save(ctx context.Context, candidate *domain.UploadCandidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *candidate
	m.candidate = &c
	return nil
}

func (m *MockDraftStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.candidate = nil
	m.resetCalls++
	return nil
}

func (m *MockDraftStore) ResetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resetCalls
}

// Staged reports whether a candidate is currently staged
func (m *MockDraftStore) Staged() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.candidate != nil
}

// MockNavigator records redirects
type MockNavigator struct {
	mu        sync.Mutex
	redirects int
}

func NewMockNavigator() *MockNavigator {
	return &MockNavigator{}
}

func (m *MockNavigator) RedirectToLogin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirects++
}

func (m *MockNavigator) Redirects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redirects
}

// MockNotifier records notices in order
type MockNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(notice domain.Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, notice)
}

// Notices returns a copy of all recorded notices
func (m *MockNotifier) Notices() []domain.Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Notice, len(m.notices))
	copy(out, m.notices)
	return out
}

// Last returns the most recent notice
func (m *MockNotifier) Last() (domain.Notice, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.notices) == 0 {
		return domain.Notice{}, false
	}
	return m.notices[len(m.notices)-1], true
}

// MockThumbnailer returns a fixed preview path
type MockThumbnailer struct {
	Path string
	Err  error
}

func (m *MockThumbnailer) Thumbnail(image []byte, name string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Path, nil
}
