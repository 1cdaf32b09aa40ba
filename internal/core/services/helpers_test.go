package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports/mocks"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

type sessionFixture struct {
	ctx       *SessionContext
	store     *mocks.MockSessionStore
	navigator *mocks.MockNavigator
}

func newSignedIn(t *testing.T) sessionFixture {
	t.Helper()
	return newSessionFixture(t, &domain.Session{Credential: "tok-123", Identity: "alice"})
}

func newSignedOut(t *testing.T) sessionFixture {
	t.Helper()
	return newSessionFixture(t, nil)
}

func newSessionFixture(t *testing.T, s *domain.Session) sessionFixture {
	t.Helper()
	store := mocks.NewMockSessionStore(s)
	nav := mocks.NewMockNavigator()
	sc, err := NewSessionContext(context.Background(), store, nav, logger.NewNop())
	require.NoError(t, err)
	return sessionFixture{ctx: sc, store: store, navigator: nav}
}

func testCandidate() *domain.UploadCandidate {
	return domain.NewUploadCandidate("/tmp/cat.png", []byte("png-bytes"), "hello")
}
