package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports/mocks"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestAuthService_Login(t *testing.T) {
	session := newSignedOut(t)
	gw := &mocks.MockAuthGateway{Identity: "alice", Secret: "pw", Credential: "tok-a"}
	svc := NewAuthService(gw, session.ctx, logger.NewNop())

	s, err := svc.Login(context.Background(), domain.LoginRequest{Identity: "alice", Secret: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "alice", s.Identity)
	assert.Equal(t, "tok-a", session.store.Stored().Credential)
}

func TestAuthService_LoginFailures(t *testing.T) {
	session := newSignedOut(t)
	gw := &mocks.MockAuthGateway{Identity: "alice", Secret: "pw", Credential: "tok-a"}
	svc := NewAuthService(gw, session.ctx, logger.NewNop())

	_, err := svc.Login(context.Background(), domain.LoginRequest{Identity: "alice"})
	assert.Error(t, err, "validation")

	_, err = svc.Login(context.Background(), domain.LoginRequest{Identity: "alice", Secret: "wrong"})
	require.Error(t, err)
	assert.True(t, domain.IsStatus(err, 401))
	assert.Equal(t, 0, session.store.SaveCalls())
}

func TestAuthService_RegisterAndLogout(t *testing.T) {
	session := newSignedIn(t)
	gw := &mocks.MockAuthGateway{}
	svc := NewAuthService(gw, session.ctx, logger.NewNop())
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "bob@example.com", Identity: "bob", Secret: "pw"}
	require.NoError(t, svc.Register(ctx, req))
	assert.Error(t, svc.Register(ctx, req), "duplicate identity")
	assert.Error(t, svc.Register(ctx, domain.RegisterRequest{Email: "nope", Identity: "c", Secret: "pw"}))

	require.NoError(t, svc.Logout(ctx))
	_, ok := session.ctx.Credential()
	assert.False(t, ok)
}

func TestCredentialExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, ok := CredentialExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = CredentialExpiry("opaque-token")
	assert.False(t, ok)

	_, ok = CredentialExpiry("")
	assert.False(t, ok)
}

func TestAuthService_WhoAmI(t *testing.T) {
	session := newSignedOut(t)
	svc := NewAuthService(&mocks.MockAuthGateway{}, session.ctx, logger.NewNop())
	require.NoError(t, session.ctx.Set(context.Background(), "alice", signedToken(t, time.Now().Add(-time.Minute))))

	info := svc.WhoAmI()

	assert.Equal(t, "alice", info.Session.Identity)
	assert.True(t, info.HasExpiry)
	assert.True(t, info.Expired)
}
