package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

// AuthService signs users in and out
type AuthService struct {
	gateway ports.AuthGateway
	session *SessionContext
	log     logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(gateway ports.AuthGateway, session *SessionContext, log logger.Logger) *AuthService {
	return &AuthService{
		gateway: gateway,
		session: session,
		log:     log,
	}
}

// Login authenticates and stores the issued credential
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	issued, err := s.gateway.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if issued.Credential == "" {
		return nil, fmt.Errorf("login failed: %w", domain.ErrMalformedResponse)
	}

	identity := issued.Identity
	if identity == "" {
		identity = req.Identity
	}
	if err := s.session.Set(ctx, identity, issued.Credential); err != nil {
		return nil, err
	}

	s.log.Info("auth", "signed in", map[string]interface{}{"identity": identity})
	snap := s.session.Snapshot()
	return &snap, nil
}

// Register creates an account. It does not sign in.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	if err := s.gateway.Register(ctx, req); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	s.log.Info("auth", "registered", map[string]interface{}{"identity": req.Identity})
	return nil
}

// Logout clears the stored session
func (s *AuthService) Logout(ctx context.Context) error {
	identity := s.session.Identity()
	if err := s.session.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("auth", "signed out", map[string]interface{}{"identity": identity})
	return nil
}

// WhoAmI describes the current session
type WhoAmI struct {
	Session   domain.Session
	ExpiresAt time.Time
	HasExpiry bool
	Expired   bool
}

// WhoAmI reports the session and, when the credential is a JWT, its expiry.
// The signature is not verified; the server remains the authority.
func (s *AuthService) WhoAmI() WhoAmI {
	info := WhoAmI{Session: s.session.Snapshot()}
	if exp, ok := CredentialExpiry(info.Session.Credential); ok {
		info.ExpiresAt = exp
		info.HasExpiry = true
		info.Expired = time.Now().After(exp)
	}
	return info
}

// CredentialExpiry reads the exp claim of a JWT credential
func CredentialExpiry(credential string) (time.Time, bool) {
	if credential == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
