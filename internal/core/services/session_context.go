package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

// SessionContext holds the bearer credential and identity shared by every
// orchestrator. It is the only place session state is invalidated.
type SessionContext struct {
	mu        sync.Mutex
	store     ports.SessionStore
	navigator ports.Navigator
	log       logger.Logger
	session   domain.Session
}

// NewSessionContext loads the persisted session from the store
func NewSessionContext(ctx context.Context, store ports.SessionStore, navigator ports.Navigator, log logger.Logger) (*SessionContext, error) {
	s, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	sc := &SessionContext{
		store:     store,
		navigator: navigator,
		log:       log,
	}
	if s != nil {
		sc.session = *s
	}
	return sc, nil
}

// Credential returns the bearer credential and whether one is present
func (c *SessionContext) Credential() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Credential, c.session.Credential != ""
}

// Identity returns the display identity, "Anonymous" when signed out
func (c *SessionContext) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.DisplayIdentity()
}

// Snapshot returns a copy of the current session
func (c *SessionContext) Snapshot() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Set stores a new credential and identity
func (c *SessionContext) Set(ctx context.Context, identity, credential string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := domain.Session{
		Credential: credential,
		Identity:   identity,
		SignedInAt: time.Now(),
	}
	if err := c.store.Save(ctx, &next); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.session = next
	return nil
}

// Clear removes the session (explicit logout)
func (c *SessionContext) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = domain.Session{}
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Expire handles an authorization failure reported by a gateway: the
// session is cleared as one transition and the user is redirected. Only the
// call that observes a credential performs the transition; concurrent
// failures for the same credential are no-ops.
func (c *SessionContext) Expire(ctx context.Context) bool {
	c.mu.Lock()
	if c.session.Credential == "" {
		c.mu.Unlock()
		return false
	}
	identity := c.session.Identity
	c.session = domain.Session{}
	err := c.store.Clear(ctx)
	c.mu.Unlock()

	if err != nil {
		c.log.Error("session", "failed to clear expired session", map[string]interface{}{"error": err})
	}
	c.log.Warn("session", "credential rejected, session cleared", map[string]interface{}{"identity": identity})

	c.navigator.RedirectToLogin()
	return true
}

// RequireLogin redirects to sign-in without touching stored state. Used when
// an authenticated action is attempted with no credential.
func (c *SessionContext) RequireLogin() {
	c.navigator.RedirectToLogin()
}
