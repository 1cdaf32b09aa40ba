package domain

import "time"

// Session holds the bearer credential and display identity of the signed-in user
type Session struct {
	Credential string    `yaml:"credential"`
	Identity   string    `yaml:"identity"`
	SignedInAt time.Time `yaml:"signed_in_at"`
}

// IsAuthenticated reports whether the session carries a credential
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Credential != ""
}

// DisplayIdentity returns the identity or a placeholder for anonymous sessions
func (s *Session) DisplayIdentity() string {
	if s == nil || s.Identity == "" {
		return "Anonymous"
	}
	return s.Identity
}
