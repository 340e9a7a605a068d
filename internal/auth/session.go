package auth

import "sync"

// SessionContext holds the single active session for the running portal
// instance. It is owned by the process entry point and passed to whatever
// needs identity; there is no package-level current user.
//
// Lifecycle: absent, established on login, cleared on logout. No expiry,
// no multi-session support.
type SessionContext struct {
	mu      sync.Mutex
	current *Session
}

// NewSessionContext starts unauthenticated.
func NewSessionContext() *SessionContext {
	return &SessionContext{}
}

// Establish installs a session, replacing any prior one.
func (c *SessionContext) Establish(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
}

// Current returns the active session, or nil when unauthenticated.
func (c *SessionContext) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Clear returns to the unauthenticated state.
func (c *SessionContext) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}
