package api

import (
	"sync"
	"time"
)

// Credentials is the one place a remote bearer token lives. It is handed to the
// client at construction and cleared when the remote API reports 401.
type Credentials struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewCredentials creates credentials; a zero expiresAt means the token carries
// no client-side expiry
func NewCredentials(token string, expiresAt time.Time) *Credentials {
	return &Credentials{token: token, expiresAt: expiresAt}
}

// Token returns the bearer token when it is present and unexpired
func (c *Credentials) Token() (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == "" {
		return "", false
	}
	if !c.expiresAt.IsZero() && time.Now().After(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// Valid reports whether a usable token is held
func (c *Credentials) Valid() bool {
	_, ok := c.Token()
	return ok
}

// Set replaces the token
func (c *Credentials) Set(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = expiresAt
}

// Clear drops the token
func (c *Credentials) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
