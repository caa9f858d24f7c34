// internal/domain/session/registry.go
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

var ErrSessionNotFound = errors.New("session not found")

// CartStore persists ledger snapshots per account
type CartStore interface {
	SaveCart(ctx context.Context, accountID int, snap ledger.Snapshot) error
	LoadCart(ctx context.Context, accountID int) (ledger.Snapshot, error)
	DeleteCart(ctx context.Context, accountID int) error
}

// Registry holds the open sessions in memory
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    CartStore
	logger   *logrus.Logger
	now      func() time.Time
}

// NewRegistry creates a registry; a nil store disables cart snapshots
func NewRegistry(store CartStore, logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Open starts a session for a signed-in actor and restores the account's
// cart snapshot when one is still cached
func (r *Registry) Open(ctx context.Context, actor account.Actor, creds *api.Credentials) *Session {
	s := newSession(uuid.New().String(), actor, creds, r.now())

	accountID := actor.Profile().ID
	if r.store != nil {
		snap, err := r.store.LoadCart(ctx, accountID)
		switch {
		case err == nil && snap.AccountID == accountID:
			s.ledger.Restore(snap)
		case err != nil:
			r.logger.WithError(err).WithField("account_id", accountID).Debug("No cart snapshot restored")
		}
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"account_id": accountID,
		"sales_rep":  account.IsSalesRep(actor),
	}).Info("Session opened")
	return s
}

// Get returns an open session and marks it active
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Persist writes the session's cart snapshot. Failures are logged only; the
// snapshot is a cache.
func (r *Registry) Persist(ctx context.Context, s *Session) {
	if r.store == nil {
		return
	}
	snap := s.Snapshot()
	if err := r.store.SaveCart(ctx, snap.AccountID, snap); err != nil {
		r.logger.WithError(err).WithField("session_id", s.ID).Warn("Failed to save cart snapshot")
	}
}

// Close ends a session and drops its cart snapshot
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.Expire()
	if r.store != nil {
		if err := r.store.DeleteCart(ctx, s.Actor().Profile().ID); err != nil {
			r.logger.WithError(err).WithField("session_id", id).Warn("Failed to delete cart snapshot")
		}
	}
	r.logger.WithField("session_id", id).Info("Session closed")
	return nil
}

// Sweep forgets sessions idle for longer than maxIdle. Their cart snapshots
// are kept so the next sign-in restores them.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if !s.Submitting() && s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.WithField("count", removed).Info("Idle sessions swept")
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
