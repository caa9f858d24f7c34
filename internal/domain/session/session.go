// internal/domain/session/session.go
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// maxReceipts is how many recent receipts a session keeps
const maxReceipts = 5

// State is the mutable part of a session, valid only inside the callback it
// is handed to
type State struct {
	Actor     account.Actor
	Ledger    *ledger.Ledger
	Selection *checkout.Selection
	Customer  *account.CustomerInfo
}

// Draft returns the order draft built from the state
func (st State) Draft() order.Draft {
	return order.Draft{
		Ledger:    st.Ledger,
		Selection: st.Selection,
		Actor:     st.Actor,
		Customer:  st.Customer,
	}
}

// Session is the state of one signed-in shopper. A single mutex serialises
// every read and mutation.
type Session struct {
	ID          string
	Credentials *api.Credentials
	CreatedAt   time.Time

	mu         sync.Mutex
	actor      account.Actor
	ledger     *ledger.Ledger
	selection  *checkout.Selection
	customer   account.CustomerInfo
	receipts   []*order.Receipt
	lastSeen   atomic.Int64
	submitting atomic.Bool
}

func newSession(id string, actor account.Actor, creds *api.Credentials, now time.Time) *Session {
	l := ledger.New()
	l.SetPointBalance(actor.Profile().Points)
	s := &Session{
		ID:          id,
		Credentials: creds,
		CreatedAt:   now,
		actor:       actor,
		ledger:      l,
		selection:   checkout.NewSelection(),
	}
	s.touch(now)
	return s
}

// Actor returns the signed-in actor
func (s *Session) Actor() account.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

// SetActor replaces the actor, used when the profile is re-read
func (s *Session) SetActor(actor account.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = actor
}

// Authenticated reports whether the remote credentials are still usable
func (s *Session) Authenticated() bool {
	return s.Credentials.Valid()
}

// Expire drops the remote credentials after a 401. Ledger and selection
// are kept so nothing is lost when the shopper signs in again.
func (s *Session) Expire() {
	s.Credentials.Clear()
}

// View runs fn with the state under the session lock without marking it changed
func (s *Session) View(fn func(st State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state())
}

// Update runs fn with the state under the session lock
func (s *Session) Update(fn func(st State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state())
}

// Submit runs one order submission. A submission started while another is
// still running is refused with order.ErrSubmissionInFlight.
func (s *Session) Submit(fn func(st State) (*order.Receipt, error)) (*order.Receipt, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, order.ErrSubmissionInFlight
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := fn(s.state())
	if err != nil {
		return nil, err
	}
	if receipt != nil {
		s.receipts = append(s.receipts, receipt)
		if len(s.receipts) > maxReceipts {
			s.receipts = s.receipts[len(s.receipts)-maxReceipts:]
		}
	}
	return receipt, nil
}

// Submitting reports whether a submission is in flight
func (s *Session) Submitting() bool {
	return s.submitting.Load()
}

// Receipt returns a recent receipt by order id
func (s *Session) Receipt(orderID string) (*order.Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.receipts) - 1; i >= 0; i-- {
		if s.receipts[i].OrderID == orderID {
			return s.receipts[i], true
		}
	}
	return nil, false
}

// Snapshot copies the ledger for caching
func (s *Session) Snapshot() ledger.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot(s.actor.Profile().ID)
}

// AvailablePoints returns the balance not yet reserved by reward lines
func (s *Session) AvailablePoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.AvailablePoints()
}

// PointBalance returns the last balance reported by the server
func (s *Session) PointBalance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.PointBalance()
}

// SetPointBalance records a balance re-read from the server
func (s *Session) SetPointBalance(points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SetPointBalance(points)
}

// lastSeen is kept outside the session lock so the sweeper never waits on a
// session that is busy with a remote call
func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) state() State {
	return State{
		Actor:     s.actor,
		Ledger:    s.ledger,
		Selection: s.selection,
		Customer:  &s.customer,
	}
}
