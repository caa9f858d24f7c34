// internal/domain/checkout/selection.go
package checkout

import (
	"errors"
	"strings"
)

var (
	ErrAddressNotSaved       = errors.New("address is not a saved address")
	ErrAddressIncomplete     = errors.New("address needs a label or details")
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrNoAddress             = errors.New("shipping address is required")
	ErrLocationPending       = errors.New("current location has not been detected")
	ErrCoordinatesRequired   = errors.New("current location needs coordinates")
)

// Selection holds the one active shipping address and payment method of the
// pending order. Not safe for concurrent use.
type Selection struct {
	source  AddressSource
	address *Address
	current *Address
	payment string
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{source: SourceNone}
}

// SelectSavedAddress makes a persisted address active and deselects the
// current location
func (s *Selection) SelectSavedAddress(addr Address) error {
	if !addr.Persisted() {
		return ErrAddressNotSaved
	}
	s.source = SourceSaved
	s.address = &addr
	return nil
}

// SelectAdHocAddress makes a typed-in, non-persisted address active
func (s *Selection) SelectAdHocAddress(addr Address) error {
	addr.ID = 0
	addr.Label = strings.TrimSpace(addr.Label)
	addr.Details = strings.TrimSpace(addr.Details)
	if addr.Label == "" && addr.Details == "" {
		return ErrAddressIncomplete
	}
	s.source = SourceAdHoc
	s.address = &addr
	return nil
}

// SelectCurrentLocation makes the "current" sentinel active. The position may
// still be undetected.
func (s *Selection) SelectCurrentLocation() {
	s.source = SourceCurrent
	s.address = nil
}

// UseCurrentLocation stores a detected position as the "current" address and
// makes it active
func (s *Selection) UseCurrentLocation(addr Address) error {
	if addr.Coordinates == nil {
		return ErrCoordinatesRequired
	}
	addr.ID = 0
	s.current = &addr
	s.SelectCurrentLocation()
	return nil
}

// SelectPaymentMethod sets the payment method
func (s *Selection) SelectPaymentMethod(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrPaymentMethodRequired
	}
	s.payment = name
	return nil
}

// PaymentMethod returns the selected payment method, empty when unset
func (s *Selection) PaymentMethod() string {
	return s.payment
}

// Source returns which kind of address is active
func (s *Selection) Source() AddressSource {
	return s.source
}

// Resolve returns the address the order ships to
func (s *Selection) Resolve() (Address, error) {
	switch s.source {
	case SourceSaved, SourceAdHoc:
		return *s.address, nil
	case SourceCurrent:
		if s.current == nil || s.current.Coordinates == nil {
			return Address{}, ErrLocationPending
		}
		return *s.current, nil
	default:
		return Address{}, ErrNoAddress
	}
}

// ForgetSavedAddress drops the active saved address if it has the given id,
// used when the address is deleted server-side
func (s *Selection) ForgetSavedAddress(id int) {
	if s.source == SourceSaved && s.address != nil && s.address.ID == id {
		s.source = SourceNone
		s.address = nil
	}
}

// Clear resets the selection, including any detected position
func (s *Selection) Clear() {
	s.source = SourceNone
	s.address = nil
	s.current = nil
	s.payment = ""
}

// View returns the serialisable state
func (s *Selection) View() View {
	v := View{Source: s.source, PaymentMethod: s.payment}
	if s.address != nil {
		addr := *s.address
		v.Address = &addr
	}
	if s.current != nil {
		cur := *s.current
		v.CurrentLocation = &cur
	}
	return v
}
