// internal/domain/order/validate.go
package order

import (
	"errors"
	"strings"

	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
)

// Validate checks every submission precondition and reports all failures
// together as a *ValidationError
func Validate(d Draft) error {
	var issues []Issue

	kind := ledger.KindEmpty
	if d.Ledger != nil {
		kind = d.Ledger.Kind()
	}
	switch kind {
	case ledger.KindEmpty:
		issues = append(issues, newIssue(IssueEmptyOrder))
	case ledger.KindMixed:
		issues = append(issues, newIssue(IssueMixedOrder))
	}

	if paymentMethod(d) == "" {
		issues = append(issues, newIssue(IssuePaymentMethodRequired))
	}

	addr, addrErr := resolveAddress(d)
	switch {
	case errors.Is(addrErr, checkout.ErrLocationPending):
		issues = append(issues, newIssue(IssueLocationRequired))
	case addrErr != nil:
		issues = append(issues, newIssue(IssueAddressRequired))
	}

	if account.IsSalesRep(d.Actor) {
		customer := customerInfo(d)
		if customer.Name == "" {
			issues = append(issues, newIssue(IssueCustomerNameRequired))
		}
		if customer.Phone == "" {
			issues = append(issues, newIssue(IssueCustomerPhoneRequired))
		}
	} else if contactPhone(d, addr) == "" {
		issues = append(issues, newIssue(IssuePhoneRequired))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func paymentMethod(d Draft) string {
	if d.Selection == nil {
		return ""
	}
	return d.Selection.PaymentMethod()
}

func resolveAddress(d Draft) (checkout.Address, error) {
	if d.Selection == nil {
		return checkout.Address{}, checkout.ErrNoAddress
	}
	return d.Selection.Resolve()
}

func customerInfo(d Draft) account.CustomerInfo {
	if d.Customer == nil {
		return account.CustomerInfo{}
	}
	return d.Customer.Normalize()
}

// contactPhone picks the phone an order is reachable on: the customer's for a
// sales order, otherwise the address phone, then the profile phone
func contactPhone(d Draft, addr checkout.Address) string {
	if account.IsSalesRep(d.Actor) {
		return customerInfo(d).Phone
	}
	if phone := strings.TrimSpace(addr.Phone); phone != "" {
		return phone
	}
	if d.Actor == nil {
		return ""
	}
	return strings.TrimSpace(d.Actor.Profile().Phone)
}
