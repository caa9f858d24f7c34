// internal/domain/account/entity.go
package account

import "strings"

// Profile is the account record returned by the remote API
type Profile struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Points int    `json:"points"`
}

// CustomerInfo identifies the customer a sales representative buys for
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Normalize trims surrounding whitespace from every field
func (c CustomerInfo) Normalize() CustomerInfo {
	return CustomerInfo{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}

// Actor is either a Regular customer or a SalesRep buying on behalf of one
type Actor interface {
	// Profile returns the signed-in account
	Profile() Profile
	// OrderAccountID returns the account orders are placed under
	OrderAccountID() int

	isActor()
}

// Regular buys for themselves
type Regular struct {
	Account Profile
}

func (r Regular) Profile() Profile    { return r.Account }
func (r Regular) OrderAccountID() int { return r.Account.ID }
func (Regular) isActor()              {}

// SalesRep places orders for named customers under a fixed proxy account
type SalesRep struct {
	ProxyAccountID int
	Representative Profile
}

func (s SalesRep) Profile() Profile    { return s.Representative }
func (s SalesRep) OrderAccountID() int { return s.ProxyAccountID }
func (SalesRep) isActor()              {}

// NewActor maps a profile to its actor variant. The role comparison is the
// only place the role string is interpreted.
func NewActor(p Profile, salesRole string, proxyAccountID int) Actor {
	if salesRole != "" && strings.EqualFold(strings.TrimSpace(p.Role), salesRole) {
		return SalesRep{ProxyAccountID: proxyAccountID, Representative: p}
	}
	return Regular{Account: p}
}

// IsSalesRep reports whether the actor buys on behalf of customers
func IsSalesRep(a Actor) bool {
	_, ok := a.(SalesRep)
	return ok
}
