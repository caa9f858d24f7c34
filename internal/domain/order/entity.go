// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
)

var (
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")
	ErrNothingToClaim     = errors.New("reward has no point cost to claim")
)

// IssueCode names one failed submission precondition
type IssueCode string

const (
	IssueEmptyOrder            IssueCode = "empty_order"
	IssueMixedOrder            IssueCode = "mixed_order"
	IssuePaymentMethodRequired IssueCode = "payment_method_required"
	IssueAddressRequired       IssueCode = "address_required"
	IssueLocationRequired      IssueCode = "location_required"
	IssueCustomerNameRequired  IssueCode = "customer_name_required"
	IssueCustomerPhoneRequired IssueCode = "customer_phone_required"
	IssuePhoneRequired         IssueCode = "phone_required"
)

var issueMessages = map[IssueCode]string{
	IssueEmptyOrder:            "Your cart is empty",
	IssueMixedOrder:            "Products and rewards cannot be mixed in one order",
	IssuePaymentMethodRequired: "Please choose a payment method",
	IssueAddressRequired:       "Please choose a delivery address",
	IssueLocationRequired:      "Your current location has not been detected yet",
	IssueCustomerNameRequired:  "Customer name is required",
	IssueCustomerPhoneRequired: "Customer phone is required",
	IssuePhoneRequired:         "A contact phone number is required",
}

// Issue is one reason an order cannot be submitted
type Issue struct {
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

func newIssue(code IssueCode) Issue {
	return Issue{Code: code, Message: issueMessages[code]}
}

// ValidationError lists every failed precondition; no request was sent
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return "order validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether the error contains the issue code
func (e *ValidationError) Has(code IssueCode) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Draft is the session state an order is built from
type Draft struct {
	Ledger    *ledger.Ledger
	Selection *checkout.Selection
	Actor     account.Actor
	Customer  *account.CustomerInfo
}

// ReceiptLine is one line of a placed order
type ReceiptLine struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Points    int             `json:"points,omitempty"`
}

// Receipt is what the shopper is shown after a successful submission
type Receipt struct {
	OrderID           string                `json:"order_id"`
	Kind              ledger.Kind           `json:"kind"`
	PlacedAt          time.Time             `json:"placed_at"`
	Lines             []ReceiptLine         `json:"lines"`
	TotalQuantity     int                   `json:"total_quantity"`
	Total             decimal.Decimal       `json:"total"`
	TotalPoints       int                   `json:"total_points,omitempty"`
	PaymentMethod     string                `json:"payment_method,omitempty"`
	ShipTo            checkout.Address      `json:"ship_to"`
	Phone             string                `json:"phone,omitempty"`
	Customer          *account.CustomerInfo `json:"customer,omitempty"`
	PlacedBy          string                `json:"placed_by,omitempty"`
	TelegramStartLink string                `json:"telegram_start_link,omitempty"`
}
