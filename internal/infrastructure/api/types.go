package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
)

// ID accepts identifiers the server sends either as numbers or strings
type ID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Category is a catalog category
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Product is a catalog product
type Product struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image,omitempty"`
	CategoryID int             `json:"category_id"`
}

// RewardItem is a reward catalog entry redeemable with points
type RewardItem struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Image  string `json:"image,omitempty"`
}

// Address is the server representation of a saved address
type Address struct {
	ID      int      `json:"id,omitempty"`
	Label   string   `json:"label"`
	Phone   string   `json:"phone,omitempty"`
	Details string   `json:"details,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// ToCheckout converts to the checkout address
func (a Address) ToCheckout() checkout.Address {
	addr := checkout.Address{
		ID:      a.ID,
		Label:   a.Label,
		Phone:   a.Phone,
		Details: a.Details,
	}
	if a.Lat != nil && a.Lng != nil {
		addr.Coordinates = &checkout.Coordinates{Lat: *a.Lat, Lng: *a.Lng}
	}
	return addr
}

// AddressFromCheckout converts a checkout address to its wire form
func AddressFromCheckout(addr checkout.Address) Address {
	a := Address{
		ID:      addr.ID,
		Label:   addr.Label,
		Phone:   addr.Phone,
		Details: addr.Details,
	}
	if addr.Coordinates != nil {
		lat, lng := addr.Coordinates.Lat, addr.Coordinates.Lng
		a.Lat, a.Lng = &lat, &lng
	}
	return a
}

// Amount renders a money value as a fixed two-decimal JSON number
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// OrderItem is one line of a placed order
type OrderItem struct {
	ProductID int         `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
	TotalLine json.Number `json:"total_line"`
	Image     string      `json:"image,omitempty"`
}

// OrderPayload is the body of POST /store-order
type OrderPayload struct {
	UserID        int                   `json:"user_id"`
	AddressID     int                   `json:"address_id,omitempty"`
	Address       *Address              `json:"address,omitempty"`
	PaymentMethod string                `json:"payment_method"`
	Phone         string                `json:"phone"`
	TotalQuantity int                   `json:"total_quantity"`
	Total         json.Number           `json:"total"`
	Items         []OrderItem           `json:"items"`
	Customer      *account.CustomerInfo `json:"customer,omitempty"`
	IsSalesOrder  bool                  `json:"is_sales_order,omitempty"`
}

// OrderAck is the success acknowledgement of POST /store-order
type OrderAck struct {
	Success           bool   `json:"success"`
	OrderID           ID     `json:"order_id"`
	TelegramStartLink string `json:"telegram_start_link,omitempty"`
	Message           string `json:"message,omitempty"`
}

// acknowledgement marks responses decoded from the top-level body rather
// than their "data" member
type acknowledgement interface {
	acknowledged() bool
}

func (a *OrderAck) acknowledged() bool { return a.Success }

// RewardOrderItem is one line of a reward order
type RewardOrderItem struct {
	ProductID      int `json:"productId"`
	Qty            int `json:"qty"`
	PointsAtReward int `json:"pointsAtReward"`
}

// RewardOrderPayload is the body of POST /store-reward-order
type RewardOrderPayload struct {
	AccountID   int               `json:"accountId"`
	TotalPoints int               `json:"totalPoints"`
	Items       []RewardOrderItem `json:"items"`
}

// ClaimAck is the response of POST /rewards/claim
type ClaimAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (a *ClaimAck) acknowledged() bool { return a.Success }

// LoginResult is the response of POST /auth/login
type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expires_in,omitempty"`
	User      account.Profile `json:"user"`
}

// errorBody is the error envelope of the remote API. errors is either a map of
// field to messages or a flat list.
type errorBody struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func (b errorBody) message() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

func (b errorBody) fields() map[string][]string {
	raw := bytes.TrimSpace(b.Errors)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var byField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byField); err == nil {
		out := make(map[string][]string, len(byField))
		for field, v := range byField {
			var list []string
			if err := json.Unmarshal(v, &list); err == nil {
				out[field] = list
				continue
			}
			var single string
			if err := json.Unmarshal(v, &single); err == nil {
				out[field] = []string{single}
			}
		}
		return out
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return map[string][]string{"": list}
	}
	return nil
}

// unwrapData returns the "data" member of an object envelope, or the body itself
func unwrapData(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if !strings.HasPrefix(string(trimmed), "{") {
		return trimmed
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return trimmed
}
