// internal/domain/order/payload.go
package order

import (
	"net/url"
	"strings"

	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// storagePrefixes are the path prefixes the server adds to stored images
var storagePrefixes = []string{"storage/", "public/"}

// BuildPayload validates the draft and normalises it into the product order
// body. The actor variant decides the account and the customer block.
func BuildPayload(d Draft) (api.OrderPayload, error) {
	if err := Validate(d); err != nil {
		return api.OrderPayload{}, err
	}

	addr, _ := resolveAddress(d)
	lines := d.Ledger.Lines()

	payload := api.OrderPayload{
		UserID:        d.Actor.OrderAccountID(),
		PaymentMethod: paymentMethod(d),
		Phone:         contactPhone(d, addr),
		TotalQuantity: d.Ledger.TotalQuantity(),
		Total:         api.Amount(d.Ledger.Total()),
		Items:         make([]api.OrderItem, 0, len(lines)),
	}

	if addr.Persisted() {
		payload.AddressID = addr.ID
	} else {
		wire := api.AddressFromCheckout(addr)
		payload.Address = &wire
	}

	for _, line := range lines {
		payload.Items = append(payload.Items, api.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     api.Amount(line.UnitPrice),
			TotalLine: api.Amount(line.LineTotal()),
			Image:     StripImagePrefix(line.ImageRef),
		})
	}

	if account.IsSalesRep(d.Actor) {
		customer := customerInfo(d)
		payload.Customer = &customer
		payload.IsSalesOrder = true
	}

	return payload, nil
}

// BuildRewardPayload validates the draft and normalises it into the reward
// order body. Points are charged to the signed-in account.
func BuildRewardPayload(d Draft) (api.RewardOrderPayload, error) {
	if err := Validate(d); err != nil {
		return api.RewardOrderPayload{}, err
	}

	lines := d.Ledger.RewardLines()
	payload := api.RewardOrderPayload{
		AccountID:   d.Actor.Profile().ID,
		TotalPoints: d.Ledger.TotalPoints(),
		Items:       make([]api.RewardOrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		payload.Items = append(payload.Items, api.RewardOrderItem{
			ProductID:      line.ProductID,
			Qty:            line.Quantity,
			PointsAtReward: line.PointsPerUnit,
		})
	}
	return payload, nil
}

// StripImagePrefix reduces an image reference to the path the server stores:
// scheme, host and storage prefixes are removed
func StripImagePrefix(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		ref = u.Path
	}
	ref = strings.TrimLeft(ref, "/")
	for _, prefix := range storagePrefixes {
		ref = strings.TrimPrefix(ref, prefix)
	}
	return ref
}

func receiptFor(d Draft, kind ledger.Kind, ack *api.OrderAck) *Receipt {
	addr, _ := resolveAddress(d)
	r := &Receipt{
		OrderID:           string(ack.OrderID),
		Kind:              kind,
		ShipTo:            addr,
		Phone:             contactPhone(d, addr),
		TelegramStartLink: ack.TelegramStartLink,
	}

	switch kind {
	case ledger.KindReward:
		for _, line := range d.Ledger.RewardLines() {
			r.Lines = append(r.Lines, ReceiptLine{
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				Points:    line.LinePoints(),
			})
			r.TotalQuantity += line.Quantity
		}
		r.TotalPoints = d.Ledger.TotalPoints()
	default:
		for _, line := range d.Ledger.Lines() {
			r.Lines = append(r.Lines, ReceiptLine{
				ProductID: line.ProductID,
				Name:      line.Title,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal(),
			})
		}
		r.TotalQuantity = d.Ledger.TotalQuantity()
		r.Total = d.Ledger.Total()
		r.PaymentMethod = paymentMethod(d)
	}

	if rep, ok := d.Actor.(account.SalesRep); ok {
		customer := customerInfo(d)
		r.Customer = &customer
		r.PlacedBy = rep.Representative.Name
	}
	return r
}
