// internal/domain/ledger/ledger.go
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds the quantity of a single line and the size of a
// single adjustment
const MaxLineQuantity = 9999

var (
	ErrInvalidItem        = errors.New("item must have a positive id and a non-negative price")
	ErrLineNotFound       = errors.New("item not found in cart")
	ErrInsufficientPoints = errors.New("not enough points for this reward")
)

// Ledger holds the product lines and reward lines a shopper intends to order.
// It is not safe for concurrent use; the owning session serialises access.
type Ledger struct {
	cart    []CartLine
	rewards []RewardLine
	balance int
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{}
}

// AdjustLine adds delta to the quantity of the product's line. A missing line is
// created only for a positive delta; a line whose quantity drops to zero or
// below is removed.
func (l *Ledger) AdjustLine(p Product, delta int) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := validateDelta(delta); err != nil {
		return err
	}

	i := l.cartIndex(p.ID)
	if i < 0 {
		if delta <= 0 {
			return nil
		}
		l.cart = append(l.cart, newCartLine(p, delta))
		return nil
	}

	quantity := l.cart[i].Quantity + delta
	if quantity > MaxLineQuantity {
		return quantityError(quantity)
	}
	l.setCartAt(i, quantity)
	return nil
}

// SetLineQuantity sets the absolute quantity of the product's line; zero or
// below removes it
func (l *Ledger) SetLineQuantity(p Product, quantity int) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if quantity > MaxLineQuantity {
		return quantityError(quantity)
	}

	i := l.cartIndex(p.ID)
	if i < 0 {
		if quantity > 0 {
			l.cart = append(l.cart, newCartLine(p, quantity))
		}
		return nil
	}

	l.setCartAt(i, quantity)
	return nil
}

// RemoveLine removes the product's line
func (l *Ledger) RemoveLine(productID int) error {
	i := l.cartIndex(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	l.cart = append(l.cart[:i], l.cart[i+1:]...)
	return nil
}

// AdjustReward adds delta to the quantity of the reward's line. An increment
// that would reserve more points than the balance is rejected and the ledger
// is left unchanged.
func (l *Ledger) AdjustReward(r Reward, delta int) error {
	if err := validateReward(r); err != nil {
		return err
	}
	if err := validateDelta(delta); err != nil {
		return err
	}

	current := 0
	if i := l.rewardIndex(r.ID); i >= 0 {
		current = l.rewards[i].Quantity
	}
	return l.setReward(r, current+delta)
}

// SetRewardQuantity sets the absolute quantity of the reward's line under the
// same point constraint as AdjustReward
func (l *Ledger) SetRewardQuantity(r Reward, quantity int) error {
	if err := validateReward(r); err != nil {
		return err
	}
	return l.setReward(r, quantity)
}

// RemoveReward removes the reward's line
func (l *Ledger) RemoveReward(productID int) error {
	i := l.rewardIndex(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	l.rewards = append(l.rewards[:i], l.rewards[i+1:]...)
	return nil
}

// SetPointBalance records the balance reported by the server
func (l *Ledger) SetPointBalance(points int) {
	if points < 0 {
		points = 0
	}
	l.balance = points
}

// PointBalance returns the last balance reported by the server
func (l *Ledger) PointBalance() int {
	return l.balance
}

// AvailablePoints returns the balance not yet reserved by reward lines
func (l *Ledger) AvailablePoints() int {
	return l.balance - l.TotalPoints()
}

// Total folds price times quantity over the cart lines
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.cart {
		total = total.Add(line.LineTotal())
	}
	return total
}

// TotalQuantity sums the cart line quantities
func (l *Ledger) TotalQuantity() int {
	qty := 0
	for _, line := range l.cart {
		qty += line.Quantity
	}
	return qty
}

// TotalPoints folds points times quantity over the reward lines
func (l *Ledger) TotalPoints() int {
	points := 0
	for _, line := range l.rewards {
		points += line.LinePoints()
	}
	return points
}

// Lines returns a copy of the cart lines in insertion order
func (l *Ledger) Lines() []CartLine {
	out := make([]CartLine, len(l.cart))
	copy(out, l.cart)
	return out
}

// RewardLines returns a copy of the reward lines in insertion order
func (l *Ledger) RewardLines() []RewardLine {
	out := make([]RewardLine, len(l.rewards))
	copy(out, l.rewards)
	return out
}

// Line returns the cart line for a product
func (l *Ledger) Line(productID int) (CartLine, bool) {
	if i := l.cartIndex(productID); i >= 0 {
		return l.cart[i], true
	}
	return CartLine{}, false
}

// Kind reports whether the ledger holds cart lines, reward lines, both or nothing
func (l *Ledger) Kind() Kind {
	switch {
	case len(l.cart) > 0 && len(l.rewards) > 0:
		return KindMixed
	case len(l.cart) > 0:
		return KindCart
	case len(l.rewards) > 0:
		return KindReward
	default:
		return KindEmpty
	}
}

// IsEmpty reports whether the ledger has no lines at all
func (l *Ledger) IsEmpty() bool {
	return l.Kind() == KindEmpty
}

// Totals returns the derived totals, computed from scratch
func (l *Ledger) Totals() Totals {
	return Totals{
		ItemCount:       len(l.cart),
		TotalQuantity:   l.TotalQuantity(),
		Total:           l.Total(),
		RewardCount:     len(l.rewards),
		TotalPoints:     l.TotalPoints(),
		PointBalance:    l.balance,
		AvailablePoints: l.AvailablePoints(),
	}
}

// ClearCart removes every cart line
func (l *Ledger) ClearCart() {
	l.cart = nil
}

// ClearRewards removes every reward line
func (l *Ledger) ClearRewards() {
	l.rewards = nil
}

// Clear removes every line; the point balance is kept
func (l *Ledger) Clear() {
	l.ClearCart()
	l.ClearRewards()
}

// Snapshot copies the lines for caching
func (l *Ledger) Snapshot(accountID int) Snapshot {
	return Snapshot{
		AccountID:  accountID,
		Cart:       l.Lines(),
		Rewards:    l.RewardLines(),
		CapturedAt: time.Now().UTC(),
	}
}

// Restore replaces the lines with those of a snapshot. Lines that could not
// have been produced by the ledger operations are dropped, as are duplicates
// and reward lines the current balance no longer covers.
func (l *Ledger) Restore(s Snapshot) {
	l.Clear()
	for _, line := range s.Cart {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity || line.ProductID <= 0 || line.UnitPrice.IsNegative() || l.cartIndex(line.ProductID) >= 0 {
			continue
		}
		l.cart = append(l.cart, line)
	}
	for _, line := range s.Rewards {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity || line.ProductID <= 0 || line.PointsPerUnit < 0 || l.rewardIndex(line.ProductID) >= 0 {
			continue
		}
		free := l.balance - l.TotalPoints()
		if line.PointsPerUnit > 0 && line.Quantity > free/line.PointsPerUnit {
			continue
		}
		l.rewards = append(l.rewards, line)
	}
}

// Private helper methods

func (l *Ledger) setReward(r Reward, quantity int) error {
	i := l.rewardIndex(r.ID)

	current, perUnit := 0, r.PointsPerUnit
	if i >= 0 {
		current, perUnit = l.rewards[i].Quantity, l.rewards[i].PointsPerUnit
	}

	if quantity <= 0 {
		if i >= 0 {
			l.rewards = append(l.rewards[:i], l.rewards[i+1:]...)
		}
		return nil
	}
	if quantity > MaxLineQuantity {
		return quantityError(quantity)
	}

	if quantity > current && perUnit > 0 {
		// Compared by division so a large quantity cannot wrap the product
		free := l.balance - (l.TotalPoints() - current*perUnit)
		if free < 0 || quantity > free/perUnit {
			return fmt.Errorf("%w: %d units at %d points each, %d points free", ErrInsufficientPoints, quantity, perUnit, free)
		}
	}

	if i < 0 {
		l.rewards = append(l.rewards, RewardLine{
			ProductID:     r.ID,
			Name:          r.Name,
			PointsPerUnit: r.PointsPerUnit,
			Quantity:      quantity,
			ImageRef:      r.ImageRef,
		})
		return nil
	}

	l.rewards[i].Quantity = quantity
	return nil
}

func (l *Ledger) setCartAt(i, quantity int) {
	if quantity <= 0 {
		l.cart = append(l.cart[:i], l.cart[i+1:]...)
		return
	}
	l.cart[i].Quantity = quantity
}

func (l *Ledger) cartIndex(productID int) int {
	for i := range l.cart {
		if l.cart[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (l *Ledger) rewardIndex(productID int) int {
	for i := range l.rewards {
		if l.rewards[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func newCartLine(p Product, quantity int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Title:     p.Title,
		UnitPrice: p.UnitPrice,
		Quantity:  quantity,
		ImageRef:  p.ImageRef,
	}
}

func validateProduct(p Product) error {
	if p.ID <= 0 || p.UnitPrice.IsNegative() {
		return ErrInvalidItem
	}
	return nil
}

func validateDelta(delta int) error {
	if delta > MaxLineQuantity || delta < -MaxLineQuantity {
		return quantityError(delta)
	}
	return nil
}

func quantityError(quantity int) error {
	return fmt.Errorf("%w: quantity %d exceeds the limit of %d", ErrInvalidItem, quantity, MaxLineQuantity)
}

func validateReward(r Reward) error {
	if r.ID <= 0 || r.PointsPerUnit < 0 {
		return ErrInvalidItem
	}
	return nil
}
