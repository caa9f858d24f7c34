// internal/domain/ledger/entity.go
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog data a cart line is created from
type Product struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image,omitempty"`
}

// Reward is the catalog data a reward line is created from
type Reward struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	PointsPerUnit int    `json:"points"`
	ImageRef      string `json:"image,omitempty"`
}

// CartLine is one purchasable product in the ledger, unique by ProductID
type CartLine struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image,omitempty"`
}

// LineTotal returns unit price times quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// RewardLine is one reward being redeemed with points, unique by ProductID
type RewardLine struct {
	ProductID     int    `json:"product_id"`
	Name          string `json:"name"`
	PointsPerUnit int    `json:"points_per_unit"`
	Quantity      int    `json:"quantity"`
	ImageRef      string `json:"image,omitempty"`
}

// LinePoints returns points per unit times quantity
func (l RewardLine) LinePoints() int {
	return l.PointsPerUnit * l.Quantity
}

// Kind describes what an order built from the ledger would contain
type Kind string

const (
	KindEmpty  Kind = "empty"
	KindCart   Kind = "cart"
	KindReward Kind = "reward"
	KindMixed  Kind = "mixed"
)

// Totals is the derived view of the ledger
type Totals struct {
	ItemCount       int             `json:"item_count"`
	TotalQuantity   int             `json:"total_quantity"`
	Total           decimal.Decimal `json:"total"`
	RewardCount     int             `json:"reward_count"`
	TotalPoints     int             `json:"total_points"`
	PointBalance    int             `json:"point_balance"`
	AvailablePoints int             `json:"available_points"`
}

// Snapshot is the cacheable copy of the ledger lines
type Snapshot struct {
	AccountID  int          `json:"account_id"`
	Cart       []CartLine   `json:"cart"`
	Rewards    []RewardLine `json:"rewards"`
	CapturedAt time.Time    `json:"captured_at"`
}
