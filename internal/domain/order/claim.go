// internal/domain/order/claim.go
package order

import (
	"context"
	"fmt"

	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// ClaimRemote is the part of the API client rewards are claimed through
type ClaimRemote interface {
	ClaimReward(ctx context.Context, productID int) (*api.ClaimAck, error)
	Profile(ctx context.Context) (*account.Profile, error)
}

// PointsAccount is the balance a claim draws on. Each call is expected to be
// short; no lock is held across the remote requests.
type PointsAccount interface {
	AvailablePoints() int
	PointBalance() int
	SetPointBalance(points int)
}

// ClaimResult reports the balance after a claim. Refreshed is false when the
// claim was accepted but the balance could not be re-read.
type ClaimResult struct {
	ProductID int    `json:"product_id"`
	Balance   int    `json:"balance"`
	Refreshed bool   `json:"refreshed"`
	Message   string `json:"message,omitempty"`
}

// Claim redeems one reward. It is refused before any request when the
// available points do not cover the cost; afterwards the balance is re-read
// from the server rather than computed.
func (s *Service) Claim(ctx context.Context, remote ClaimRemote, points PointsAccount, item ledger.Reward) (*ClaimResult, error) {
	if item.ID <= 0 {
		return nil, ledger.ErrInvalidItem
	}
	if item.PointsPerUnit <= 0 {
		return nil, ErrNothingToClaim
	}
	if available := points.AvailablePoints(); available < item.PointsPerUnit {
		return nil, fmt.Errorf("%w: need %d, have %d", ledger.ErrInsufficientPoints, item.PointsPerUnit, available)
	}

	ack, err := remote.ClaimReward(ctx, item.ID)
	if err != nil {
		logFailure(s.logger.WithField("product_id", item.ID), err)
		return nil, err
	}

	result := &ClaimResult{ProductID: item.ID, Balance: points.PointBalance(), Message: ack.Message}

	profile, err := remote.Profile(ctx)
	if err != nil {
		if api.IsAuthExpired(err) {
			return nil, err
		}
		s.logger.WithError(err).WithField("product_id", item.ID).Warn("Reward claimed but balance refresh failed")
		return result, nil
	}

	points.SetPointBalance(profile.Points)
	result.Balance = points.PointBalance()
	result.Refreshed = true
	return result, nil
}
