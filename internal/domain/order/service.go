// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// Remote is the part of the API client orders are placed through
type Remote interface {
	StoreOrder(ctx context.Context, payload api.OrderPayload, idempotencyKey string) (*api.OrderAck, error)
	StoreRewardOrder(ctx context.Context, payload api.RewardOrderPayload, idempotencyKey string) (*api.OrderAck, error)
}

// Service handles order submission
type Service struct {
	logger *logrus.Logger
	newKey func() string
	now    func() time.Time
}

// NewService creates a new order service
func NewService(logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		logger: logger,
		newKey: func() string { return uuid.New().String() },
		now:    time.Now,
	}
}

// Submit validates the draft and places exactly one order request for it.
// On acknowledgement the submitted lines, the selection and the customer info
// are cleared and the receipt is returned. On any failure the draft is left as
// it was. Each call is a new attempt with a fresh idempotency key.
func (s *Service) Submit(ctx context.Context, remote Remote, d Draft) (*Receipt, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	kind := d.Ledger.Kind()
	key := s.newKey()
	log := s.logger.WithFields(logrus.Fields{
		"kind":            kind,
		"idempotency_key": key,
		"account_id":      d.Actor.OrderAccountID(),
	})

	var (
		ack *api.OrderAck
		err error
	)
	switch kind {
	case ledger.KindReward:
		payload, buildErr := BuildRewardPayload(d)
		if buildErr != nil {
			return nil, buildErr
		}
		ack, err = remote.StoreRewardOrder(ctx, payload, key)
	default:
		payload, buildErr := BuildPayload(d)
		if buildErr != nil {
			return nil, buildErr
		}
		ack, err = remote.StoreOrder(ctx, payload, key)
	}
	if err != nil {
		logFailure(log, err)
		return nil, err
	}

	receipt := receiptFor(d, kind, ack)
	receipt.PlacedAt = s.now().UTC()

	switch kind {
	case ledger.KindReward:
		d.Ledger.ClearRewards()
	default:
		d.Ledger.ClearCart()
	}
	d.Selection.Clear()
	if d.Customer != nil {
		*d.Customer = account.CustomerInfo{}
	}

	log.WithField("order_id", receipt.OrderID).Info("Order placed")
	return receipt, nil
}

func logFailure(log *logrus.Entry, err error) {
	var (
		authErr *api.AuthExpiredError
		valErr  *api.ServerValidationError
		netErr  *api.NetworkError
	)
	switch {
	case errors.As(err, &authErr):
		log.Warn("Order rejected: authentication expired")
	case errors.As(err, &valErr):
		log.WithField("status", valErr.Status).Warn("Order rejected by server validation")
	case errors.As(err, &netErr):
		log.WithError(err).Error("Order not sent: no response")
	default:
		log.WithError(err).Error("Order failed")
	}
}
