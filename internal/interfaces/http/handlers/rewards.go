// internal/interfaces/http/handlers/rewards.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/catalog"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// RewardsHandler handles reward lines and point claims
type RewardsHandler struct {
	catalog  *catalog.Service
	orders   *order.Service
	sessions *session.Registry
	remote   *api.Client
	logger   *logrus.Logger
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(catalogService *catalog.Service, orders *order.Service, sessions *session.Registry, remote *api.Client, logger *logrus.Logger) *RewardsHandler {
	return &RewardsHandler{
		catalog:  catalogService,
		orders:   orders,
		sessions: sessions,
		remote:   remote,
		logger:   logger,
	}
}

// ClaimRequest names the reward to claim
type ClaimRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
}

// AddReward adjusts a reward line by delta
func (h *RewardsHandler) AddReward(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req AdjustItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}

	reward, err := h.catalog.RewardByID(c.Request.Context(), remoteFor(h.remote, sess), req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var view CartView
	err = sess.Update(func(st session.State) error {
		if err := st.Ledger.AdjustReward(reward, delta); err != nil {
			return err
		}
		view = viewCart(st.Ledger)
		return nil
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), sess)

	c.JSON(http.StatusOK, gin.H{
		"message": "Rewards updated successfully",
		"data":    view,
	})
}

// UpdateReward sets the quantity of a reward line; zero removes it
func (h *RewardsHandler) UpdateReward(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	productID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var existing bool
	sess.View(func(st session.State) {
		_, existing = rewardLine(st.Ledger, productID)
	})

	var reward ledger.Reward
	if !existing {
		if *req.Quantity <= 0 {
			respondError(c, h.logger, ledger.ErrLineNotFound)
			return
		}
		r, err := h.catalog.RewardByID(c.Request.Context(), remoteFor(h.remote, sess), productID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		reward = r
	}

	var view CartView
	err := sess.Update(func(st session.State) error {
		r := reward
		if line, found := rewardLine(st.Ledger, productID); found {
			r = ledger.Reward{
				ID:            line.ProductID,
				Name:          line.Name,
				PointsPerUnit: line.PointsPerUnit,
				ImageRef:      line.ImageRef,
			}
		} else if r.ID == 0 {
			return ledger.ErrLineNotFound
		}
		if err := st.Ledger.SetRewardQuantity(r, *req.Quantity); err != nil {
			return err
		}
		view = viewCart(st.Ledger)
		return nil
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), sess)

	c.JSON(http.StatusOK, gin.H{
		"message": "Reward updated successfully",
		"data":    view,
	})
}

// RemoveReward removes a reward line
func (h *RewardsHandler) RemoveReward(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	productID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var view CartView
	err := sess.Update(func(st session.State) error {
		if err := st.Ledger.RemoveReward(productID); err != nil {
			return err
		}
		view = viewCart(st.Ledger)
		return nil
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), sess)

	c.JSON(http.StatusOK, gin.H{
		"message": "Reward removed",
		"data":    view,
	})
}

// Claim redeems one reward directly and returns the refreshed balance
func (h *RewardsHandler) Claim(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	remote := remoteFor(h.remote, sess)
	reward, err := h.catalog.RewardByID(c.Request.Context(), remote, req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// The session lock is only taken for the balance reads and the final
	// update, never across the remote calls
	result, err := h.orders.Claim(c.Request.Context(), remote, sess, reward)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var view CartView
	sess.View(func(st session.State) {
		view = viewCart(st.Ledger)
	})

	message := "Reward claimed successfully"
	if !result.Refreshed {
		message = "Reward claimed, the point balance will update shortly"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data": gin.H{
			"claim": result,
			"cart":  view,
		},
	})
}

// rewardLine finds a reward line by product id
func rewardLine(l *ledger.Ledger, productID int) (ledger.RewardLine, bool) {
	for _, line := range l.RewardLines() {
		if line.ProductID == productID {
			return line, true
		}
	}
	return ledger.RewardLine{}, false
}
