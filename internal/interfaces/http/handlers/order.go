// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
	"github.com/your-org/storefront-bff/internal/pkg/pdf"
)

// OrderHandler submits orders and serves their receipts
type OrderHandler struct {
	orders   *order.Service
	receipts *pdf.Service
	sessions *session.Registry
	remote   *api.Client
	logger   *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, receipts *pdf.Service, sessions *session.Registry, remote *api.Client, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		receipts: receipts,
		sessions: sessions,
		remote:   remote,
		logger:   logger,
	}
}

// SubmitOrder places the cart order or the reward order held by the session
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	remote := remoteFor(h.remote, sess)
	receipt, err := sess.Submit(func(st session.State) (*order.Receipt, error) {
		return h.orders.Submit(c.Request.Context(), remote, st.Draft())
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.sessions.Persist(c.Request.Context(), sess)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data": gin.H{
			"receipt":     receipt,
			"receipt_url": fmt.Sprintf("/api/v1/orders/%s/receipt", receipt.OrderID),
		},
	})
}

// GetReceipt returns a recent receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	receipt, ok := h.receipt(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt retrieved successfully",
		"data":    receipt,
	})
}

// DownloadReceipt renders a recent receipt as PDF
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	receipt, ok := h.receipt(c)
	if !ok {
		return
	}

	buf, err := h.receipts.GenerateReceipt(receipt)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", receipt.OrderID).Error("Failed to render receipt")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", receipt.OrderID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *OrderHandler) receipt(c *gin.Context) (*order.Receipt, bool) {
	sess, ok := currentSession(c)
	if !ok {
		return nil, false
	}

	receipt, found := sess.Receipt(c.Param("id"))
	if !found {
		respondError(c, h.logger, errReceiptNotFound)
		return nil, false
	}
	return receipt, true
}
