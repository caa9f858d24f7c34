// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/catalog"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// CartHandler handles the product lines of the ledger
type CartHandler struct {
	catalog  *catalog.Service
	sessions *session.Registry
	remote   *api.Client
	logger   *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(catalogService *catalog.Service, sessions *session.Registry, remote *api.Client, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		catalog:  catalogService,
		sessions: sessions,
		remote:   remote,
		logger:   logger,
	}
}

// AdjustItemRequest changes a line by delta; delta defaults to 1
type AdjustItemRequest struct {
	ProductID int  `json:"product_id" binding:"required,min=1"`
	Delta     *int `json:"delta" binding:"omitempty,min=-9999,max=9999"`
}

// SetQuantityRequest sets the absolute quantity of a line
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=9999"`
}

// GetCart returns the ledger with its totals
func (h *CartHandler) GetCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var view CartView
	sess.View(func(st session.State) {
		view = viewCart(st.Ledger)
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// AddItem adjusts a product line by delta
func (h *CartHandler) AddItem(c *gin.Context) {
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

	product, err := h.catalog.ProductByID(c.Request.Context(), remoteFor(h.remote, sess), req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var view CartView
	err = sess.Update(func(st session.State) error {
		if err := st.Ledger.AdjustLine(product, delta); err != nil {
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
		"message": "Cart updated successfully",
		"data":    view,
	})
}

// UpdateItem sets the quantity of a product line; zero removes it
func (h *CartHandler) UpdateItem(c *gin.Context) {
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
		_, existing = st.Ledger.Line(productID)
	})

	// A line that is not in the cart yet needs its catalog data
	var product ledger.Product
	if !existing {
		if *req.Quantity <= 0 {
			respondError(c, h.logger, ledger.ErrLineNotFound)
			return
		}
		p, err := h.catalog.ProductByID(c.Request.Context(), remoteFor(h.remote, sess), productID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		product = p
	}

	var view CartView
	err := sess.Update(func(st session.State) error {
		p := product
		if line, found := st.Ledger.Line(productID); found {
			p = ledger.Product{
				ID:        line.ProductID,
				Title:     line.Title,
				UnitPrice: line.UnitPrice,
				ImageRef:  line.ImageRef,
			}
		} else if p.ID == 0 {
			return ledger.ErrLineNotFound
		}
		if err := st.Ledger.SetLineQuantity(p, *req.Quantity); err != nil {
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
		"message": "Cart item updated successfully",
		"data":    view,
	})
}

// RemoveItem removes a product line
func (h *CartHandler) RemoveItem(c *gin.Context) {
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
		if err := st.Ledger.RemoveLine(productID); err != nil {
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
		"message": "Item removed from cart",
		"data":    view,
	})
}

// ClearCart empties the ledger, product and reward lines alike
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var view CartView
	_ = sess.Update(func(st session.State) error {
		st.Ledger.Clear()
		view = viewCart(st.Ledger)
		return nil
	})
	h.sessions.Persist(c.Request.Context(), sess)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    view,
	})
}
