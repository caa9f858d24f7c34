// internal/interfaces/http/handlers/user_address.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// AddressHandler proxies the saved address book and keeps the checkout
// selection consistent with it
type AddressHandler struct {
	remote *api.Client
	logger *logrus.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(remote *api.Client, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{
		remote: remote,
		logger: logger,
	}
}

// AddressRequest represents a saved address payload
type AddressRequest struct {
	Label   string   `json:"label" binding:"required,max=255"`
	Phone   string   `json:"phone" binding:"max=32"`
	Details string   `json:"details" binding:"max=1000"`
	Lat     *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng     *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
}

func (r AddressRequest) toAPI() api.Address {
	return api.Address{
		Label:   r.Label,
		Phone:   r.Phone,
		Details: r.Details,
		Lat:     r.Lat,
		Lng:     r.Lng,
	}
}

// GetAddresses lists the saved addresses
func (h *AddressHandler) GetAddresses(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	addresses, err := remoteFor(h.remote, sess).Addresses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Addresses retrieved successfully",
		"data":    addresses,
	})
}

// CreateAddress saves a new address
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := remoteFor(h.remote, sess).CreateAddress(c.Request.Context(), req.toAPI())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"data":    created,
	})
}

// UpdateAddress replaces a saved address. An address that is the active
// selection is replaced there as well.
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	addressID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := remoteFor(h.remote, sess).UpdateAddress(c.Request.Context(), addressID, req.toAPI())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = sess.Update(func(st session.State) error {
		view := st.Selection.View()
		if view.Source == checkout.SourceSaved && view.Address != nil && view.Address.ID == addressID {
			return st.Selection.SelectSavedAddress(updated.ToCheckout())
		}
		return nil
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"data":    updated,
	})
}

// DeleteAddress removes a saved address and deselects it if it was active
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	addressID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := remoteFor(h.remote, sess).DeleteAddress(c.Request.Context(), addressID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = sess.Update(func(st session.State) error {
		st.Selection.ForgetSavedAddress(addressID)
		return nil
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}
