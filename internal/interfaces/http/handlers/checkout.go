// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

// CheckoutHandler handles the address, payment and customer selection of the
// pending order
type CheckoutHandler struct {
	detector *checkout.Detector
	remote   *api.Client
	logger   *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(detector *checkout.Detector, remote *api.Client, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		detector: detector,
		remote:   remote,
		logger:   logger,
	}
}

// AdHocAddress is an address typed in at checkout and not saved
type AdHocAddress struct {
	Label   string   `json:"label" binding:"max=255"`
	Phone   string   `json:"phone" binding:"max=32"`
	Details string   `json:"details" binding:"max=1000"`
	Lat     *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng     *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
}

// SelectAddressRequest selects either a saved address or an ad hoc one
type SelectAddressRequest struct {
	AddressID int           `json:"address_id" binding:"omitempty,min=1"`
	Address   *AdHocAddress `json:"address"`
}

// SelectPaymentRequest selects the payment method
type SelectPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CustomerRequest identifies the customer of a sales order
type CustomerRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Phone string `json:"phone" binding:"required,max=32"`
	Email string `json:"email" binding:"omitempty,email"`
}

// CheckoutView is the pending order as shown at checkout
type CheckoutView struct {
	Selection  checkout.View         `json:"selection"`
	Customer   *account.CustomerInfo `json:"customer,omitempty"`
	SalesOrder bool                  `json:"sales_order"`
	Cart       CartView              `json:"cart"`
	Ready      bool                  `json:"ready"`
	Issues     []order.Issue         `json:"issues"`
}

func viewCheckout(st session.State) CheckoutView {
	v := CheckoutView{
		Selection:  st.Selection.View(),
		SalesOrder: account.IsSalesRep(st.Actor),
		Cart:       viewCart(st.Ledger),
		Ready:      true,
		Issues:     []order.Issue{},
	}
	if v.SalesOrder {
		customer := *st.Customer
		v.Customer = &customer
	}
	if err := order.Validate(st.Draft()); err != nil {
		v.Ready = false
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			v.Issues = verr.Issues
		}
	}
	return v
}

// GetCheckout returns the selection and what still blocks submission
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var view CheckoutView
	sess.View(func(st session.State) {
		view = viewCheckout(st)
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout retrieved successfully",
		"data":    view,
	})
}

// SelectAddress activates a saved address by id or an ad hoc address
func (h *CheckoutHandler) SelectAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req SelectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var selected checkout.Address
	switch {
	case req.AddressID > 0:
		addresses, err := remoteFor(h.remote, sess).Addresses(c.Request.Context())
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		found := false
		for _, a := range addresses {
			if a.ID == req.AddressID {
				selected, found = a.ToCheckout(), true
				break
			}
		}
		if !found {
			respondError(c, h.logger, errAddressNotFound)
			return
		}
	case req.Address != nil:
		selected = api.Address{
			Label:   req.Address.Label,
			Phone:   req.Address.Phone,
			Details: req.Address.Details,
			Lat:     req.Address.Lat,
			Lng:     req.Address.Lng,
		}.ToCheckout()
	default:
		respondError(c, h.logger, errNoAddressGiven)
		return
	}

	h.update(c, sess, "Address selected", func(st session.State) error {
		if selected.Persisted() {
			return st.Selection.SelectSavedAddress(selected)
		}
		return st.Selection.SelectAdHocAddress(selected)
	})
}

// SelectCurrentLocation activates the current location, detected or not
func (h *CheckoutHandler) SelectCurrentLocation(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	h.update(c, sess, "Current location selected", func(st session.State) error {
		st.Selection.SelectCurrentLocation()
		return nil
	})
}

// DetectCurrentLocation resolves the position reported by the device. A
// failed detection leaves the selection unchanged.
func (h *CheckoutHandler) DetectCurrentLocation(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var reported checkout.ReportedPosition
	if err := c.ShouldBindJSON(&reported); err != nil {
		bindError(c, err)
		return
	}

	addr, err := h.detector.DetectCurrentLocation(c.Request.Context(), reported)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.update(c, sess, "Current location detected", func(st session.State) error {
		return st.Selection.UseCurrentLocation(addr)
	})
}

// SelectPayment sets the payment method
func (h *CheckoutHandler) SelectPayment(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req SelectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	h.update(c, sess, "Payment method selected", func(st session.State) error {
		return st.Selection.SelectPaymentMethod(req.PaymentMethod)
	})
}

// SetCustomer records who a sales representative is ordering for
func (h *CheckoutHandler) SetCustomer(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	h.update(c, sess, "Customer details saved", func(st session.State) error {
		if !account.IsSalesRep(st.Actor) {
			return errNotSalesRep
		}
		*st.Customer = account.CustomerInfo{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
		}.Normalize()
		return nil
	})
}

// update applies fn and answers with the checkout view
func (h *CheckoutHandler) update(c *gin.Context, sess *session.Session, message string, fn func(st session.State) error) {
	var view CheckoutView
	err := sess.Update(func(st session.State) error {
		if err := fn(st); err != nil {
			return err
		}
		view = viewCheckout(st)
		return nil
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    view,
	})
}
