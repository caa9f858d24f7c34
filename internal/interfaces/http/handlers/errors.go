// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/catalog"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
	"github.com/your-org/storefront-bff/internal/interfaces/http/middleware"
)

var (
	errAddressNotFound = errors.New("address not found")
	errReceiptNotFound = errors.New("receipt not found")
	errNotSalesRep     = errors.New("customer details apply to sales orders only")
	errNoAddressGiven  = errors.New("address_id or address is required")
)

// respondError maps a domain or remote API error onto a JSON response
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		validationErr *order.ValidationError
		locationErr   *checkout.LocationError
		authErr       *api.AuthExpiredError
		remoteValErr  *api.ServerValidationError
		remoteErr     *api.ServerError
		networkErr    *api.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Order cannot be submitted",
			"issues": validationErr.Issues,
		})
	case errors.As(err, &locationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": locationErr.Message(),
			"code":  locationErr.Code,
		})
	case errors.Is(err, session.ErrSessionNotFound):
		middleware.AbortSessionExpired(c)
	case errors.As(err, &authErr):
		if sess, ok := middleware.GetSession(c); ok {
			sess.Expire()
		}
		middleware.AbortSessionExpired(c)
	case errors.As(err, &remoteValErr):
		messages := remoteValErr.Messages()
		message := api.GenericFailureMessage
		if len(messages) > 0 {
			message = messages[0]
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   message,
			"details": messages,
		})
	case errors.As(err, &remoteErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": remoteErr.UserMessage(),
		})
	case errors.As(err, &networkErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "The store could not be reached, please check your connection and try again",
		})
	case errors.Is(err, order.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error": "An order is already being submitted",
		})
	case errors.Is(err, errNotSalesRep):
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, ledger.ErrLineNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrRewardNotFound),
		errors.Is(err, errAddressNotFound),
		errors.Is(err, errReceiptNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, ledger.ErrInsufficientPoints),
		errors.Is(err, ledger.ErrInvalidItem),
		errors.Is(err, order.ErrNothingToClaim),
		errors.Is(err, checkout.ErrAddressNotSaved),
		errors.Is(err, checkout.ErrAddressIncomplete),
		errors.Is(err, checkout.ErrPaymentMethodRequired),
		errors.Is(err, checkout.ErrCoordinatesRequired),
		errors.Is(err, errNoAddressGiven):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "Request timeout",
		})
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("Unhandled request error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// bindError answers a malformed request body
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
