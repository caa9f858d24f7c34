// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/config"
	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
	"github.com/your-org/storefront-bff/internal/pkg/auth"
)

// AuthHandler opens and closes sessions
type AuthHandler struct {
	sessions   *session.Registry
	remote     *api.Client
	jwtManager *auth.JWTManager
	sales      config.SalesConfig
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Registry, remote *api.Client, jwtManager *auth.JWTManager, sales config.SalesConfig, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		remote:     remote,
		jwtManager: jwtManager,
		sales:      sales,
		logger:     logger,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login signs in against the remote API and opens a session
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.remote.WithCredentials(nil).Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		if api.IsAuthExpired(err) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid phone or password",
			})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	var remoteExpiry time.Time
	if result.ExpiresIn > 0 {
		remoteExpiry = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	}

	actor := account.NewActor(result.User, h.sales.RoleName, h.sales.ProxyAccountID)
	sess := h.sessions.Open(c.Request.Context(), actor, api.NewCredentials(result.Token, remoteExpiry))

	token, expiresAt, err := h.jwtManager.GenerateSessionToken(sess.ID, result.User.ID, result.User.Role)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate session token")
		_ = h.sessions.Close(c.Request.Context(), sess.ID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to open session",
		})
		return
	}

	var view CartView
	sess.View(func(st session.State) {
		view = viewCart(st.Ledger)
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
			"user":       result.User,
			"sales_rep":  account.IsSalesRep(actor),
			"cart":       view,
		},
	})
}

// Logout closes the session
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if err := h.sessions.Close(c.Request.Context(), sess.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}

// GetProfile re-reads the account from the remote API and refreshes the
// point balance
func (h *AuthHandler) GetProfile(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	profile, err := remoteFor(h.remote, sess).Profile(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	actor := account.NewActor(*profile, h.sales.RoleName, h.sales.ProxyAccountID)
	sess.SetActor(actor)

	var totals gin.H
	_ = sess.Update(func(st session.State) error {
		st.Ledger.SetPointBalance(profile.Points)
		totals = gin.H{
			"point_balance":    st.Ledger.PointBalance(),
			"available_points": st.Ledger.AvailablePoints(),
		}
		return nil
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data": gin.H{
			"user":      profile,
			"sales_rep": account.IsSalesRep(actor),
			"points":    totals,
		},
	})
}
