// internal/interfaces/http/handlers/views.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
	"github.com/your-org/storefront-bff/internal/interfaces/http/middleware"
)

// CartView is the ledger as returned to the front-end
type CartView struct {
	Kind    ledger.Kind         `json:"kind"`
	Lines   []ledger.CartLine   `json:"lines"`
	Rewards []ledger.RewardLine `json:"rewards"`
	Totals  ledger.Totals       `json:"totals"`
}

func viewCart(l *ledger.Ledger) CartView {
	v := CartView{
		Kind:    l.Kind(),
		Lines:   l.Lines(),
		Rewards: l.RewardLines(),
		Totals:  l.Totals(),
	}
	if v.Lines == nil {
		v.Lines = []ledger.CartLine{}
	}
	if v.Rewards == nil {
		v.Rewards = []ledger.RewardLine{}
	}
	return v
}

// currentSession returns the session set by the auth middleware. Routes using
// it are always mounted behind middleware.SessionAuth.
func currentSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		middleware.AbortSessionExpired(c)
		return nil, false
	}
	return sess, true
}

// remoteFor binds the shared remote client to the session's credentials
func remoteFor(base *api.Client, sess *session.Session) *api.Client {
	return base.WithCredentials(sess.Credentials)
}

// idParam parses a positive integer path parameter
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}
