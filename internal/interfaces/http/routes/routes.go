// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/config"
	"github.com/your-org/storefront-bff/internal/domain/catalog"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
	"github.com/your-org/storefront-bff/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-bff/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-bff/internal/pkg/auth"
	"github.com/your-org/storefront-bff/internal/pkg/pdf"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Remote   *api.Client
	Sessions *session.Registry
	Catalog  *catalog.Service
	Orders   *order.Service
	Detector *checkout.Detector
	Receipts *pdf.Service
	JWT      *auth.JWTManager
}

// SetupAuthRoutes sets up session routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.Remote, deps.JWT, deps.Config.Sales, deps.Logger)

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)

		// Logout must work after the remote token was revoked
		protected := authGroup.Group("")
		protected.Use(middleware.SessionAuth(deps.JWT, deps.Sessions))
		{
			protected.POST("/logout", authHandler.Logout)
		}
	}

	user := rg.Group("/user")
	user.Use(middleware.SessionAuth(deps.JWT, deps.Sessions), middleware.RequireRemoteCredentials())
	{
		user.GET("/profile", authHandler.GetProfile)
	}
}

// SetupCatalogRoutes sets up catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Remote, deps.Logger)

	catalogGroup := rg.Group("/catalog")
	catalogGroup.Use(middleware.SessionAuth(deps.JWT, deps.Sessions), middleware.RequireRemoteCredentials())
	{
		catalogGroup.GET("/categories", catalogHandler.GetCategories)
		catalogGroup.GET("/products", catalogHandler.GetProducts)
		catalogGroup.GET("/rewards", catalogHandler.GetRewards)
	}
}

// SetupCartRoutes sets up ledger routes. The ledger survives an expired
// remote token, so these only need the session.
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Catalog, deps.Sessions, deps.Remote, deps.Logger)
	rewardsHandler := handlers.NewRewardsHandler(deps.Catalog, deps.Orders, deps.Sessions, deps.Remote, deps.Logger)

	cart := rg.Group("/cart")
	cart.Use(middleware.SessionAuth(deps.JWT, deps.Sessions))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	rewards := rg.Group("/rewards")
	rewards.Use(middleware.SessionAuth(deps.JWT, deps.Sessions))
	{
		rewards.POST("/items", rewardsHandler.AddReward)
		rewards.PUT("/items/:id", rewardsHandler.UpdateReward)
		rewards.DELETE("/items/:id", rewardsHandler.RemoveReward)
		rewards.POST("/claim", middleware.RequireRemoteCredentials(), rewardsHandler.Claim)
	}
}

// SetupAddressRoutes sets up saved address routes
func SetupAddressRoutes(rg *gin.RouterGroup, deps Dependencies) {
	addressHandler := handlers.NewAddressHandler(deps.Remote, deps.Logger)

	addresses := rg.Group("/addresses")
	addresses.Use(middleware.SessionAuth(deps.JWT, deps.Sessions), middleware.RequireRemoteCredentials())
	{
		addresses.GET("", addressHandler.GetAddresses)
		addresses.POST("", addressHandler.CreateAddress)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
	}
}

// SetupCheckoutRoutes sets up checkout and order routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Detector, deps.Remote, deps.Logger)
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Receipts, deps.Sessions, deps.Remote, deps.Logger)

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.SessionAuth(deps.JWT, deps.Sessions))
	{
		checkoutGroup.GET("", checkoutHandler.GetCheckout)
		checkoutGroup.PUT("/address", middleware.RequireRemoteCredentials(), checkoutHandler.SelectAddress)
		checkoutGroup.PUT("/current-location", checkoutHandler.SelectCurrentLocation)
		checkoutGroup.POST("/current-location", checkoutHandler.DetectCurrentLocation)
		checkoutGroup.PUT("/payment", checkoutHandler.SelectPayment)
		checkoutGroup.PUT("/customer", checkoutHandler.SetCustomer)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.SessionAuth(deps.JWT, deps.Sessions))
	{
		orders.POST("", middleware.RequireRemoteCredentials(), orderHandler.SubmitOrder)
		orders.GET("/:id/receipt", orderHandler.GetReceipt)
		orders.GET("/:id/receipt/pdf", orderHandler.DownloadReceipt)
	}
}

// SetupRoutes sets up all routes
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupAuthRoutes(rg, deps)
	SetupCatalogRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupAddressRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
}
