package router

import (
	"github.com/gin-gonic/gin"

	"github.com/alienstore/storefront-gateway/config"
	"github.com/alienstore/storefront-gateway/internal/app/controller"
	"github.com/alienstore/storefront-gateway/internal/middleware"
)

type Router struct {
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	paymentController  *controller.PaymentController
	orderController    *controller.OrderController
	catalogController  *controller.CatalogController
	reportController   *controller.ReportController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	paymentController *controller.PaymentController,
	orderController *controller.OrderController,
	catalogController *controller.CatalogController,
	reportController *controller.ReportController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		cartController:     cartController,
		checkoutController: checkoutController,
		paymentController:  paymentController,
		orderController:    orderController,
		catalogController:  catalogController,
		reportController:   reportController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "AlienStore storefront gateway is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/items/:productID", r.cartController.UpdateQuantity)
			cart.DELETE("/items/:productID", r.cartController.RemoveItem)
			cart.DELETE("/selection", r.cartController.ClearSelection)
			cart.POST("/selection/toggle", r.cartController.ToggleSelection)
			cart.POST("/selection/toggle-all", r.cartController.ToggleAllSelection)
			cart.DELETE("/:cartID", r.cartController.DeleteCart)
		}

		v1.POST("/checkout",
			r.authMiddleware.Authenticate(),
			r.checkoutController.Checkout,
		)

		payments := v1.Group("/payments")
		payments.Use(r.authMiddleware.Authenticate())
		{
			payments.GET("/watch", r.paymentController.ActiveWatch)
			payments.DELETE("/watch", r.paymentController.CancelWatch)
			payments.GET("/:orderID", r.paymentController.GetStatus)
			payments.POST("/:orderID/watch", r.paymentController.Watch)
		}

		// Token rides the query string here; browsers cannot set headers on
		// websocket dials.
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.paymentController.ServeWS)

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetHistory)
			orders.GET("/:orderID", r.orderController.GetOrder)
		}

		catalog := v1.Group("/catalog")
		catalog.Use(r.authMiddleware.Authenticate())
		{
			catalog.GET("/products", r.catalogController.GetProducts)
			catalog.GET("/categories", r.catalogController.GetCategories)
			catalog.GET("/subcategories", r.catalogController.GetSubcategories)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("Admin"))
		{
			admin.GET("/reports/orders.xlsx", r.reportController.DownloadOrdersReport)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
