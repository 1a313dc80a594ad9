package routes

import (
	"github.com/gin-gonic/gin"

	"swadisht_back_end/internal/handlers/admin"
	checkouthandlers "swadisht_back_end/internal/handlers/checkout"
	"swadisht_back_end/internal/handlers/catalog"
	"swadisht_back_end/internal/handlers/user"
	"swadisht_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// 🔑 Authentification
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/me", middleware.AuthRequired(), user.GetCurrentUser)
		auth.PUT("/me", middleware.AuthRequired(), user.UpdateProfile)
		auth.GET("/:provider", user.BeginAuth)
		auth.GET("/:provider/callback", user.CallbackAuth)
	}

	// 🍬 Catalogue public
	api.GET("/products", catalog.ListProducts)
	api.GET("/products/search", middleware.SearchRateLimit(), catalog.SearchProducts)
	api.GET("/products/:id", catalog.GetProductByID)
	api.GET("/categories", catalog.GetAllCategories)
	api.GET("/categories/:id", catalog.GetCategoryByID)

	// 🛒 Panier (connecté ou invité via X-Cart-Token)
	cart := api.Group("/cart")
	cart.Use(middleware.AuthOptional(), middleware.CartRateLimit())
	{
		cart.GET("", user.GetCart)
		cart.POST("/add", user.AddToCart)
		cart.DELETE("/clear", user.ClearCart)
		cart.PUT("/:productId", user.UpdateQuantity)
		cart.DELETE("/:productId", user.RemoveFromCart)
	}
	api.GET("/cart/ws", middleware.AuthOptional(), user.CartWebSocket)

	// 🧾 Tunnel de commande
	checkout := api.Group("/checkout")
	checkout.Use(middleware.AuthOptional())
	{
		checkout.POST("/quote", checkouthandlers.Quote)
		checkout.POST("/coupon", checkouthandlers.ValidateCouponCode)
		checkout.POST("/validate-step", checkouthandlers.ValidateStep)
		checkout.POST("/place-order", checkouthandlers.PlaceOrder)
	}
	// Webhook Stripe : pas de JWT, la signature fait foi
	api.POST("/checkout/webhook", checkouthandlers.StripeWebhook)

	// 🚚 Estimation transporteur
	api.GET("/shipping/estimate", middleware.AuthOptional(), checkouthandlers.EstimateShipping)

	// 📦 Commandes client
	orders := api.Group("/orders")
	{
		orders.GET("", middleware.AuthRequired(), user.GetMyOrders)
		orders.GET("/guest/:orderNumber", user.GetGuestOrderSummary)
		orders.GET("/:id", middleware.AuthRequired(), user.GetOrderByID)
	}

	// 🏠 Carnet d'adresses
	addresses := api.Group("/addresses")
	addresses.Use(middleware.AuthRequired())
	{
		addresses.GET("", user.GetAddresses)
		addresses.POST("", user.AddAddress)
		addresses.PUT("/:id", user.UpdateAddress)
		addresses.DELETE("/:id", user.DeleteAddress)
	}

	// 📧 Contact
	api.POST("/contact", user.SubmitContactMessage)

	// 🛠️ Administration
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin())
	{
		adminGroup.GET("/products", admin.GetAllProducts)
		adminGroup.POST("/products", admin.CreateProduct)
		adminGroup.POST("/products/upload", admin.UploadProductImage)
		adminGroup.PUT("/products/:id", admin.UpdateProduct)
		adminGroup.DELETE("/products/:id", admin.DeleteProduct)

		adminGroup.POST("/categories", admin.CreateCategory)
		adminGroup.PUT("/categories/:id", admin.UpdateCategory)
		adminGroup.DELETE("/categories/:id", admin.DeleteCategory)

		adminGroup.GET("/coupons", admin.GetAllCoupons)
		adminGroup.POST("/coupons", admin.CreateCoupon)
		adminGroup.PUT("/coupons/:code", admin.UpdateCoupon)
		adminGroup.DELETE("/coupons/:code", admin.DeleteCoupon)

		adminGroup.GET("/orders", admin.GetAllOrders)
		adminGroup.GET("/orders/recent", admin.GetRecentOrders)
		adminGroup.GET("/orders/:id", admin.GetOrderByID)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)
		adminGroup.GET("/orders/:id/invoice", admin.DownloadInvoice)

		adminGroup.GET("/customers", admin.GetAllCustomers)
		adminGroup.GET("/contact-messages", admin.GetContactMessages)

		adminGroup.GET("/settings", admin.GetSettings)
		adminGroup.PUT("/settings", admin.UpdateSettings)

		adminGroup.GET("/dashboard", admin.GetDashboard)
	}
}
