package routes

import (
	"time"

	"sarap_local_back_end/internal/handlers"
	"sarap_local_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), handlers.Register)
		auth.POST("/login", middleware.LoginRateLimit(), handlers.Login)
		auth.POST("/refresh", handlers.Refresh)
		auth.POST("/logout", middleware.AuthRequired(), handlers.Logout)

		// OAuth (Google / Facebook)
		auth.GET("/:provider", handlers.BeginAuth)
		auth.GET("/:provider/callback", handlers.CallbackAuth)
	}

	api.GET("/me", middleware.AuthRequired(), handlers.Me)

	// Catalogue public
	api.GET("/products", handlers.ListProducts)
	api.GET("/products/search", handlers.SearchProducts)
	api.GET("/products/:id", handlers.GetProduct)

	// Panier (client connecté)
	cart := api.Group("/cart", middleware.AuthRequired())
	{
		cart.GET("", handlers.GetCart)
		cart.POST("/items", handlers.AddToCart)
		cart.PUT("/items/:productId", handlers.UpdateCartItem)
		cart.DELETE("/items/:productId", handlers.RemoveFromCart)
		cart.DELETE("", handlers.ClearCart)
	}

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.POST("", handlers.Checkout)
		orders.GET("", handlers.ListOrders)
		orders.GET("/:id", handlers.GetOrder)
	}

	// Notifications
	notifications := api.Group("/notifications", middleware.AuthRequired())
	{
		notifications.GET("", handlers.ListNotifications)
		notifications.GET("/unread-count", handlers.UnreadCount)
	}

	// Chat
	chat := api.Group("/chat", middleware.AuthRequired())
	{
		chat.POST("/send", handlers.SendMessage)
		chat.GET("/conversations", handlers.ListConversations)
		chat.GET("/messages/:id", handlers.GetMessages)
	}

	// Reels
	reels := api.Group("/reels", middleware.AuthRequired())
	{
		reels.GET("/feed", handlers.ListReels)
		reels.POST("", middleware.VendorRequired(), handlers.CreateReel)
		reels.POST("/:id/like", handlers.ToggleReelLike)
		reels.DELETE("/:id", handlers.DeleteReel)
	}

	// Espace vendeur
	vendor := api.Group("/vendor", middleware.AuthRequired(), middleware.VendorRequired())
	{
		vendor.POST("/products", handlers.CreateProduct)
		vendor.PUT("/products/:id", handlers.UpdateProduct)
		vendor.PATCH("/products/:id/stock", handlers.UpdateStock)
		vendor.POST("/products/:id/image", handlers.UploadProductImage)
		vendor.DELETE("/products/:id", handlers.DeleteProduct)

		vendor.GET("/promotions", handlers.ListPromotions)
		vendor.POST("/promotions", handlers.CreatePromotion)
		vendor.PUT("/promotions/:id", handlers.UpdatePromotion)
		vendor.DELETE("/promotions/:id", handlers.DeletePromotion)

		vendor.PATCH("/orders/:id/status", handlers.UpdateOrderStatus)
	}

	// Espace admin
	admin := api.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/users", handlers.AdminListUsers)
		admin.POST("/users/:id/ban", handlers.AdminBanUser)
		admin.DELETE("/users/:id/ban", handlers.AdminUnbanUser)
		admin.GET("/stats", handlers.AdminStats)
	}

	// WebSocket temps réel
	ws := api.Group("/ws", middleware.AuthRequired())
	{
		ws.GET("/notifications", handlers.NotificationsWebSocket)
		ws.GET("/chat", handlers.ChatWebSocket)
	}
}
