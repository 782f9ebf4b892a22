package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/config"
	"github.com/example/smartwave/internal/handlers"
	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	notifyService := services.NewNotificationService(db, cfg.AdminWebhookURL)
	razorpayService := services.NewRazorpayService(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	cardHandler := handlers.NewCardHandler(db, cfg.CardBaseURL)
	productHandler := handlers.NewProductHandler(db)
	storeHandler := handlers.NewStoreHandler(db, notifyService)
	orderHandler := handlers.NewOrderHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, razorpayService, notifyService)
	passHandler := handlers.NewPassHandler(db, notifyService)
	adminHandler := handlers.NewAdminHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db, notifyService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public routes
	api.Get("/cards/:shorturl", cardHandler.GetPublicCard)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Gateway webhook (authenticated by signature, not by session)
	api.Post("/payment/webhook",
		middleware.WebhookAuthMiddleware(cfg.RazorpayWebhookSecret),
		paymentHandler.Webhook)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.SaveProfile)
	protected.Delete("/profile", profileHandler.DeleteProfile)
	protected.Post("/profile/shorturl", profileHandler.GenerateShortURL)
	protected.Get("/profile/progress", profileHandler.GetProgress)
	protected.Get("/profile/qrcode", cardHandler.GetQRCode)

	protected.Get("/preferences", storeHandler.GetPreferences)

	protected.Post("/cart", storeHandler.AddToCart)
	protected.Delete("/cart/:productId", storeHandler.RemoveFromCart)
	protected.Put("/cart/quantity", storeHandler.UpdateCartQuantity)
	protected.Post("/cart/checkout", storeHandler.Checkout)

	protected.Post("/wishlist", storeHandler.AddToWishlist)
	protected.Delete("/wishlist/:productId", storeHandler.RemoveFromWishlist)
	protected.Post("/wishlist/:productId/move-to-cart", storeHandler.MoveToCart)

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Post("/orders", orderHandler.SaveOrder)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Post("/payment/orders", paymentHandler.CreatePayment)
	protected.Post("/payment/verify", paymentHandler.VerifyPayment)
	protected.Get("/payment/attempts", paymentHandler.ListAttempts)

	protected.Get("/passes", passHandler.ListPasses)
	protected.Post("/passes/:id/memberships", passHandler.RequestMembership)
	protected.Get("/memberships", passHandler.ListMyMemberships)

	protected.Get("/notifications", notificationHandler.ListMine)
	protected.Put("/notifications/:id/read", notificationHandler.MarkRead)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleAdmin))

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	admin.Post("/passes", passHandler.CreatePass)
	admin.Delete("/passes/:id", passHandler.DeactivatePass)
	admin.Get("/passes/:id/memberships", passHandler.ListPassMemberships)
	admin.Put("/memberships/:membershipId", passHandler.DecideMembership)

	admin.Put("/orders/:id/status", orderHandler.UpdateOrderStatus)
	admin.Post("/notifications", notificationHandler.Send)

	// Super-admin routes
	superadmin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleSuperAdmin))

	superadmin.Get("/stats", adminHandler.DashboardStats)
	superadmin.Get("/users", adminHandler.ListAllUsers)
	superadmin.Put("/users/:id/role", adminHandler.UpdateUserRole)
	superadmin.Delete("/users/:id", adminHandler.DeleteUser)
}
