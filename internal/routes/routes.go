package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/gateway"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, gw gateway.PaymentGateway) {
	orderService := services.NewOrderService(db)
	paymentService := services.NewPaymentService(db, gw, cfg)

	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	paymentHandler := handlers.NewPaymentHandler(db, paymentService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", catalogHandler.UpdateCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", productHandler.DeleteProduct)

	// Gateway webhook: unauthenticated, signature-verified instead.
	api.Post("/payments/callback", paymentHandler.Callback)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id", orderHandler.PatchOrder)
	protected.Delete("/orders/:id", orderHandler.DeleteOrder)
	protected.Post("/orders/:id/items", orderHandler.AddItem)
	protected.Patch("/orders/:id/items/:itemId", orderHandler.UpdateItem)
	protected.Delete("/orders/:id/items/:itemId", orderHandler.RemoveItem)

	protected.Post("/payments", paymentHandler.CreatePayment)
	protected.Get("/payments", paymentHandler.ListPayments)
}
