// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/infrastructure/events"
	"github.com/your-org/boutique-backend/internal/interfaces/http/handlers"
	"github.com/your-org/boutique-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all route groups onto the API root
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, producer *events.Producer) {
	SetupAuthRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, redisClient, cfg)
	SetupDeliveryRoutes(rg, db, cfg)
	SetupOrderRoutes(rg, db, redisClient, cfg, producer)
	SetupAdminRoutes(rg, db, redisClient, cfg, producer)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}
}

// SetupProductRoutes sets up the public catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	rg.GET("/categories", categoryHandler.ListCategories)
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/count", cartHandler.GetCount)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items", cartHandler.UpdateQuantity)
		cart.DELETE("/items", cartHandler.RemoveItem)
	}
}

// SetupDeliveryRoutes sets up the public delivery area listing
func SetupDeliveryRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	deliveryHandler := handlers.NewDeliveryHandler(db, cfg)

	rg.GET("/delivery/areas", deliveryHandler.ListAreas)
}

// SetupOrderRoutes sets up the public order submission route
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, producer *events.Producer) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, producer)

	rg.POST("/orders", orderHandler.SubmitOrder)
}

// SetupAdminRoutes sets up the back-office routes. Everything here requires a
// valid token with an admin role; account management additionally requires
// superadmin.
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, producer *events.Producer) {
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	deliveryHandler := handlers.NewDeliveryHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, producer)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.RequireAdmin())
	{
		// Catalog management
		admin.GET("/products", productHandler.ListProductsAdmin)
		admin.GET("/products/:id", productHandler.GetProductAdmin)
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Delivery management
		admin.POST("/delivery/areas", deliveryHandler.CreateArea)
		admin.PUT("/delivery/areas/:id", deliveryHandler.UpdateArea)
		admin.DELETE("/delivery/areas/:id", deliveryHandler.DeleteArea)
		admin.PUT("/delivery/company", deliveryHandler.SwitchCompany)

		// Order lifecycle
		admin.GET("/orders", orderHandler.ListOrders)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.PUT("/orders/:id/status", orderHandler.SetOrderStatus)
		admin.GET("/orders/:id/slip", orderHandler.GetOrderSlip)

		// Account management, superadmin only
		users := admin.Group("/users")
		users.Use(middleware.RequireSuperAdmin())
		{
			users.GET("", userAdminHandler.ListUsers)
			users.POST("", userAdminHandler.CreateUser)
			users.PUT("/:id", userAdminHandler.UpdateUser)
			users.DELETE("/:id", userAdminHandler.DeleteUser)
		}
	}
}
