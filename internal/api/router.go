// Package api wires the domain services into the gin HTTP surface.
// Authorization lives entirely here: routes are gated by role, the services
// below never inspect the caller.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"comanda-system/config"
	"comanda-system/internal/api/handlers"
	"comanda-system/internal/api/middleware"
	"comanda-system/internal/database/models"
	"comanda-system/internal/services/billing"
	"comanda-system/internal/services/catalog"
	"comanda-system/internal/services/orders"
	"comanda-system/internal/services/tables"
	"comanda-system/internal/services/users"
)

func NewRouter(cfg config.Config, db *gorm.DB, redisClient *redis.Client) *gin.Engine {
	usersService := users.NewService(db, redisClient, cfg.Auth)
	catalogService := catalog.NewService(db, redisClient)
	tablesService := tables.NewService(db)
	ordersService := orders.NewService(db)
	billingService := billing.NewService(db)

	authHandler := handlers.NewAuthHandler(usersService)
	employeeHandler := handlers.NewEmployeeHandler(usersService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	tableHandler := handlers.NewTableHandler(tablesService)
	orderHandler := handlers.NewOrderHandler(ordersService)
	invoiceHandler := handlers.NewInvoiceHandler(billingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(cfg.Auth.Secret))

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleWaiter)
	kitchen := middleware.RequireRole(models.RoleAdmin, models.RoleCook)

	{
		categories := protected.Group("/categories")
		{
			categories.GET("", catalogHandler.ListCategories)
			categories.GET("/:id", catalogHandler.GetCategory)
			categories.POST("", adminOnly, catalogHandler.CreateCategory)
			categories.PUT("/:id", adminOnly, catalogHandler.UpdateCategory)
			categories.DELETE("/:id", adminOnly, catalogHandler.DisableCategory)
		}

		products := protected.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/:id", catalogHandler.GetProduct)
			products.POST("", adminOnly, catalogHandler.CreateProduct)
			products.PUT("/:id", adminOnly, catalogHandler.UpdateProduct)
			products.DELETE("/:id", adminOnly, catalogHandler.DisableProduct)
		}

		tablesGroup := protected.Group("/tables")
		{
			tablesGroup.GET("", tableHandler.List)
			tablesGroup.GET("/:id", tableHandler.Get)
			tablesGroup.POST("", adminOnly, tableHandler.Create)
			tablesGroup.PUT("/:id", adminOnly, tableHandler.Update)
			tablesGroup.PATCH("/:id/occupy", staff, tableHandler.Occupy)
			tablesGroup.PATCH("/:id/release", staff, tableHandler.Release)
		}

		ordersGroup := protected.Group("/orders")
		{
			ordersGroup.GET("", orderHandler.List)
			ordersGroup.GET("/:id", orderHandler.Get)
			ordersGroup.POST("", staff, orderHandler.Create)
			ordersGroup.PATCH("/:id/submit", staff, orderHandler.Submit)
			ordersGroup.PATCH("/:id/ready", kitchen, orderHandler.MarkReady)
			ordersGroup.PATCH("/:id/void", adminOnly, orderHandler.Void)
		}

		invoices := protected.Group("/invoices")
		{
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.POST("", staff, invoiceHandler.Create)
		}

		employees := protected.Group("/employees")
		{
			employees.GET("/me", employeeHandler.Me)
			employees.GET("", adminOnly, employeeHandler.List)
			employees.GET("/:id", adminOnly, employeeHandler.Get)
			employees.POST("", adminOnly, employeeHandler.Create)
			employees.PUT("/:id", adminOnly, employeeHandler.Update)
			employees.DELETE("/:id", adminOnly, employeeHandler.Deactivate)
		}
	}

	return r
}
