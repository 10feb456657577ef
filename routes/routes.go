package routes

import (
	"log/slog"

	"aiqr-api/handlers"
	"aiqr-api/middleware"
	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the shared middleware chain and every route
func NewRouter(h *handlers.Handler, tokens middleware.Verifier, log *slog.Logger, corsOrigins ...string) *gin.Engine {
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log), middleware.CORS(corsOrigins...), middleware.ErrorHandler(log))
	SetupRoutes(r, h, tokens)
	r.NoRoute(middleware.NotFound)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, tokens middleware.Verifier) {
	vendorOnly := func(next middleware.ClaimsHandlerFunc) gin.HandlerFunc {
		return middleware.Authorized(tokens, token.Vendor, next)
	}

	// ── Public routes ──────────────────────────────────────────────
	r.GET("/healthcheck", handlers.Healthcheck)

	// ── Authorizer routes ──────────────────────────────────────────
	authorize := r.Group("/authorize")
	{
		authorize.POST("/login", h.AuthorizerLogin)
		authorize.POST("/register", h.AuthorizerRegister)
		authorize.POST("/createvendor", middleware.Authorized(tokens, token.Authorizer, h.CreateVendor))
	}

	// ── Vendor routes ──────────────────────────────────────────────
	vendor := r.Group("/vendor")
	{
		vendor.POST("/login", h.VendorLogin)
		vendor.POST("/register", h.VendorRegister)

		vendor.GET("/getvendordata", vendorOnly(h.GetVendorData))
		vendor.PUT("/update", vendorOnly(h.UpdateVendor))

		// Tables
		vendor.GET("/getalltables", vendorOnly(h.GetAllTables))
		vendor.POST("/addtables", vendorOnly(h.AddTables))
		vendor.PATCH("/updatetable/:tableId", vendorOnly(h.UpdateTable))
		vendor.DELETE("/deletetable/:tableId", vendorOnly(h.DeleteTable))

		// Menu categories
		vendor.GET("/getallcategories", vendorOnly(h.GetAllCategories))
		vendor.POST("/addcategory", vendorOnly(h.AddCategory))
		vendor.PUT("/updatecategory/:categoryId", vendorOnly(h.UpdateCategory))
		vendor.DELETE("/deletecategory/:categoryId", vendorOnly(h.DeleteCategory))

		// Menu items
		vendor.GET("/getallmenuitems", vendorOnly(h.GetAllMenuItems))
		vendor.POST("/addmenuitem/:categoryId", vendorOnly(h.AddMenuItem))
		vendor.PUT("/updatemenuitem/:menuItemId", vendorOnly(h.UpdateMenuItem))
		vendor.DELETE("/deletemenuitem/:categoryId/:menuItemId", vendorOnly(h.DeleteMenuItem))
	}

	// ── Consumer routes ────────────────────────────────────────────
	r.GET("/", middleware.Authorized(tokens, token.Consumer, h.Welcome))
	r.GET("/consumer/restaurants/:restaurantId/menu", middleware.Authorized(tokens, token.Consumer, h.ConsumerMenu))
}
