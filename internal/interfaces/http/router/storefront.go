package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Cart      *handler.CartHandler
	Store     *handler.StoreHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Promotion *handler.PromotionHandler
	Stats     *handler.StatsHandler
}

// Middleware holds the per-group middleware. Any of them may be nil.
type Middleware struct {
	// JWT authenticates the store owner
	JWT gin.HandlerFunc
	// Session resolves the shopper session for cart routes
	Session gin.HandlerFunc
	// ShopperInFlight rejects concurrent duplicate cart mutations
	ShopperInFlight gin.HandlerFunc
	// AdminInFlight rejects concurrent duplicate admin mutations
	AdminInFlight gin.HandlerFunc
	// PublicRateLimit throttles anonymous catalog and cart traffic
	PublicRateLimit gin.HandlerFunc
	// AuthRateLimit throttles sign-in, sign-up and refresh
	AuthRateLimit gin.HandlerFunc
}

// StorefrontGroups builds the route groups of the storefront API
func StorefrontGroups(h Handlers, m Middleware) []*DomainGroup {
	return []*DomainGroup{
		authGroup(h, m),
		catalogGroup(h, m),
		cartGroup(h, m),
		adminGroup(h, m),
	}
}

func authGroup(h Handlers, m Middleware) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/register", m.AuthRateLimit, h.Auth.Register)
	g.POST("/login", m.AuthRateLimit, h.Auth.Login)
	g.POST("/refresh", m.AuthRateLimit, h.Auth.RefreshToken)

	session := g.Group("auth-session", "")
	session.Use(m.JWT)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.GetCurrentOwner)
	session.PUT("/password", h.Auth.ChangePassword)
	return g
}

func catalogGroup(h Handlers, m Middleware) *DomainGroup {
	g := NewDomainGroup("catalog", "/stores/:storeId")
	g.Use(m.PublicRateLimit)
	g.GET("", h.Catalog.GetStore)
	g.GET("/categories", h.Catalog.ListCategories)
	g.GET("/products", h.Catalog.ListProducts)
	g.GET("/promotions", h.Catalog.ListPromotions)
	return g
}

func cartGroup(h Handlers, m Middleware) *DomainGroup {
	g := NewDomainGroup("cart", "/stores/:storeId/cart")
	g.Use(m.PublicRateLimit, m.Session)
	g.GET("", h.Cart.Get)
	g.DELETE("", m.ShopperInFlight, h.Cart.Clear)
	g.POST("/items", m.ShopperInFlight, h.Cart.AddItem)
	g.PATCH("/items/:productId", m.ShopperInFlight, h.Cart.ChangeQuantity)
	g.DELETE("/items/:productId", m.ShopperInFlight, h.Cart.RemoveItem)
	g.POST("/checkout", m.ShopperInFlight, h.Cart.Checkout)
	return g
}

func adminGroup(h Handlers, m Middleware) *DomainGroup {
	g := NewDomainGroup("admin", "/admin")
	g.Use(m.JWT)

	g.GET("/store", h.Store.Get)
	g.PUT("/store", m.AdminInFlight, h.Store.Update)
	g.POST("/store/logo", m.AdminInFlight, h.Store.UploadLogo)
	g.GET("/stats", h.Stats.Get)

	categories := g.Group("categories", "/categories")
	categories.GET("", h.Category.List)
	categories.POST("", m.AdminInFlight, h.Category.Create)
	categories.GET("/:id", h.Category.GetByID)
	categories.PUT("/:id", m.AdminInFlight, h.Category.Update)
	categories.DELETE("/:id", m.AdminInFlight, h.Category.Delete)

	products := g.Group("products", "/products")
	products.GET("", h.Product.List)
	products.POST("", m.AdminInFlight, h.Product.Create)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", m.AdminInFlight, h.Product.Update)
	products.DELETE("/:id", m.AdminInFlight, h.Product.Delete)

	promotions := g.Group("promotions", "/promotions")
	promotions.GET("", h.Promotion.List)
	promotions.POST("", m.AdminInFlight, h.Promotion.Create)
	promotions.GET("/:id", h.Promotion.GetByID)
	promotions.PUT("/:id", m.AdminInFlight, h.Promotion.Update)
	promotions.PATCH("/:id/toggle", m.AdminInFlight, h.Promotion.Toggle)
	promotions.PUT("/:id/active", m.AdminInFlight, h.Promotion.SetActive)
	promotions.DELETE("/:id", m.AdminInFlight, h.Promotion.Delete)
	return g
}
