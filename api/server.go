package api

import (
	"waiter-telegram/app"
	"waiter-telegram/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes the waiter and admin screens as a JSON API under /api/v1.
type Server struct {
	state    *app.State
	store    services.CatalogStore
	auth     services.Authenticator
	tokens   *services.TokenIssuer
	throttle services.LoginThrottle
	logger   *zap.SugaredLogger
	origins  []string
}

type Deps struct {
	State       *app.State
	Store       services.CatalogStore
	Auth        services.Authenticator
	Tokens      *services.TokenIssuer
	Throttle    services.LoginThrottle
	Logger      *zap.SugaredLogger
	CORSOrigins []string
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop().Sugar()
	}
	if d.Throttle == nil {
		d.Throttle = services.NewMemoryLoginThrottle()
	}
	return &Server{
		state:    d.State,
		store:    d.Store,
		auth:     d.Auth,
		tokens:   d.Tokens,
		throttle: d.Throttle,
		logger:   d.Logger,
		origins:  d.CORSOrigins,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))
	r.Use(corsMiddleware(s.origins))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.health)
		v1.GET("/state", s.getState)
		v1.GET("/menu", s.getMenu)
		v1.PUT("/view/filter", s.setFilter)
		v1.PUT("/view", s.setView)
		v1.POST("/catalog/refresh", s.refreshCatalog)

		v1.GET("/cart", s.getCart)
		v1.POST("/cart/items", s.addCartItem)
		v1.PATCH("/cart/items/:id", s.adjustCartItem)
		v1.DELETE("/cart", s.clearCart)
		v1.POST("/orders", s.placeOrder)

		v1.POST("/admin/login", s.login)
	}

	admin := v1.Group("/admin", requireAdmin(s.tokens))
	{
		admin.POST("/logout", s.logout)

		admin.GET("/items", s.listItems)
		admin.POST("/items", s.createItem)
		admin.PUT("/items/:id", s.updateItem)
		admin.DELETE("/items/:id", s.deleteItem)
		admin.POST("/items/:id/toggle", s.toggleItem)

		admin.GET("/categories", s.listCategories)
		admin.POST("/categories", s.addCategory)
		admin.PUT("/categories/order", s.reorderCategories)
		admin.PATCH("/categories/:name", s.renameCategory)
		admin.DELETE("/categories/:name", s.deleteCategory)
		admin.POST("/categories/:name/move", s.moveCategory)

		admin.GET("/orders", s.listOrders)

		admin.GET("/settings", s.getSettings)
		admin.PUT("/settings", s.saveSettings)
	}
	return r
}
