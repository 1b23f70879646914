package api

import (
	"net/http"
	"time"

	"waiter-telegram/models"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// GET /health
func (s *Server) health(c *gin.Context) {
	storeStatus := "ok"
	if err := s.store.Ping(c.Request.Context()); err != nil {
		storeStatus = "error"
	}
	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  map[string]string{"store": storeStatus},
	}
	if storeStatus != "ok" {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, envelope{OK: false, Data: resp, Error: "store unreachable"})
		return
	}
	respond(c, http.StatusOK, resp)
}

// GET /state
func (s *Server) getState(c *gin.Context) {
	respond(c, http.StatusOK, s.state.Snapshot())
}

// GET /menu
func (s *Server) getMenu(c *gin.Context) {
	respond(c, http.StatusOK, s.state.VisibleItems())
}

// PUT /view/filter
func (s *Server) setFilter(c *gin.Context) {
	var f models.Filter
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, err)
		return
	}
	f = s.state.SetFilter(f)
	respond(c, http.StatusOK, gin.H{"filter": f, "items": s.state.VisibleItems()})
}

// PUT /view
func (s *Server) setView(c *gin.Context) {
	var body struct {
		View models.View `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	v, err := s.state.SetView(body.View)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"view": v})
}

// POST /catalog/refresh
func (s *Server) refreshCatalog(c *gin.Context) {
	if err := s.state.Load(c.Request.Context()); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, s.state.Snapshot())
}

// GET /cart
func (s *Server) getCart(c *gin.Context) {
	respond(c, http.StatusOK, s.state.Cart())
}

// POST /cart/items
func (s *Server) addCartItem(c *gin.Context) {
	var body struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := s.state.AddToCart(body.ID)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

// PATCH /cart/items/:id
func (s *Server) adjustCartItem(c *gin.Context) {
	var body struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := s.state.AdjustCart(c.Param("id"), body.Delta)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

// DELETE /cart
func (s *Server) clearCart(c *gin.Context) {
	respond(c, http.StatusOK, s.state.ClearCart())
}

// POST /orders
func (s *Server) placeOrder(c *gin.Context) {
	var body struct {
		Table string `json:"table"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	receipt, err := s.state.PlaceOrder(c.Request.Context(), body.Table)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, receipt)
}
