package api

import (
	"net/http"
	"strconv"

	"waiter-telegram/models"

	"github.com/gin-gonic/gin"
)

type itemRequest struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       *models.Money `json:"price" binding:"required"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Available   *bool         `json:"available"`
}

func (r itemRequest) item() models.MenuItem {
	it := models.MenuItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		Available:   true,
	}
	if r.Price != nil {
		it.Price = *r.Price
	}
	if r.Available != nil {
		it.Available = *r.Available
	}
	return it
}

// GET /admin/items
func (s *Server) listItems(c *gin.Context) {
	respond(c, http.StatusOK, s.state.Menu())
}

// POST /admin/items
func (s *Server) createItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.state.SaveItem(c.Request.Context(), req.item())
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, saved)
}

// PUT /admin/items/:id
func (s *Server) updateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.state.UpdateItem(c.Request.Context(), c.Param("id"), req.item())
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, saved)
}

// DELETE /admin/items/:id
func (s *Server) deleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := s.state.DeleteItem(c.Request.Context(), id); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": id})
}

// POST /admin/items/:id/toggle
func (s *Server) toggleItem(c *gin.Context) {
	saved, err := s.state.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, saved)
}

// GET /admin/categories
func (s *Server) listCategories(c *gin.Context) {
	respond(c, http.StatusOK, s.state.Categories())
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /admin/categories
func (s *Server) addCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := s.state.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, cat)
}

// PATCH /admin/categories/:name
func (s *Server) renameCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.state.RenameCategory(c.Request.Context(), c.Param("name"), req.Name); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, s.state.Categories())
}

// DELETE /admin/categories/:name
func (s *Server) deleteCategory(c *gin.Context) {
	if err := s.state.DeleteCategory(c.Request.Context(), c.Param("name")); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, s.state.Categories())
}

// PUT /admin/categories/order
func (s *Server) reorderCategories(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.state.ReorderCategories(c.Request.Context(), req.IDs); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, s.state.Categories())
}

// POST /admin/categories/:name/move
func (s *Server) moveCategory(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cats, err := s.state.MoveCategory(c.Request.Context(), c.Param("name"), req.Direction)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, cats)
}

// GET /admin/orders?limit=N
func (s *Server) listOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	orders, err := s.state.RecentOrders(c.Request.Context(), limit)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, orders)
}

// GET /admin/settings
func (s *Server) getSettings(c *gin.Context) {
	respond(c, http.StatusOK, s.state.Settings())
}

// PUT /admin/settings
func (s *Server) saveSettings(c *gin.Context) {
	var in models.Settings
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.state.SaveSettings(c.Request.Context(), in)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, saved)
}
