package api

import (
	"net/http"
	"strconv"
	"strings"

	"waiter-telegram/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /admin/login
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	username := strings.TrimSpace(req.Username)
	key := services.ThrottleKey(username, c.ClientIP())

	wait, err := s.throttle.WaitSeconds(ctx, key)
	if err != nil {
		s.logger.Warnw("login throttle lookup failed", "error", err)
	}
	if wait > 0 {
		c.Header("Retry-After", strconv.Itoa(wait))
		s.failErr(c, services.ErrLoginThrottled)
		return
	}

	if err := s.auth.Authenticate(ctx, username, req.Password); err != nil {
		if rerr := s.throttle.RecordFailure(ctx, key); rerr != nil {
			s.logger.Warnw("record login failure", "error", rerr)
		}
		s.logger.Infow("admin login failed", "username", username, "client_ip", c.ClientIP())
		s.failErr(c, err)
		return
	}
	if err := s.throttle.RecordSuccess(ctx, key); err != nil {
		s.logger.Warnw("reset login throttle", "error", err)
	}

	token, exp, err := s.tokens.Issue(username)
	if err != nil {
		s.failErr(c, err)
		return
	}
	s.state.LoginSucceeded()
	s.logger.Infow("admin logged in", "username", username)
	respond(c, http.StatusOK, gin.H{"token": token, "expires_at": exp, "view": s.state.View()})
}

// POST /admin/logout
func (s *Server) logout(c *gin.Context) {
	s.tokens.Revoke(sessionFrom(c))
	s.state.Logout()
	respond(c, http.StatusOK, gin.H{"view": s.state.View()})
}
