package api

import (
	"errors"
	"net/http"

	"waiter-telegram/app"
	"waiter-telegram/services"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{OK: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{OK: false, Error: msg})
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, err.Error())
}

// failErr writes err with the status it maps to. Unknown errors are logged
// and hidden behind a generic message.
func (s *Server) failErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Errorw("request failed", "path", c.FullPath(), "error", err)
		fail(c, status, "internal error")
		return
	}
	if status >= http.StatusInternalServerError {
		s.logger.Warnw("upstream failure", "path", c.FullPath(), "error", err)
	}
	fail(c, status, err.Error())
}

func statusFor(err error) int {
	var (
		cfgErr  *services.ConfigurationError
		delErr  *services.DeliveryError
		connErr *services.ConnectivityError
		stErr   *services.StoreError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusPreconditionFailed
	case errors.As(err, &delErr):
		return http.StatusBadGateway
	case errors.As(err, &connErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &stErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrLoginThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrItemNotFound), errors.Is(err, services.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrCategoryExists), errors.Is(err, services.ErrItemUnavailable):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidItem),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrCategoryReserved),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrQuantityLimit),
		errors.Is(err, services.ErrTableRequired),
		errors.Is(err, app.ErrInvalidView),
		errors.Is(err, app.ErrInvalidDirection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
