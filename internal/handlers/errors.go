package handlers

import (
	"errors"
	"net/http"

	"pet_feeder/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidCommand),
		errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrScheduleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPolicyDenied),
		errors.Is(err, service.ErrDeviceOffline):
		return http.StatusConflict
	case errors.Is(err, service.ErrDeviceTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, service.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response. Client errors are not logged as errors.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// serviceError responds with the mapped status; internal failures get a generic message.
func (h *Handler) serviceError(c *gin.Context, err error, fallbackMsg, logKey string, kv ...interface{}) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = fallbackMsg
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}
