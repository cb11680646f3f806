package controller

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"user-panel/logger"
	"user-panel/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonError sends the error-contract body {"error": msg}.
func jsonError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, gin.H{"error": msg})
}

// jsonMessage sends a success confirmation body {"message": msg}.
func jsonMessage(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, gin.H{"message": msg})
}

// jsonServiceError maps a service error onto the HTTP error contract.
// Unknown errors are persistence faults: logged with detail, surfaced as
// a generic 500 so driver internals never leak into a response body.
func jsonServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPictureNotFound):
		jsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrInvalidLevel):
		jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLevelMissing):
		jsonError(c, http.StatusInternalServerError, err.Error())
	default:
		logger.Error("database error:", err)
		jsonError(c, http.StatusInternalServerError, "database error occurred")
	}
}
