// Package httputil holds the response helpers shared by the handlers
package httputil

import (
	"bitwise74/recipe-api/pkg/middleware"
	"bitwise74/recipe-api/pkg/validators"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the standard error body and aborts the chain
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": c.GetString("requestID"),
	})
}

// InternalError hides err from the client and logs it
func InternalError(c *gin.Context, logMsg string, err error) {
	Error(c, http.StatusInternalServerError, "Internal server error")

	zap.L().Error(logMsg, zap.Error(err), zap.String("requestID", c.GetString("requestID")))
}

// Fields writes a 400 listing the problems per field
func Fields(c *gin.Context, fe validators.FieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"fields":    fe,
		"requestID": c.GetString("requestID"),
	})
}

// BindJSON decodes the body into v. On failure the response is already written
// and false is returned.
func BindJSON(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}

	if middleware.IsBodyTooLarge(err) {
		Error(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
		return false
	}

	if errors.Is(err, io.EOF) {
		Error(c, http.StatusBadRequest, "Request body is empty")
		return false
	}

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
	Error(c, http.StatusBadRequest, "Malformed or invalid JSON request body")
	return false
}

// Validate writes a 400 and returns false when v has invalid fields
func Validate(c *gin.Context, v any, extra validators.FieldErrors) bool {
	fe := validators.FieldErrors{}

	if err := validators.Struct(v); err != nil {
		var structErrs validators.FieldErrors
		if !errors.As(err, &structErrs) {
			InternalError(c, "Failed to validate request body", err)
			return false
		}

		for field, msgs := range structErrs {
			for _, m := range msgs {
				fe.Add(field, m)
			}
		}
	}

	for field, msgs := range extra {
		for _, m := range msgs {
			fe.Add(field, m)
		}
	}

	if len(fe) > 0 {
		Fields(c, fe)
		return false
	}

	return true
}

// QueryInt reads a non-negative integer query parameter, def when absent
func QueryInt(c *gin.Context, key string, def int) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		Error(c, http.StatusBadRequest, "Invalid "+key+" query parameter")
		return 0, false
	}

	return n, true
}
