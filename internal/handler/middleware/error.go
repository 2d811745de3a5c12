package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"poorito-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const CodeInternal = "internal_error"

// ErrorHandler renders the last public error when a handler did not write a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if len(c.Errors) == 0 {
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, internalErrorResponse())
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalErrorResponse())
			}
		}()
		c.Next()
	}
}

func internalErrorResponse() httperr.Response {
	return httperr.NewResponse(http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
}
