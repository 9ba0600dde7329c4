package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/nebula/pkg/errors"
	"github.com/charlesng35/nebula/pkg/logger"
	"github.com/charlesng35/nebula/pkg/response"
)

// Recovery turns a handler panic into the standard INTERNAL_SERVER_ERROR
// envelope. gin's own recovery detects broken client connections; the panic
// value itself only reaches the log, tagged with the request id.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.WithModule("http").Error("handler panic",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
			zap.Any("panic", recovered),
			zap.StackSkip("stack", 3),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		response.Error(c, appErrors.ErrInternalServer)
		c.Abort()
	})
}

// NotFoundHandler answers unknown routes with a JSON NOT_FOUND error.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, appErrors.ErrNotFound.WithMessage(fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
}

var errMethodNotAllowed = appErrors.New("METHOD_NOT_ALLOWED", "method not allowed", http.StatusMethodNotAllowed)

// MethodNotAllowedHandler answers a known path requested with the wrong verb.
func MethodNotAllowedHandler(c *gin.Context) {
	response.Error(c, errMethodNotAllowed.WithMessage(fmt.Sprintf("%s is not supported on %s", c.Request.Method, c.Request.URL.Path)))
}
