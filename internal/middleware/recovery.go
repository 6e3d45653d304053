package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/guestbook/internal/pkg/response"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into the generic 500 and logs it.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		response.InternalError(c)
	})
}
