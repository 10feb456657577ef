package middleware

import (
	"fmt"
	"log/slog"

	"aiqr-api/apperror"

	"github.com/gin-gonic/gin"
)

func render(c *gin.Context, log *slog.Logger, appErr *apperror.Error) {
	attrs := []any{
		"kind", appErr.Kind.String(),
		"status", appErr.HTTPStatus(),
		"path", c.Request.URL.Path,
	}
	switch appErr.Kind {
	case apperror.KindDatabase, apperror.KindServer:
		log.Error(appErr.Error(), attrs...)
	default:
		log.Warn(appErr.Message, attrs...)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), gin.H{
		"success": false,
		"kind":    appErr.Kind.String(),
		"message": appErr.PublicMessage(),
	})
}

// ErrorHandler renders the last error a handler pushed with c.Error
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		render(c, log, apperror.From(c.Errors.Last().Err))
	}
}

// Recovery turns a panic into a ServerError response
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		render(c, log, apperror.Server("panic", fmt.Errorf("%v", recovered)))
	})
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	c.Error(apperror.NotFound("URL not found"))
}
