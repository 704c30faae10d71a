package middleware

import (
	"log/slog"
	"time"

	"github.com/KhoaTran011604/gp-bmt-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request through slog, with the severity following
// the response status. Health checks are skipped to keep the log readable.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if path == "/api/v1/health" {
			return
		}

		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Request.UserAgent()),
		}

		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			attrs = append(attrs, slog.String("error", errs))
		}
		if userID, ok := c.Get("userID"); ok {
			attrs = append(attrs, slog.Any("user_id", userID))
		}

		switch {
		case status >= 500:
			logger.Log.Error("Incoming request", attrs...)
		case status >= 400:
			logger.Log.Warn("Incoming request", attrs...)
		default:
			logger.Log.Info("Incoming request", attrs...)
		}
	}
}
