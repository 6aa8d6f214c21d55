package httpx

import (
	"time"

	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/gin-gonic/gin"
)

// RequestLogger — access-лог HTTP-запросов.
// request_id/trace_id/span_id добавляет сам логгер из контекста запроса.
// Ответы 5xx пишутся как warn, служебные /metrics и /ping не логируются.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		switch path {
		case "/metrics", "/ping":
			return
		case "":
			path = c.Request.URL.Path
		}

		status := c.Writer.Status()
		logf := log.Infof
		if status >= 500 {
			logf = log.Warnf
		}
		logf(
			c.Request.Context(),
			"request method=%s path=%s query=%q status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			c.Request.URL.RawQuery,
			status,
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
