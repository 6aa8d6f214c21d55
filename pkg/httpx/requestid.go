package httpx

import (
	"strings"

	"github.com/Gunvolt24/orders_api/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID — заголовок корреляции запросов.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen — длиннее клиентский request_id не принимаем, генерируем свой.
const maxRequestIDLen = 128

// RequestIDMiddleware:
// - берёт X-Request-ID клиента (обрезав пробелы) или генерирует UUID
// - кладёт request_id в контекст запроса
// - возвращает его в ответном заголовке
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
