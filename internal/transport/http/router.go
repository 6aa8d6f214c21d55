package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/Gunvolt24/orders_api/pkg/httpx"
	"github.com/Gunvolt24/orders_api/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	ordersPath    = "/api/orders"
	orderIDsParam = "orderIds"
	maxBodyBytes  = 10 << 20
)

// Handler — HTTP-обработчики API заказов.
type Handler struct {
	service   ports.OrderService
	validator ports.OrderValidator
	log       ports.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewHandler — timeout <= 0 отключает ограничение времени обработки запроса.
func NewHandler(service ports.OrderService, validator ports.OrderValidator, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
		log:       log,
		timeout:   timeout,
		now:       time.Now,
	}
}

// NewRouter — gin-роутер с middleware. Пустой otelServiceName отключает otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET(ordersPath, h.getOrders)
	r.POST(ordersPath, h.upsertOrders)

	return r
}

// getOrders — GET /api/orders[?orderIds=...]
// Без параметра — все заказы; с параметром — только найденные из списка.
func (h *Handler) getOrders(c *gin.Context) {
	ids, present, err := httpx.ParseUUIDList(c, orderIDsParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := domain.AllOrders()
	if present {
		filter = domain.OnlyIDs(ids...)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders, err := h.service.GetOrders(ctx, filter)
	if err != nil {
		// сервис уже залогировал ошибку
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// upsertOrders — POST /api/orders, тело — JSON-массив заказов.
// Новые ID вставляются, существующие перезаписываются целиком.
func (h *Handler) upsertOrders(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}

	orders, err := validate.ValidateOrdersFromJSON(c.Request.Context(), h.validator, raw)
	switch {
	case errors.Is(err, validate.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "order list cannot be empty"})
		return
	case err != nil:
		// ErrInvalidJSON / ErrInvalidOrder
		h.log.Warnf(c.Request.Context(), "upsert rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domain.ApplyDefaults(orders, h.now())

	ctx, cancel := h.requestContext(c)
	defer cancel()

	upserted, err := h.service.UpsertOrders(ctx, orders)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("Location", locationFor(upserted))
	c.JSON(http.StatusCreated, upserted)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// locationFor — ссылка на выборку только что сохранённых заказов.
func locationFor(orders []*domain.Order) string {
	ids := domain.IDs(orders)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return ordersPath + "?" + orderIDsParam + "=" + strings.Join(parts, ",")
}
