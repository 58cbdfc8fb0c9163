package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/services"
)

type OrderHandler struct {
	log          *logger.Logger
	orderService services.OrderService
}

func NewOrderHandler(log *logger.Logger, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		log:          log.With("handler", "OrderHandler"),
		orderService: orderService,
	}
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	var body struct {
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
		RazorpayOrderID string `json:"razorpayOrderId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, &apperr.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), ownerID, body.Amount, body.Currency, body.RazorpayOrderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, order)
}

// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	orders, err := h.orderService.List(c.Request.Context(), ownerID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, orders)
}
