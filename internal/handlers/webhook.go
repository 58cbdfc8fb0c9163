package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/services"
)

// WebhookHandler receives Razorpay payment events. The HMAC-SHA256
// signature over the raw body is checked before anything is parsed;
// statuses follow the webhook contract: 400 bad signature, 404 unknown
// order, 500 store failure, 200 otherwise.
type WebhookHandler struct {
	log           *logger.Logger
	orderService  services.OrderService
	webhookSecret string
}

func NewWebhookHandler(log *logger.Logger, orderService services.OrderService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		log:           log.With("handler", "WebhookHandler"),
		orderService:  orderService,
		webhookSecret: webhookSecret,
	}
}

type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// POST /api/webhooks/razorpay
func (h *WebhookHandler) HandleRazorpay(c *gin.Context) {
	if h.webhookSecret == "" {
		h.log.Error("Webhook secret is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature not found"})
		return
	}
	if !h.verifySignature(body, signature) {
		h.log.Warn("Webhook signature mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event razorpayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	if event.Event != "payment.captured" {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	payment := event.Payload.Payment.Entity
	if err := h.orderService.CompleteByRazorpayOrderID(c.Request.Context(), payment.OrderID, payment.ID); err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			h.log.Warn("Webhook for unknown order", "razorpay_order_id", payment.OrderID)
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.log.Error("Failed to complete order from webhook", "razorpay_order_id", payment.OrderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
