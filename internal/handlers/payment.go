package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/services"
)

// ✅ Crée un PaymentIntent Stripe
// POST /api/create-payment-intent
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var in services.PaymentIntentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Amount and currency are required")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	secret, err := h.Payments.CreatePaymentIntent(ctx, in)
	if err != nil {
		fail(c, err, "Failed to create payment intent")
		return
	}
	ok(c, http.StatusOK, gin.H{"clientSecret": secret})
}

// ✅ Webhook Stripe
// POST /api/stripe/webhook
func (h *Handler) StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		badRequest(c, "Failed to read body")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Payments.HandleWebhook(ctx, payload, c.GetHeader("Stripe-Signature")); err != nil {
		fail(c, err, "Failed to process webhook")
		return
	}
	c.Status(http.StatusOK)
}
