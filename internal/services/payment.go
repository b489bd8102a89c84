package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
)

var errPaymentsDisabled = errors.New("STRIPE_SECRET_KEY non configurée")

type PaymentIntentInput struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	OrderID  string  `json:"orderId"`
}

// PaymentGateway isole le processeur de paiement.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (clientSecret string, err error)
}

// StripeGateway utilise la clé globale stripe.Key posée au démarrage.
type StripeGateway struct{}

func (StripeGateway) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Metadata:           metadata,
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	log.Printf("💳 PaymentIntent créé : %s (%d %s)", intent.ID, amount, currency)
	return intent.ClientSecret, nil
}

type PaymentService struct {
	gateway       PaymentGateway
	orders        *OrderService
	webhookSecret string
}

// NewPaymentService : gateway nil désactive la création d'intents.
func NewPaymentService(gateway PaymentGateway, orders *OrderService, webhookSecret string) *PaymentService {
	return &PaymentService{gateway: gateway, orders: orders, webhookSecret: webhookSecret}
}

// CreatePaymentIntent renvoie le client secret. amount est exprimé dans la
// plus petite unité de la devise et arrondi à l'entier.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (string, error) {
	if in.Amount <= 0 || in.Currency == "" {
		return "", apperr.Validation("Amount and currency are required")
	}
	if s.gateway == nil {
		return "", apperr.Store("stripe.payment_intent", errPaymentsDisabled)
	}

	var metadata map[string]string
	if in.OrderID != "" {
		metadata = map[string]string{"orderId": in.OrderID}
	}

	secret, err := s.gateway.CreateIntent(ctx, roundAmount(in.Amount), in.Currency, metadata)
	if err != nil {
		return "", apperr.Store("stripe.payment_intent", err)
	}
	return secret, nil
}

func roundAmount(v float64) int64 {
	if v < 0 {
		return int64(v - 0.5)
	}
	return int64(v + 0.5)
}

// HandleWebhook vérifie la signature (si un secret est configuré) puis
// reporte le résultat du paiement sur la commande référencée par
// metadata.orderId.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	var event stripe.Event
	if s.webhookSecret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			return apperr.Validation("Invalid JSON payload")
		}
	} else {
		ev, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			return apperr.Validation("Invalid signature")
		}
		event = ev
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)

	var status models.PaymentStatus
	switch event.Type {
	case "payment_intent.succeeded":
		status = models.PaymentStatusPaid
	case "payment_intent.payment_failed", "payment_intent.canceled":
		status = models.PaymentStatusFailed
	default:
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return nil
	}

	if event.Data == nil {
		return apperr.Validation("Invalid event payload")
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return apperr.Validation("Invalid payment intent payload")
	}

	orderID := pi.Metadata["orderId"]
	if orderID == "" {
		log.Printf("ℹ️ PaymentIntent %s sans commande associée", pi.ID)
		return nil
	}

	if _, err := s.orders.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		// Une commande supprimée entre-temps ne doit pas faire rejouer
		// l'événement indéfiniment.
		if apperr.IsNotFound(err) {
			log.Printf("⚠️ Commande %s introuvable pour PaymentIntent %s", orderID, pi.ID)
			return nil
		}
		return err
	}
	log.Printf("✅ Commande %s : paiement %s", orderID, status)
	return nil
}
