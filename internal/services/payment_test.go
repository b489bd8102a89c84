package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
)

type fakeGateway struct {
	amount   int64
	currency string
	metadata map[string]string
	err      error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (string, error) {
	g.amount, g.currency, g.metadata = amount, currency, metadata
	if g.err != nil {
		return "", g.err
	}
	return "pi_123_secret_456", nil
}

func TestCreatePaymentIntent(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewPaymentService(gw, nil, "")

	secret, err := svc.CreatePaymentIntent(context.Background(), PaymentIntentInput{Amount: 1999.6, Currency: "usd", OrderID: "o1"})
	if err != nil {
		t.Fatalf("CreatePaymentIntent: %v", err)
	}
	if secret != "pi_123_secret_456" || gw.amount != 2000 || gw.currency != "usd" || gw.metadata["orderId"] != "o1" {
		t.Fatalf("secret=%q gateway=%+v", secret, gw)
	}

	if _, err := svc.CreatePaymentIntent(context.Background(), PaymentIntentInput{Currency: "usd"}); apperr.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("montant manquant = %v", err)
	}

	gw.err = errors.New("card_declined")
	_, err = svc.CreatePaymentIntent(context.Background(), PaymentIntentInput{Amount: 10, Currency: "usd"})
	if apperr.HTTPStatus(err) != http.StatusInternalServerError || apperr.PublicMessage(err, "generic") != "generic" {
		t.Fatalf("erreur Stripe = %v", err)
	}
}

func TestCreatePaymentIntentDisabled(t *testing.T) {
	svc := NewPaymentService(nil, nil, "")
	_, err := svc.CreatePaymentIntent(context.Background(), PaymentIntentInput{Amount: 10, Currency: "usd"})
	if apperr.HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("CreatePaymentIntent sans Stripe = %v", err)
	}
}

func TestWebhookMarksOrderPaid(t *testing.T) {
	f := newFixture(t, "u1")
	order := f.createOrder(t, "u1")
	svc := NewPaymentService(&fakeGateway{}, f.orders, "")

	payload := fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_1", "object": "payment_intent", "metadata": {"orderId": %q}}}
	}`, order.ID.Hex())

	if err := svc.HandleWebhook(context.Background(), []byte(payload), ""); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	canonical, _ := f.store.Orders.FindByID(context.Background(), order.ID.Hex())
	cp, _ := f.userCopy(t, "u1", order.ID.Hex())
	if canonical.PaymentStatus != models.PaymentStatusPaid || cp.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("paymentStatus canonique %q, copie %q", canonical.PaymentStatus, cp.PaymentStatus)
	}
}

func TestWebhookIgnoresUnrelatedEvents(t *testing.T) {
	svc := NewPaymentService(nil, nil, "")
	payload := `{"id": "evt_2", "object": "event", "type": "customer.created", "data": {"object": {"id": "cus_1"}}}`
	if err := svc.HandleWebhook(context.Background(), []byte(payload), ""); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if err := svc.HandleWebhook(context.Background(), []byte("{not json"), ""); apperr.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("payload invalide = %v", err)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc := NewPaymentService(nil, nil, "whsec_test")
	err := svc.HandleWebhook(context.Background(), []byte(`{"id":"evt_3"}`), "t=1,v1=deadbeef")
	if apperr.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("signature invalide = %v", err)
	}
}
