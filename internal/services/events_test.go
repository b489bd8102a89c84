package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"plantopia_back_end/internal/models"
)

func TestStatusChangeReachesSubscriber(t *testing.T) {
	f := newFixture(t, "u1", "u2")
	order := f.createOrder(t, "u1")

	events, unsubscribe, err := f.events.Subscribe(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsubscribe()
	others, unsubscribeOthers, _ := f.events.Subscribe(context.Background(), "u2")
	defer unsubscribeOthers()

	if _, err := f.orders.UpdateOrderStatus(context.Background(), order.ID.Hex(), models.OrderStatusDelivered); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != EventStatusChanged || ev.OrderID != order.ID.Hex() || ev.Status != models.OrderStatusDelivered {
			t.Fatalf("événement = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("aucun événement reçu")
	}

	select {
	case ev := <-others:
		t.Fatalf("événement reçu par un autre utilisateur: %+v", ev)
	default:
	}
}

func TestUnsubscribeClosesStream(t *testing.T) {
	bus := NewMemoryEvents()
	events, unsubscribe, _ := bus.Subscribe(context.Background(), "u1")

	unsubscribe()
	unsubscribe()

	if _, open := <-events; open {
		t.Fatal("le flux doit être fermé")
	}
	if err := bus.Publish(context.Background(), OrderEvent{UserID: "u1"}); err != nil {
		t.Fatalf("Publish sans abonné: %v", err)
	}
}

func TestRelayStopsWhenSubscriberLeaves(t *testing.T) {
	in := make(chan *redis.Message, 32)
	out := make(chan OrderEvent, 1)
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		in <- &redis.Message{Payload: `{"type":"order_status","userId":"u1"}`}
	}

	finished := make(chan struct{})
	go func() {
		relayEvents(in, out, done)
		close(finished)
	}()

	// out est plein après le premier événement : le relais attend.
	time.Sleep(20 * time.Millisecond)
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("le relais reste bloqué après le départ de l'abonné")
	}
	if ev, open := <-out; !open || ev.UserID != "u1" {
		t.Fatalf("premier événement = %+v, %v", ev, open)
	}
	if _, open := <-out; open {
		t.Fatal("le flux doit être fermé")
	}
}

func TestRelaySkipsUnreadablePayload(t *testing.T) {
	in := make(chan *redis.Message, 2)
	out := make(chan OrderEvent, 2)
	in <- &redis.Message{Payload: "not json"}
	in <- &redis.Message{Payload: `{"type":"order_payment","orderId":"o1"}`}
	close(in)

	relayEvents(in, out, make(chan struct{}))

	ev, open := <-out
	if !open || ev.Type != EventPaymentChanged || ev.OrderID != "o1" {
		t.Fatalf("événement = %+v, %v", ev, open)
	}
	if _, open := <-out; open {
		t.Fatal("le flux doit être fermé")
	}
}
