package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"plantopia_back_end/internal/models"
)

const (
	EventStatusChanged  = "order_status"
	EventPaymentChanged = "order_payment"
)

type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"orderId"`
	UserID        string               `json:"userId"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	At            time.Time            `json:"at"`
}

// OrderEvents diffuse les changements de statut aux clients connectés en
// websocket, un canal par utilisateur.
type OrderEvents interface {
	Publish(ctx context.Context, ev OrderEvent) error
	// Subscribe renvoie le flux de l'utilisateur et la fonction de
	// désabonnement à appeler à la fermeture du websocket.
	Subscribe(ctx context.Context, uid string) (<-chan OrderEvent, func(), error)
}

func ordersChannel(uid string) string { return "orders:" + uid }

// =============================================
// REDIS PUB/SUB
// =============================================

type RedisEvents struct {
	rdb *redis.Client
}

func NewRedisEvents(rdb *redis.Client) *RedisEvents {
	return &RedisEvents{rdb: rdb}
}

func (e *RedisEvents) Publish(ctx context.Context, ev OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return e.rdb.Publish(ctx, ordersChannel(ev.UserID), data).Err()
}

func (e *RedisEvents) Subscribe(ctx context.Context, uid string) (<-chan OrderEvent, func(), error) {
	pubsub := e.rdb.Subscribe(ctx, ordersChannel(uid))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan OrderEvent, 16)
	done := make(chan struct{})
	go relayEvents(pubsub.Channel(), out, done)

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}, nil
}

// relayEvents décode les messages Redis vers out jusqu'à la fermeture de in
// ou de done. Un abonné qui ne lit plus ne bloque pas la goroutine.
func relayEvents(in <-chan *redis.Message, out chan<- OrderEvent, done <-chan struct{}) {
	defer close(out)
	for {
		select {
		case <-done:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var ev OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("⚠️ Événement commande illisible: %v", err)
				continue
			}
			select {
			case out <- ev:
			case <-done:
				return
			}
		}
	}
}

// =============================================
// MÉMOIRE
// =============================================

// MemoryEvents diffuse dans le processus. Un abonné trop lent perd les
// événements qui dépassent son tampon.
type MemoryEvents struct {
	mu   sync.Mutex
	subs map[string]map[chan OrderEvent]struct{}
}

func NewMemoryEvents() *MemoryEvents {
	return &MemoryEvents{subs: map[string]map[chan OrderEvent]struct{}{}}
}

func (e *MemoryEvents) Publish(_ context.Context, ev OrderEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (e *MemoryEvents) Subscribe(_ context.Context, uid string) (<-chan OrderEvent, func(), error) {
	ch := make(chan OrderEvent, 16)

	e.mu.Lock()
	if e.subs[uid] == nil {
		e.subs[uid] = map[chan OrderEvent]struct{}{}
	}
	e.subs[uid][ch] = struct{}{}
	e.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs[uid], ch)
			if len(e.subs[uid]) == 0 {
				delete(e.subs, uid)
			}
			e.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// NoopEvents : aucune diffusion.
type NoopEvents struct{}

func (NoopEvents) Publish(context.Context, OrderEvent) error { return nil }

func (NoopEvents) Subscribe(context.Context, string) (<-chan OrderEvent, func(), error) {
	ch := make(chan OrderEvent)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }, nil
}
