package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
	"plantopia_back_end/internal/store/memstore"
)

var errConnReset = errors.New("connection reset by peer")

// flakyUsers fait échouer les écritures sur les copies de commandes tant que
// failing est vrai.
type flakyUsers struct {
	store.UserRepository
	failing atomic.Bool
}

func (f *flakyUsers) PushOrder(ctx context.Context, uid string, o models.UserOrder, s models.Shipping) error {
	if f.failing.Load() {
		return apperr.Store("users.orders.push", errConnReset)
	}
	return f.UserRepository.PushOrder(ctx, uid, o, s)
}

func (f *flakyUsers) SetOrderStatus(ctx context.Context, uid, orderID string, status models.OrderStatus) error {
	if f.failing.Load() {
		return apperr.Store("users.orders.status", errConnReset)
	}
	return f.UserRepository.SetOrderStatus(ctx, uid, orderID, status)
}

func (f *flakyUsers) SetOrderPaymentStatus(ctx context.Context, uid, orderID string, status models.PaymentStatus) error {
	if f.failing.Load() {
		return apperr.Store("users.orders.payment", errConnReset)
	}
	return f.UserRepository.SetOrderPaymentStatus(ctx, uid, orderID, status)
}

func (f *flakyUsers) PullOrder(ctx context.Context, uid, orderID string) error {
	if f.failing.Load() {
		return apperr.Store("users.orders.pull", errConnReset)
	}
	return f.UserRepository.PullOrder(ctx, uid, orderID)
}

type fixture struct {
	store  *store.Store
	users  *flakyUsers
	outbox *MemoryOutbox
	events *MemoryEvents
	orders *OrderService
}

func newFixture(t *testing.T, uids ...string) *fixture {
	t.Helper()

	st := memstore.New()
	flaky := &flakyUsers{UserRepository: st.Users}
	st.Users = flaky

	for _, uid := range uids {
		if _, err := st.Users.Upsert(context.Background(), models.UserProfile{UID: uid, Email: uid + "@example.com"}); err != nil {
			t.Fatalf("Upsert(%s): %v", uid, err)
		}
	}

	outbox := NewMemoryOutbox()
	events := NewMemoryEvents()
	return &fixture{
		store:  st,
		users:  flaky,
		outbox: outbox,
		events: events,
		orders: NewOrderService(st, outbox, events, nil, nil),
	}
}

func (f *fixture) createOrder(t *testing.T, uid string) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), CreateOrderInput{
		UserID:   uid,
		Items:    []map[string]any{{"_id": "p1", "qty": 2, "name": "Fern", "price": 20.0}},
		Shipping: bson.M{"name": "Ada", "city": "Paris"},
		Summary:  bson.M{"total": 40},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return order
}

func (f *fixture) userCopy(t *testing.T, uid, orderID string) (models.UserOrder, bool) {
	t.Helper()
	user, err := f.store.Users.FindByUID(context.Background(), uid)
	if err != nil {
		t.Fatalf("FindByUID(%s): %v", uid, err)
	}
	for _, o := range user.Orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.UserOrder{}, false
}

func (f *fixture) queued(t *testing.T) int64 {
	t.Helper()
	n, err := f.outbox.Len(context.Background())
	if err != nil {
		t.Fatalf("outbox.Len: %v", err)
	}
	return n
}
