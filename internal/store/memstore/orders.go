package memstore

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

func (r *orderRepo) Insert(_ context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := o.ID.Hex()
	if _, exists := r.byID[id]; !exists {
		r.order = append(r.order, id)
	}
	r.byID[id] = copyOrder(o)
	return nil
}

func (r *orderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	id = oid.Hex()

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return r.set(id, func(o *models.Order) { o.Status = status })
}

func (r *orderRepo) UpdatePaymentStatus(_ context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	return r.set(id, func(o *models.Order) { o.PaymentStatus = status })
}

func (r *orderRepo) set(id string, fn func(o *models.Order)) (*models.Order, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	id = oid.Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	fn(o)
	o.UpdatedAt = time.Now()
	return copyOrder(o), nil
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	id = oid.Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return store.ErrOrderNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *orderRepo) List(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	out := make([]models.Order, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *copyOrder(r.byID[id]))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
