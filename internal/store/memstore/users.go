package memstore

import (
	"context"
	"time"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

func (r *userRepo) Upsert(_ context.Context, p models.UserProfile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	u, ok := r.byUID[p.UID]
	if !ok {
		u = &models.User{UID: p.UID, Role: models.RoleUser, Cart: []models.CartItem{}, CreatedAt: now}
		r.byUID[p.UID] = u
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.DisplayName != "" {
		u.DisplayName = p.DisplayName
	}
	if p.PhotoURL != "" {
		u.PhotoURL = p.PhotoURL
	}
	if p.PhoneNumber != "" {
		u.PhoneNumber = p.PhoneNumber
	}
	if p.Cart != nil {
		u.Cart = p.Cart
	}
	u.UpdatedAt = now
	return !ok, nil
}

func (r *userRepo) FindByUID(_ context.Context, uid string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUID[uid]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) Update(_ context.Context, uid string, upd models.UserUpdate) error {
	return r.mutate(uid, func(u *models.User) error {
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.DisplayName != nil {
			u.DisplayName = *upd.DisplayName
		}
		if upd.PhotoURL != nil {
			u.PhotoURL = *upd.PhotoURL
		}
		if upd.PhoneNumber != nil {
			u.PhoneNumber = *upd.PhoneNumber
		}
		if upd.ShippingAddress != nil {
			u.ShippingAddress = copyMap(upd.ShippingAddress)
		}
		return nil
	})
}

func (r *userRepo) SetCart(_ context.Context, uid string, cart []models.CartItem) error {
	return r.mutate(uid, func(u *models.User) error {
		if cart == nil {
			cart = []models.CartItem{}
		}
		u.Cart = cart
		return nil
	})
}

func (r *userRepo) SetRoleByEmail(_ context.Context, email, role string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched, modified bool
	for _, u := range r.byUID {
		if u.Email != email {
			continue
		}
		matched = true
		if u.Role != role {
			u.Role = role
			u.UpdatedAt = time.Now()
			modified = true
		}
		break
	}
	return matched, modified, nil
}

func (r *userRepo) AddWishlistItem(_ context.Context, uid string, item models.WishlistItem) error {
	return r.mutate(uid, func(u *models.User) error {
		for _, w := range u.Wishlist {
			if w.ProductID == item.ProductID && w.ProductType == item.ProductType && w.AddedAt.Equal(item.AddedAt) {
				return nil
			}
		}
		u.Wishlist = append(u.Wishlist, item)
		return nil
	})
}

func (r *userRepo) RemoveWishlistItem(_ context.Context, uid, productID string) error {
	return r.mutate(uid, func(u *models.User) error {
		kept := u.Wishlist[:0:0]
		for _, w := range u.Wishlist {
			if w.ProductID != productID {
				kept = append(kept, w)
			}
		}
		u.Wishlist = kept
		return nil
	})
}

func (r *userRepo) PushOrder(_ context.Context, uid string, order models.UserOrder, shipping models.Shipping) error {
	return r.mutate(uid, func(u *models.User) error {
		for _, o := range u.Orders {
			if o.ID == order.ID {
				return nil
			}
		}
		order.OrderDetails = copyDetails(order.OrderDetails)
		u.Orders = append(u.Orders, order)
		u.ShippingAddress = copyMap(shipping)
		return nil
	})
}

func (r *userRepo) SetOrderStatus(_ context.Context, uid, orderID string, status models.OrderStatus) error {
	return r.mutate(uid, func(u *models.User) error {
		for i := range u.Orders {
			if u.Orders[i].ID == orderID {
				u.Orders[i].Status = status
				return nil
			}
		}
		return store.ErrOrderCopyNotFound
	})
}

func (r *userRepo) SetOrderPaymentStatus(_ context.Context, uid, orderID string, status models.PaymentStatus) error {
	return r.mutate(uid, func(u *models.User) error {
		for i := range u.Orders {
			if u.Orders[i].ID == orderID {
				u.Orders[i].PaymentStatus = status
				return nil
			}
		}
		return store.ErrOrderCopyNotFound
	})
}

func (r *userRepo) PullOrder(_ context.Context, uid, orderID string) error {
	return r.mutate(uid, func(u *models.User) error {
		kept := u.Orders[:0:0]
		for _, o := range u.Orders {
			if o.ID != orderID {
				kept = append(kept, o)
			}
		}
		u.Orders = kept
		return nil
	})
}

// mutate applique fn sous verrou. updatedAt n'est touché que si fn réussit,
// comme un update MongoDB dont le filtre ne correspond pas.
func (r *userRepo) mutate(uid string, fn func(u *models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byUID[uid]
	if !ok {
		return store.ErrUserNotFound
	}
	if err := fn(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	return nil
}
