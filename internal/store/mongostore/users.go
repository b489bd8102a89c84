package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

type userRepo struct {
	col *mongo.Collection
}

func (r *userRepo) Upsert(ctx context.Context, p models.UserProfile) (bool, error) {
	now := time.Now()

	set := bson.M{"uid": p.UID, "updatedAt": now}
	if p.Email != "" {
		set["email"] = p.Email
	}
	if p.DisplayName != "" {
		set["displayName"] = p.DisplayName
	}
	if p.PhotoURL != "" {
		set["photoURL"] = p.PhotoURL
	}
	if p.PhoneNumber != "" {
		set["phoneNumber"] = p.PhoneNumber
	}

	setOnInsert := bson.M{"role": models.RoleUser, "createdAt": now}
	if p.Cart != nil {
		set["cart"] = p.Cart
	} else {
		setOnInsert["cart"] = []models.CartItem{}
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"uid": p.UID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, wrap("users.upsert", err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *userRepo) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"uid": uid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, wrap("users.find", err)
	}
	return &u, nil
}

func (r *userRepo) Update(ctx context.Context, uid string, u models.UserUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.DisplayName != nil {
		set["displayName"] = *u.DisplayName
	}
	if u.PhotoURL != nil {
		set["photoURL"] = *u.PhotoURL
	}
	if u.PhoneNumber != nil {
		set["phoneNumber"] = *u.PhoneNumber
	}
	if u.ShippingAddress != nil {
		set["shippingAddress"] = u.ShippingAddress
	}
	return r.updateOne(ctx, "users.update", bson.M{"uid": uid}, bson.M{"$set": set})
}

func (r *userRepo) SetCart(ctx context.Context, uid string, cart []models.CartItem) error {
	if cart == nil {
		cart = []models.CartItem{}
	}
	return r.updateOne(ctx, "users.cart", bson.M{"uid": uid},
		bson.M{"$set": bson.M{"cart": cart, "updatedAt": time.Now()}})
}

// SetRoleByEmail ne touche pas un document qui a déjà ce rôle : modified
// distingue une promotion d'un utilisateur déjà admin.
func (r *userRepo) SetRoleByEmail(ctx context.Context, email, role string) (bool, bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"email": email, "role": bson.M{"$ne": role}},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}})
	if err != nil {
		return false, false, wrap("users.role", err)
	}
	if res.MatchedCount > 0 {
		return true, res.ModifiedCount > 0, nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, false, wrap("users.role", err)
	}
	return n > 0, false, nil
}

func (r *userRepo) AddWishlistItem(ctx context.Context, uid string, item models.WishlistItem) error {
	return r.updateOne(ctx, "users.wishlist.add", bson.M{"uid": uid}, bson.M{
		"$addToSet": bson.M{"wishlist": item},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *userRepo) RemoveWishlistItem(ctx context.Context, uid, productID string) error {
	return r.updateOne(ctx, "users.wishlist.remove", bson.M{"uid": uid}, bson.M{
		"$pull": bson.M{"wishlist": bson.M{"productId": productID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

// PushOrder n'ajoute la copie que si elle est absente : rejouer la tâche
// depuis l'outbox ne crée pas de doublon.
func (r *userRepo) PushOrder(ctx context.Context, uid string, order models.UserOrder, shipping models.Shipping) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"uid": uid, "orders._id": bson.M{"$ne": order.ID}},
		bson.M{
			"$push": bson.M{"orders": order},
			"$set":  bson.M{"shippingAddress": shipping, "updatedAt": time.Now()},
		},
	)
	if err != nil {
		return wrap("users.orders.push", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	return r.exists(ctx, uid)
}

func (r *userRepo) SetOrderStatus(ctx context.Context, uid, orderID string, status models.OrderStatus) error {
	return r.updateOneOr(ctx, "users.orders.status",
		bson.M{"uid": uid, "orders._id": orderID},
		bson.M{"$set": bson.M{"orders.$.status": status, "updatedAt": time.Now()}},
		store.ErrOrderCopyNotFound,
	)
}

func (r *userRepo) SetOrderPaymentStatus(ctx context.Context, uid, orderID string, status models.PaymentStatus) error {
	return r.updateOneOr(ctx, "users.orders.payment",
		bson.M{"uid": uid, "orders._id": orderID},
		bson.M{"$set": bson.M{"orders.$.paymentStatus": status, "updatedAt": time.Now()}},
		store.ErrOrderCopyNotFound,
	)
}

func (r *userRepo) PullOrder(ctx context.Context, uid, orderID string) error {
	return r.updateOne(ctx, "users.orders.pull", bson.M{"uid": uid}, bson.M{
		"$pull": bson.M{"orders": bson.M{"_id": orderID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *userRepo) updateOne(ctx context.Context, op string, filter, update bson.M) error {
	return r.updateOneOr(ctx, op, filter, update, store.ErrUserNotFound)
}

func (r *userRepo) updateOneOr(ctx context.Context, op string, filter, update bson.M, notFound error) error {
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrap(op, err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

func (r *userRepo) exists(ctx context.Context, uid string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"uid": uid}, options.Count().SetLimit(1))
	if err != nil {
		return wrap("users.count", err)
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
