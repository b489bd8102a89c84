// Package mongostore implémente store.Store sur MongoDB.
package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

// Noms des collections de la base plantopia.
const (
	UsersCollection  = "users"
	OrdersCollection = "orders"
	BlogsCollection  = "blogs"
)

// New construit le dépôt complet sur une base déjà connectée.
func New(db *mongo.Database) *store.Store {
	products := make(map[models.Category]*mongo.Collection, len(models.Categories))
	for _, cat := range models.Categories {
		products[cat] = db.Collection(string(cat))
	}

	return &store.Store{
		Users:    &userRepo{col: db.Collection(UsersCollection)},
		Orders:   &orderRepo{col: db.Collection(OrdersCollection)},
		Products: &productRepo{cols: products},
		Blogs:    &blogRepo{col: db.Collection(BlogsCollection)},
		Mode:     "mongo",
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *apperr.StoreError
	if errors.As(err, &se) {
		return err
	}
	return apperr.Store(op, err)
}
