package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

type orderRepo struct {
	col *mongo.Collection
}

func (r *orderRepo) Insert(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return wrap("orders.insert", err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	var o models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrOrderNotFound
	}
	if err != nil {
		return nil, wrap("orders.find", err)
	}
	return &o, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return r.set(ctx, "orders.status", id, bson.M{"status": status})
}

func (r *orderRepo) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	return r.set(ctx, "orders.payment", id, bson.M{"paymentStatus": status})
}

func (r *orderRepo) set(ctx context.Context, op, id string, fields bson.M) (*models.Order, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = time.Now()

	var o models.Order
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrOrderNotFound
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	return &o, nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap("orders.delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	// _id départage les égalités : ordre d'insertion.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("orders.list", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrap("orders.decode", err)
	}
	return orders, nil
}
