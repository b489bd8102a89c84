package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

type productRepo struct {
	cols map[models.Category]*mongo.Collection
}

func (r *productRepo) col(cat models.Category) (*mongo.Collection, error) {
	col, ok := r.cols[cat]
	if !ok {
		return nil, apperr.NotFound("Invalid product type")
	}
	return col, nil
}

func (r *productRepo) Insert(ctx context.Context, cat models.Category, attrs bson.M) (primitive.ObjectID, error) {
	col, err := r.col(cat)
	if err != nil {
		return primitive.NilObjectID, err
	}
	now := time.Now()
	p := models.Product{
		ID:         primitive.NewObjectID(),
		Comments:   []models.Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
		Attributes: models.StripKeys(attrs, models.ProductReservedKeys...),
	}
	if _, err := col.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, wrap(string(cat)+".insert", err)
	}
	return p.ID, nil
}

func (r *productRepo) List(ctx context.Context, cat models.Category) ([]models.Product, error) {
	col, err := r.col(cat)
	if err != nil {
		return nil, err
	}
	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, wrap(string(cat)+".list", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrap(string(cat)+".decode", err)
	}
	return products, nil
}

func (r *productRepo) FindByID(ctx context.Context, cat models.Category, id string) (*models.Product, error) {
	col, err := r.col(cat)
	if err != nil {
		return nil, err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	var p models.Product
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrProductNotFound
	}
	if err != nil {
		return nil, wrap(string(cat)+".find", err)
	}
	return &p, nil
}

func (r *productRepo) Update(ctx context.Context, cat models.Category, id string, attrs bson.M) (*models.Product, error) {
	col, err := r.col(cat)
	if err != nil {
		return nil, err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	set := models.StripKeys(attrs, models.ProductReservedKeys...)
	set["updatedAt"] = time.Now()

	var p models.Product
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrProductNotFound
	}
	if err != nil {
		return nil, wrap(string(cat)+".update", err)
	}
	return &p, nil
}

func (r *productRepo) Delete(ctx context.Context, cat models.Category, id string) error {
	col, err := r.col(cat)
	if err != nil {
		return err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap(string(cat)+".delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) PushComment(ctx context.Context, cat models.Category, id string, c models.Comment) error {
	col, err := r.col(cat)
	if err != nil {
		return err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"comments": bson.M{"$each": []models.Comment{c}, "$position": 0}},
	})
	if err != nil {
		return wrap(string(cat)+".comments.push", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) PushReply(ctx context.Context, cat models.Category, id, commentID string, reply models.Reply) error {
	col, err := r.col(cat)
	if err != nil {
		return err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	cid, err := store.ParseID(commentID)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": oid, "comments._id": cid},
		bson.M{"$push": bson.M{"comments.$.replies": reply}},
	)
	if err != nil {
		return wrap(string(cat)+".replies.push", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrCommentNotFound
	}
	return nil
}

func (r *productRepo) PullComment(ctx context.Context, cat models.Category, id, commentID string) error {
	col, err := r.col(cat)
	if err != nil {
		return err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	cid, err := store.ParseID(commentID)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}})
	if err != nil {
		return wrap(string(cat)+".comments.pull", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrProductNotFound
	}
	return nil
}
