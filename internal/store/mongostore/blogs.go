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

type blogRepo struct {
	col *mongo.Collection
}

func (r *blogRepo) Insert(ctx context.Context, b *models.Blog) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return wrap("blogs.insert", err)
	}
	return nil
}

func (r *blogRepo) List(ctx context.Context) ([]models.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("blogs.list", err)
	}
	defer cursor.Close(ctx)

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, wrap("blogs.decode", err)
	}
	return blogs, nil
}

func (r *blogRepo) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	var b models.Blog
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrBlogNotFound
	}
	if err != nil {
		return nil, wrap("blogs.find", err)
	}
	return &b, nil
}

func (r *blogRepo) Update(ctx context.Context, id string, u models.BlogUpdate) (*models.Blog, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": time.Now()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.Tags != nil {
		set["tags"] = *u.Tags
	}

	var b models.Blog
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrBlogNotFound
	}
	if err != nil {
		return nil, wrap("blogs.update", err)
	}
	return &b, nil
}

func (r *blogRepo) Delete(ctx context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap("blogs.delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrBlogNotFound
	}
	return nil
}
