package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

// ProductService : CRUD des quatre catalogues. Les champs sont libres, seuls
// _id, comments, createdAt et updatedAt sont gérés par le serveur.
type ProductService struct {
	store *store.Store
}

func NewProductService(st *store.Store) *ProductService {
	return &ProductService{store: st}
}

func (s *ProductService) Create(ctx context.Context, cat models.Category, attrs bson.M) (primitive.ObjectID, error) {
	return s.store.Products.Insert(ctx, cat, attrs)
}

func (s *ProductService) List(ctx context.Context, cat models.Category) ([]models.Product, error) {
	products, err := s.store.Products.List(ctx, cat)
	if err != nil {
		return nil, err
	}
	if products == nil {
		return []models.Product{}, nil
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, cat models.Category, id string) (*models.Product, error) {
	return s.store.Products.FindByID(ctx, cat, id)
}

func (s *ProductService) Update(ctx context.Context, cat models.Category, id string, attrs bson.M) (*models.Product, error) {
	return s.store.Products.Update(ctx, cat, id, attrs)
}

func (s *ProductService) Delete(ctx context.Context, cat models.Category, id string) error {
	return s.store.Products.Delete(ctx, cat, id)
}

type BlogService struct {
	store *store.Store
}

func NewBlogService(st *store.Store) *BlogService {
	return &BlogService{store: st}
}

func (s *BlogService) Create(ctx context.Context, in models.Blog) (*models.Blog, error) {
	if in.Title == "" || in.Content == "" {
		return nil, apperr.Validation("Title and content are required")
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	b := &models.Blog{
		Title:     in.Title,
		Content:   in.Content,
		Author:    in.Author,
		Image:     in.Image,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Blogs.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	blogs, err := s.store.Blogs.List(ctx)
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		return []models.Blog{}, nil
	}
	return blogs, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	return s.store.Blogs.FindByID(ctx, id)
}

func (s *BlogService) Update(ctx context.Context, id string, u models.BlogUpdate) (*models.Blog, error) {
	return s.store.Blogs.Update(ctx, id, u)
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	return s.store.Blogs.Delete(ctx, id)
}
