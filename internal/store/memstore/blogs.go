package memstore

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

func (r *blogRepo) Insert(_ context.Context, b *models.Blog) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := b.ID.Hex()
	if _, exists := r.byID[id]; !exists {
		r.order = append(r.order, id)
	}
	r.byID[id] = copyBlog(b)
	return nil
}

func (r *blogRepo) List(_ context.Context) ([]models.Blog, error) {
	r.mu.RLock()
	out := make([]models.Blog, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *copyBlog(r.byID[id]))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *blogRepo) FindByID(_ context.Context, id string) (*models.Blog, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	id = oid.Hex()

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, store.ErrBlogNotFound
	}
	return copyBlog(b), nil
}

func (r *blogRepo) Update(_ context.Context, id string, u models.BlogUpdate) (*models.Blog, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	id = oid.Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, store.ErrBlogNotFound
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Content != nil {
		b.Content = *u.Content
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.Image != nil {
		b.Image = *u.Image
	}
	if u.Tags != nil {
		b.Tags = append([]string{}, (*u.Tags)...)
	}
	b.UpdatedAt = time.Now()
	return copyBlog(b), nil
}

func (r *blogRepo) Delete(_ context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	id = oid.Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return store.ErrBlogNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}
