package memstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

func (r *productRepo) table(cat models.Category) (*productTable, error) {
	t, ok := r.tables[cat]
	if !ok {
		return nil, apperr.NotFound("Invalid product type")
	}
	return t, nil
}

func (r *productRepo) Insert(_ context.Context, cat models.Category, attrs bson.M) (primitive.ObjectID, error) {
	t, err := r.table(cat)
	if err != nil {
		return primitive.NilObjectID, err
	}

	now := time.Now()
	p := &models.Product{
		ID:         primitive.NewObjectID(),
		Comments:   []models.Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
		Attributes: models.StripKeys(attrs, models.ProductReservedKeys...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.ID.Hex()
	t.byID[id] = p
	t.order = append(t.order, id)
	return p.ID, nil
}

func (r *productRepo) List(_ context.Context, cat models.Category) ([]models.Product, error) {
	t, err := r.table(cat)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *copyProduct(t.byID[id]))
	}
	return out, nil
}

func (r *productRepo) FindByID(_ context.Context, cat models.Category, id string) (*models.Product, error) {
	var out *models.Product
	err := r.read(cat, id, func(p *models.Product) error {
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, cat models.Category, id string, attrs bson.M) (*models.Product, error) {
	var out *models.Product
	err := r.mutate(cat, id, func(p *models.Product) error {
		if p.Attributes == nil {
			p.Attributes = bson.M{}
		}
		for k, v := range models.StripKeys(attrs, models.ProductReservedKeys...) {
			p.Attributes[k] = v
		}
		p.UpdatedAt = time.Now()
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *productRepo) Delete(_ context.Context, cat models.Category, id string) error {
	t, err := r.table(cat)
	if err != nil {
		return err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	id = oid.Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := t.byID[id]; !ok {
		return store.ErrProductNotFound
	}
	delete(t.byID, id)
	t.order = removeID(t.order, id)
	return nil
}

func (r *productRepo) PushComment(_ context.Context, cat models.Category, id string, c models.Comment) error {
	return r.mutate(cat, id, func(p *models.Product) error {
		p.Comments = append([]models.Comment{copyComment(c)}, p.Comments...)
		return nil
	})
}

func (r *productRepo) PushReply(_ context.Context, cat models.Category, id, commentID string, reply models.Reply) error {
	err := r.mutate(cat, id, func(p *models.Product) error {
		for i := range p.Comments {
			if p.Comments[i].ID.Hex() == commentID {
				p.Comments[i].Replies = append(p.Comments[i].Replies, reply)
				return nil
			}
		}
		return store.ErrCommentNotFound
	})
	if err == store.ErrProductNotFound {
		return store.ErrCommentNotFound
	}
	return err
}

func (r *productRepo) PullComment(_ context.Context, cat models.Category, id, commentID string) error {
	return r.mutate(cat, id, func(p *models.Product) error {
		kept := make([]models.Comment, 0, len(p.Comments))
		for _, cm := range p.Comments {
			if cm.ID.Hex() != commentID {
				kept = append(kept, cm)
			}
		}
		p.Comments = kept
		return nil
	})
}

func (r *productRepo) read(cat models.Category, id string, fn func(p *models.Product) error) error {
	t, err := r.table(cat)
	if err != nil {
		return err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	id = oid.Hex()

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := t.byID[id]
	if !ok {
		return store.ErrProductNotFound
	}
	return fn(p)
}

func (r *productRepo) mutate(cat models.Category, id string, fn func(p *models.Product) error) error {
	t, err := r.table(cat)
	if err != nil {
		return err
	}
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	id = oid.Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := t.byID[id]
	if !ok {
		return store.ErrProductNotFound
	}
	return fn(p)
}
