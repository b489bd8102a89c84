// Package memstore implémente store.Store en mémoire. Il sert de mode de
// repli quand MONGO_URI est absent et de base aux tests. Les mutations
// reproduisent la sémantique des opérateurs MongoDB utilisés par mongostore
// ($addToSet, $push/$position, $pull, opérateur positionnel).
package memstore

import (
	"context"
	"sync"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

func New() *store.Store {
	products := make(map[models.Category]*productTable, len(models.Categories))
	for _, cat := range models.Categories {
		products[cat] = &productTable{byID: map[string]*models.Product{}}
	}

	return &store.Store{
		Users:    &userRepo{byUID: map[string]*models.User{}},
		Orders:   &orderRepo{byID: map[string]*models.Order{}},
		Products: &productRepo{tables: products},
		Blogs:    &blogRepo{byID: map[string]*models.Blog{}},
		Mode:     "memory",
		Ping:     func(context.Context) error { return nil },
	}
}

type userRepo struct {
	mu    sync.RWMutex
	byUID map[string]*models.User
}

type orderRepo struct {
	mu    sync.RWMutex
	byID  map[string]*models.Order
	order []string
}

type productTable struct {
	byID  map[string]*models.Product
	order []string
}

type productRepo struct {
	mu     sync.RWMutex
	tables map[models.Category]*productTable
}

type blogRepo struct {
	mu    sync.RWMutex
	byID  map[string]*models.Blog
	order []string
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
