package services

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

// wishlistJoinLimit borne le nombre de lectures produit simultanées.
const wishlistJoinLimit = 8

type WishlistInput struct {
	ProductID   string `json:"productId"`
	ProductType string `json:"productType"`
}

type WishlistService struct {
	store *store.Store
}

func NewWishlistService(st *store.Store) *WishlistService {
	return &WishlistService{store: st}
}

// AddToWishlist ajoute {productId, productType, addedAt} avec une sémantique
// d'ensemble. addedAt faisant partie de la valeur comparée, deux appels
// successifs produisent deux entrées.
func (s *WishlistService) AddToWishlist(ctx context.Context, uid string, in WishlistInput) error {
	if in.ProductID == "" || in.ProductType == "" {
		return apperr.Validation("Product ID and type are required")
	}
	cat, ok := models.ParseCategory(in.ProductType)
	if !ok {
		return apperr.NotFound("Invalid product type")
	}
	if _, err := s.store.Products.FindByID(ctx, cat, in.ProductID); err != nil {
		return err
	}

	item := models.WishlistItem{
		ProductID:   in.ProductID,
		ProductType: string(cat),
		AddedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	return s.store.Users.AddWishlistItem(ctx, uid, item)
}

// RemoveFromWishlist retire toutes les entrées du produit, quel que soit
// leur type.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, uid, productID string) error {
	return s.store.Users.RemoveWishlistItem(ctx, uid, productID)
}

// GetWishlist joint chaque entrée à sa fiche produit courante. Les lectures
// sont concurrentes et isolées : une entrée dont le produit a disparu (ou
// dont la lecture échoue) est retirée du résultat sans faire échouer la
// requête.
func (s *WishlistService) GetWishlist(ctx context.Context, uid string) ([]models.WishlistEntry, error) {
	user, err := s.store.Users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(user.Wishlist) == 0 {
		return []models.WishlistEntry{}, nil
	}

	joined := make([]*models.WishlistEntry, len(user.Wishlist))

	var g errgroup.Group
	g.SetLimit(wishlistJoinLimit)
	for i, item := range user.Wishlist {
		i, item := i, item
		g.Go(func() error {
			cat, ok := models.ParseCategory(item.ProductType)
			if !ok {
				return nil
			}
			product, err := s.store.Products.FindByID(ctx, cat, item.ProductID)
			if err != nil {
				if !apperr.IsNotFound(err) {
					log.Printf("⚠️ Produit %s/%s illisible pour la wishlist de %s: %v", item.ProductType, item.ProductID, uid, err)
				}
				return nil
			}
			joined[i] = &models.WishlistEntry{WishlistItem: item, Product: *product}
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]models.WishlistEntry, 0, len(joined))
	for _, e := range joined {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}
