package services

import (
	"context"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/audit"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

type UserService struct {
	store *store.Store
	audit audit.Sink
}

func NewUserService(st *store.Store, sink audit.Sink) *UserService {
	if sink == nil {
		sink = audit.LogSink{}
	}
	return &UserService{store: st, audit: sink}
}

// Upsert crée ou met à jour le profil. Le rôle "user" n'est posé qu'à la
// création ; un panier absent est conservé tel quel.
func (s *UserService) Upsert(ctx context.Context, p models.UserProfile) (bool, error) {
	if p.UID == "" {
		return false, apperr.Validation("User ID required")
	}
	return s.store.Users.Upsert(ctx, p)
}

// Get renvoie le profil, commandes embarquées triées createdAt décroissant.
func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.store.Users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	user.Orders = sortUserOrders(user.Orders)
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}
	if user.Wishlist == nil {
		user.Wishlist = []models.WishlistItem{}
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, uid string, u models.UserUpdate) error {
	return s.store.Users.Update(ctx, uid, u)
}

func (s *UserService) GetCart(ctx context.Context, uid string) ([]models.CartItem, error) {
	user, err := s.store.Users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.Cart == nil {
		return []models.CartItem{}, nil
	}
	return user.Cart, nil
}

// SetCart remplace le panier entier, dernier écrivain gagnant.
func (s *UserService) SetCart(ctx context.Context, uid string, cart []models.CartItem) error {
	return s.store.Users.SetCart(ctx, uid, cart)
}

// MakeAdmin passe role à admin pour l'utilisateur portant cet e-mail.
func (s *UserService) MakeAdmin(ctx context.Context, email string) error {
	if email == "" {
		return apperr.Validation("Email is required")
	}
	matched, modified, err := s.store.Users.SetRoleByEmail(ctx, email, models.RoleAdmin)
	if err != nil {
		return err
	}
	if !matched {
		return apperr.NotFound("User not found with this email")
	}

	s.audit.Record(audit.Entry{
		Actor:      "admin-endpoint",
		Action:     audit.ActionRoleAssign,
		Resource:   audit.ResourceUser,
		ResourceID: email,
		Details:    map[string]any{"role": models.RoleAdmin, "modified": modified},
		Success:    true,
	})
	return nil
}
