// Package store définit les dépôts utilisés par les services. Un Store est
// construit une seule fois au démarrage (MongoDB ou mémoire) puis passé par
// référence aux services et handlers.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
)

type Store struct {
	Users    UserRepository
	Orders   OrderRepository
	Products ProductRepository
	Blogs    BlogRepository

	// Mode vaut "mongo" ou "memory", exposé par /healthz.
	Mode string
	Ping func(ctx context.Context) error
}

type UserRepository interface {
	// Upsert écrit le profil et renvoie true si le document a été créé.
	Upsert(ctx context.Context, p models.UserProfile) (bool, error)
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	Update(ctx context.Context, uid string, u models.UserUpdate) error
	SetCart(ctx context.Context, uid string, cart []models.CartItem) error
	SetRoleByEmail(ctx context.Context, email, role string) (matched, modified bool, err error)

	AddWishlistItem(ctx context.Context, uid string, item models.WishlistItem) error
	RemoveWishlistItem(ctx context.Context, uid, productID string) error

	// Opérations sur la copie dénormalisée des commandes. Toutes sont
	// idempotentes sur l'identifiant de commande.
	PushOrder(ctx context.Context, uid string, order models.UserOrder, shipping models.Shipping) error
	SetOrderStatus(ctx context.Context, uid, orderID string, status models.OrderStatus) error
	SetOrderPaymentStatus(ctx context.Context, uid, orderID string, status models.PaymentStatus) error
	PullOrder(ctx context.Context, uid, orderID string) error
}

type OrderRepository interface {
	Insert(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	// List renvoie toutes les commandes, createdAt décroissant.
	List(ctx context.Context) ([]models.Order, error)
}

type ProductRepository interface {
	Insert(ctx context.Context, cat models.Category, attrs bson.M) (primitive.ObjectID, error)
	List(ctx context.Context, cat models.Category) ([]models.Product, error)
	FindByID(ctx context.Context, cat models.Category, id string) (*models.Product, error)
	Update(ctx context.Context, cat models.Category, id string, attrs bson.M) (*models.Product, error)
	Delete(ctx context.Context, cat models.Category, id string) error

	// PushComment insère en tête de product.comments.
	PushComment(ctx context.Context, cat models.Category, id string, c models.Comment) error
	// PushReply ajoute en fin de comments.$.replies.
	PushReply(ctx context.Context, cat models.Category, id, commentID string, r models.Reply) error
	PullComment(ctx context.Context, cat models.Category, id, commentID string) error
}

type BlogRepository interface {
	Insert(ctx context.Context, b *models.Blog) error
	List(ctx context.Context) ([]models.Blog, error)
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, id string, u models.BlogUpdate) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
}

// ParseID convertit un identifiant hexadécimal. Un identifiant mal formé est
// une erreur store (500), comme le reste des échecs du driver.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Store("identifiant invalide "+id, err)
	}
	return oid, nil
}

var (
	ErrUserNotFound    = apperr.NotFound("User not found")
	ErrOrderNotFound   = apperr.NotFound("Order not found")
	ErrProductNotFound = apperr.NotFound("Product not found")
	ErrBlogNotFound    = apperr.NotFound("Blog post not found")
	ErrCommentNotFound = apperr.NotFound("Product or comment not found")

	// ErrOrderCopyNotFound : l'utilisateur n'a pas de copie pour cette commande.
	ErrOrderCopyNotFound = apperr.NotFound("Order copy not found in user profile")
)
