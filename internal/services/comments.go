package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/audit"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

// CommentService : fils de commentaires sur les produits. Un commentaire
// porte un instantané de son auteur, comparé par valeur à la suppression. Il
// n'existe ni édition ni suppression de réponse.
type CommentService struct {
	store *store.Store
	audit audit.Sink
}

func NewCommentService(st *store.Store, sink audit.Sink) *CommentService {
	if sink == nil {
		sink = audit.LogSink{}
	}
	return &CommentService{store: st, audit: sink}
}

// CommentInput : corps des POST de commentaire et de réponse.
type CommentInput struct {
	User *models.Author `json:"user"`
	Text string         `json:"text"`
}

func (in CommentInput) validate() error {
	if in.User == nil || in.User.UID == "" || in.Text == "" {
		return apperr.Validation("Missing required fields")
	}
	return nil
}

// AddComment insère le commentaire en tête de la liste du produit.
func (s *CommentService) AddComment(ctx context.Context, cat models.Category, productID string, in CommentInput) (*models.Comment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      *in.User,
		Text:      in.Text,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Replies:   []models.Reply{},
	}
	if err := s.store.Products.PushComment(ctx, cat, productID, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddReply ajoute la réponse en fin de fil du commentaire visé.
func (s *CommentService) AddReply(ctx context.Context, cat models.Category, productID, commentID string, in CommentInput) (*models.Reply, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := primitive.ObjectIDFromHex(commentID); err != nil {
		return nil, apperr.Store("identifiant invalide "+commentID, err)
	}

	r := models.Reply{
		ID:        primitive.NewObjectID(),
		User:      *in.User,
		Text:      in.Text,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.store.Products.PushReply(ctx, cat, productID, commentID, r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteComment retire le commentaire et toutes ses réponses. Seul l'auteur
// de l'instantané peut le supprimer.
func (s *CommentService) DeleteComment(ctx context.Context, cat models.Category, productID, commentID, requesterUID string) error {
	if requesterUID == "" {
		return apperr.Validation("User ID required")
	}

	product, err := s.store.Products.FindByID(ctx, cat, productID)
	if err != nil {
		return err
	}
	comment, ok := product.FindComment(commentID)
	if !ok {
		return apperr.NotFound("Comment not found")
	}
	if comment.User.UID != requesterUID {
		return apperr.Forbidden("You can only delete your own comments")
	}

	if err := s.store.Products.PullComment(ctx, cat, productID, commentID); err != nil {
		return err
	}

	s.audit.Record(audit.Entry{
		Actor:      requesterUID,
		Action:     audit.ActionCommentDelete,
		Resource:   audit.ResourceComment,
		ResourceID: commentID,
		Details:    map[string]any{"category": cat, "productId": productID, "replies": len(comment.Replies)},
		Success:    true,
	})
	return nil
}

// ListComments renvoie les commentaires du plus récent au plus ancien.
func (s *CommentService) ListComments(ctx context.Context, cat models.Category, productID string) ([]models.Comment, error) {
	product, err := s.store.Products.FindByID(ctx, cat, productID)
	if err != nil {
		return nil, err
	}
	if product.Comments == nil {
		return []models.Comment{}, nil
	}
	return product.Comments, nil
}
