package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store/memstore"
)

func TestBlogCRUD(t *testing.T) {
	svc := NewBlogService(memstore.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, models.Blog{Title: "Repotting"}); apperr.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("Create sans contenu = %v", err)
	}

	first, err := svc.Create(ctx, models.Blog{Title: "Repotting", Content: "Spring is best", Tags: []string{"care"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, _ := svc.Create(ctx, models.Blog{Title: "Watering", Content: "Less is more"})

	blogs, _ := svc.List(ctx)
	if len(blogs) != 2 || blogs[0].ID != second.ID {
		t.Fatalf("List doit renvoyer le plus récent d'abord: %+v", blogs)
	}

	title := "Repotting 101"
	updated, err := svc.Update(ctx, first.ID.Hex(), models.BlogUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.Content != "Spring is best" {
		t.Fatalf("Update partiel = %+v", updated)
	}

	if err := svc.Delete(ctx, first.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, first.ID.Hex()); !apperr.IsNotFound(err) {
		t.Fatalf("Get après suppression = %v", err)
	}
}

func TestProductReservedKeysAreIgnored(t *testing.T) {
	svc := NewProductService(memstore.New())
	ctx := context.Background()

	id, err := svc.Create(ctx, models.CategorySoils, bson.M{"name": "Peat", "comments": []any{"spam"}, "_id": "forged"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p, err := svc.Get(ctx, models.CategorySoils, id.Hex())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Comments) != 0 || p.Attributes["name"] != "Peat" {
		t.Fatalf("produit = %+v", p)
	}
	if _, ok := p.Attributes["comments"]; ok {
		t.Fatal("clé réservée conservée dans les attributs")
	}

	updated, err := svc.Update(ctx, models.CategorySoils, id.Hex(), bson.M{"price": 9.5, "createdAt": "never"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Attributes["price"] != 9.5 || updated.Attributes["name"] != "Peat" || updated.CreatedAt.IsZero() {
		t.Fatalf("Update = %+v", updated)
	}

	list, _ := svc.List(ctx, models.CategoryTools)
	if list == nil || len(list) != 0 {
		t.Fatalf("catalogue vide = %#v", list)
	}
}

func TestMakeAdmin(t *testing.T) {
	st := memstore.New()
	svc := NewUserService(st, nil)
	ctx := context.Background()
	svc.Upsert(ctx, models.UserProfile{UID: "u1", Email: "ada@example.com"})

	if err := svc.MakeAdmin(ctx, ""); apperr.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("MakeAdmin sans e-mail = %v", err)
	}
	if err := svc.MakeAdmin(ctx, "ghost@example.com"); !apperr.IsNotFound(err) {
		t.Fatalf("MakeAdmin inconnu = %v", err)
	}
	if err := svc.MakeAdmin(ctx, "ada@example.com"); err != nil {
		t.Fatalf("MakeAdmin: %v", err)
	}
	user, _ := svc.Get(ctx, "u1")
	if user.Role != models.RoleAdmin {
		t.Fatalf("role = %q", user.Role)
	}
	if user.Cart == nil || user.Wishlist == nil || user.Orders == nil {
		t.Fatalf("séquences nil dans le profil: %+v", user)
	}
}
