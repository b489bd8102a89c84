package memstore

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

func TestUpsertSetsRoleOnlyOnInsert(t *testing.T) {
	ctx := context.Background()
	st := New()

	created, err := st.Users.Upsert(ctx, models.UserProfile{UID: "u1", Email: "a@example.com"})
	if err != nil || !created {
		t.Fatalf("Upsert() = %v, %v", created, err)
	}
	if _, _, err := st.Users.SetRoleByEmail(ctx, "a@example.com", models.RoleAdmin); err != nil {
		t.Fatalf("SetRoleByEmail: %v", err)
	}

	created, err = st.Users.Upsert(ctx, models.UserProfile{UID: "u1", DisplayName: "Ada"})
	if err != nil || created {
		t.Fatalf("second Upsert() = %v, %v", created, err)
	}

	u, err := st.Users.FindByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByUID: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("role = %q, l'upsert ne doit pas réinitialiser le rôle", u.Role)
	}
	if u.Email != "a@example.com" || u.DisplayName != "Ada" {
		t.Fatalf("profil inattendu: %+v", u)
	}
	if u.Cart == nil {
		t.Fatal("cart doit valoir [] à la création")
	}
}

func TestSetRoleByEmailReportsAlreadyAdmin(t *testing.T) {
	ctx := context.Background()
	st := New()
	st.Users.Upsert(ctx, models.UserProfile{UID: "u1", Email: "a@example.com"})

	matched, modified, _ := st.Users.SetRoleByEmail(ctx, "a@example.com", models.RoleAdmin)
	if !matched || !modified {
		t.Fatalf("first call = %v, %v", matched, modified)
	}
	matched, modified, _ = st.Users.SetRoleByEmail(ctx, "a@example.com", models.RoleAdmin)
	if !matched || modified {
		t.Fatalf("second call = %v, %v", matched, modified)
	}
	matched, _, _ = st.Users.SetRoleByEmail(ctx, "nobody@example.com", models.RoleAdmin)
	if matched {
		t.Fatal("e-mail inconnu ne doit rien trouver")
	}
}

func TestPushOrderIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := New()
	st.Users.Upsert(ctx, models.UserProfile{UID: "u1"})

	uo := models.UserOrder{ID: primitive.NewObjectID().Hex(), OrderDetails: models.OrderDetails{UserID: "u1", Status: models.OrderStatusPending}}
	for i := 0; i < 3; i++ {
		if err := st.Users.PushOrder(ctx, "u1", uo, bson.M{"city": "Lyon"}); err != nil {
			t.Fatalf("PushOrder: %v", err)
		}
	}

	u, _ := st.Users.FindByUID(ctx, "u1")
	if len(u.Orders) != 1 {
		t.Fatalf("len(orders) = %d, want 1", len(u.Orders))
	}
	if u.ShippingAddress["city"] != "Lyon" {
		t.Fatalf("shippingAddress = %v", u.ShippingAddress)
	}

	if err := st.Users.PushOrder(ctx, "ghost", uo, nil); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("PushOrder(ghost) = %v", err)
	}
}

func TestSetOrderStatusWithoutCopy(t *testing.T) {
	ctx := context.Background()
	st := New()
	st.Users.Upsert(ctx, models.UserProfile{UID: "u1"})

	err := st.Users.SetOrderStatus(ctx, "u1", primitive.NewObjectID().Hex(), models.OrderStatusShipped)
	if !errors.Is(err, store.ErrOrderCopyNotFound) {
		t.Fatalf("SetOrderStatus() = %v", err)
	}
}

func TestWishlistSetSemantics(t *testing.T) {
	ctx := context.Background()
	st := New()
	st.Users.Upsert(ctx, models.UserProfile{UID: "u1"})

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	item := models.WishlistItem{ProductID: "p1", ProductType: "plants", AddedAt: at}
	st.Users.AddWishlistItem(ctx, "u1", item)
	st.Users.AddWishlistItem(ctx, "u1", item)

	later := item
	later.AddedAt = at.Add(time.Second)
	st.Users.AddWishlistItem(ctx, "u1", later)
	st.Users.AddWishlistItem(ctx, "u1", models.WishlistItem{ProductID: "p2", ProductType: "tools", AddedAt: at})

	u, _ := st.Users.FindByUID(ctx, "u1")
	if len(u.Wishlist) != 3 {
		t.Fatalf("len(wishlist) = %d, want 3 (valeur identique dédoublonnée, addedAt différent conservé)", len(u.Wishlist))
	}

	st.Users.RemoveWishlistItem(ctx, "u1", "p1")
	u, _ = st.Users.FindByUID(ctx, "u1")
	if len(u.Wishlist) != 1 || u.Wishlist[0].ProductID != "p2" {
		t.Fatalf("wishlist après retrait = %+v", u.Wishlist)
	}
}

func TestCommentOrdering(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, err := st.Products.Insert(ctx, models.CategoryPlants, bson.M{"name": "Monstera", "comments": "ignored"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	pid := id.Hex()

	first := models.Comment{ID: primitive.NewObjectID(), Text: "first", Replies: []models.Reply{}}
	second := models.Comment{ID: primitive.NewObjectID(), Text: "second", Replies: []models.Reply{}}
	st.Products.PushComment(ctx, models.CategoryPlants, pid, first)
	st.Products.PushComment(ctx, models.CategoryPlants, pid, second)

	st.Products.PushReply(ctx, models.CategoryPlants, pid, first.ID.Hex(), models.Reply{ID: primitive.NewObjectID(), Text: "r1"})
	st.Products.PushReply(ctx, models.CategoryPlants, pid, first.ID.Hex(), models.Reply{ID: primitive.NewObjectID(), Text: "r2"})

	p, err := st.Products.FindByID(ctx, models.CategoryPlants, pid)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p.Comments[0].Text != "second" || p.Comments[1].Text != "first" {
		t.Fatalf("ordre des commentaires = %q, %q", p.Comments[0].Text, p.Comments[1].Text)
	}
	replies := p.Comments[1].Replies
	if len(replies) != 2 || replies[0].Text != "r1" || replies[1].Text != "r2" {
		t.Fatalf("réponses = %+v", replies)
	}
	if len(p.Comments[0].Replies) != 0 {
		t.Fatalf("le second commentaire ne doit pas avoir de réponse")
	}
	if _, ok := p.Attributes["comments"]; ok {
		t.Fatal("comments ne doit pas être écrasé par les champs libres")
	}

	err = st.Products.PushReply(ctx, models.CategoryPlants, pid, primitive.NewObjectID().Hex(), models.Reply{})
	if !errors.Is(err, store.ErrCommentNotFound) {
		t.Fatalf("PushReply(commentaire inconnu) = %v", err)
	}
}

func TestMalformedIDIsStoreError(t *testing.T) {
	st := New()
	_, err := st.Orders.FindByID(context.Background(), "not-an-id")
	if apperr.HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("FindByID(not-an-id) = %v", err)
	}
	_, err = st.Products.FindByID(context.Background(), models.CategoryTools, "xyz")
	if apperr.HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("Products.FindByID(xyz) = %v", err)
	}
}

func TestUnknownCategoryIsNotFound(t *testing.T) {
	st := New()
	_, err := st.Products.List(context.Background(), models.Category("rocks"))
	if !apperr.IsNotFound(err) {
		t.Fatalf("List(rocks) = %v", err)
	}
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	st := New()
	id, _ := st.Products.Insert(ctx, models.CategorySoils, bson.M{"name": "Peat"})

	p, _ := st.Products.FindByID(ctx, models.CategorySoils, id.Hex())
	p.Attributes["name"] = "mutated"
	p.Comments = append(p.Comments, models.Comment{Text: "ghost"})

	again, _ := st.Products.FindByID(ctx, models.CategorySoils, id.Hex())
	if again.Attributes["name"] != "Peat" || len(again.Comments) != 0 {
		t.Fatalf("état stocké modifié par l'appelant: %+v", again)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, label := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "new": 2 * time.Hour, "mid": time.Hour}[label]
		o := &models.Order{OrderDetails: models.OrderDetails{UserID: label, CreatedAt: base.Add(offset)}}
		if err := st.Orders.Insert(ctx, o); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	orders, _ := st.Orders.List(ctx)
	if len(orders) != 3 || orders[0].UserID != "new" || orders[1].UserID != "mid" || orders[2].UserID != "old" {
		t.Fatalf("ordre = %v", []string{orders[0].UserID, orders[1].UserID, orders[2].UserID})
	}
}

func TestListOrdersKeepsInsertionOrderOnTies(t *testing.T) {
	ctx := context.Background()
	st := New()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, label := range []string{"a", "b", "c"} {
		o := &models.Order{OrderDetails: models.OrderDetails{UserID: label, CreatedAt: at}}
		if err := st.Orders.Insert(ctx, o); err != nil {
			t.Fatalf("Insert(%s): %v", label, err)
		}
	}

	orders, _ := st.Orders.List(ctx)
	if len(orders) != 3 || orders[0].UserID != "a" || orders[1].UserID != "b" || orders[2].UserID != "c" {
		t.Fatalf("ordre = %+v", orders)
	}
}

func TestOrderIDsAreCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	st := New()
	id, _ := primitive.ObjectIDFromHex("6ad5f00dcafe0123456789ab")
	if err := st.Orders.Insert(ctx, &models.Order{ID: id, OrderDetails: models.OrderDetails{UserID: "u1"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	upper := "6AD5F00DCAFE0123456789AB"

	o, err := st.Orders.UpdateStatus(ctx, upper, models.OrderStatusShipped)
	if err != nil || o.Status != models.OrderStatusShipped || o.ID != id {
		t.Fatalf("UpdateStatus(majuscules) = %+v, %v", o, err)
	}
	if _, err := st.Orders.FindByID(ctx, upper); err != nil {
		t.Fatalf("FindByID(majuscules): %v", err)
	}
	if err := st.Orders.Delete(ctx, upper); err != nil {
		t.Fatalf("Delete(majuscules): %v", err)
	}
	if _, err := st.Orders.FindByID(ctx, id.Hex()); !errors.Is(err, store.ErrOrderNotFound) {
		t.Fatalf("FindByID après suppression = %v", err)
	}
}
