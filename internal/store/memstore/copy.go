package memstore

import (
	"go.mongodb.org/mongo-driver/bson"

	"plantopia_back_end/internal/models"
)

// Les documents rendus par le dépôt sont des copies : un appelant qui modifie
// le résultat ne doit pas altérer l'état stocké.

func copyMap(m bson.M) bson.M {
	if m == nil {
		return nil
	}
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyItems(items []models.OrderItem) []models.OrderItem {
	if items == nil {
		return nil
	}
	out := make([]models.OrderItem, len(items))
	for i, it := range items {
		it.Attributes = copyMap(it.Attributes)
		out[i] = it
	}
	return out
}

func copyDetails(d models.OrderDetails) models.OrderDetails {
	d.Items = copyItems(d.Items)
	d.Shipping = copyMap(d.Shipping)
	d.Summary = copyMap(d.Summary)
	return d
}

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.OrderDetails = copyDetails(o.OrderDetails)
	return &c
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.Cart != nil {
		c.Cart = make([]models.CartItem, len(u.Cart))
		for i, it := range u.Cart {
			c.Cart[i] = copyMap(it)
		}
	}
	if u.Wishlist != nil {
		c.Wishlist = make([]models.WishlistItem, len(u.Wishlist))
		copy(c.Wishlist, u.Wishlist)
	}
	if u.Orders != nil {
		c.Orders = make([]models.UserOrder, len(u.Orders))
		for i, o := range u.Orders {
			o.OrderDetails = copyDetails(o.OrderDetails)
			c.Orders[i] = o
		}
	}
	c.ShippingAddress = copyMap(u.ShippingAddress)
	return &c
}

func copyComment(cm models.Comment) models.Comment {
	if cm.Replies != nil {
		replies := make([]models.Reply, len(cm.Replies))
		copy(replies, cm.Replies)
		cm.Replies = replies
	}
	return cm
}

func copyProduct(p *models.Product) *models.Product {
	c := *p
	if p.Comments != nil {
		c.Comments = make([]models.Comment, len(p.Comments))
		for i, cm := range p.Comments {
			c.Comments[i] = copyComment(cm)
		}
	}
	c.Attributes = copyMap(p.Attributes)
	return &c
}

func copyBlog(b *models.Blog) *models.Blog {
	c := *b
	if b.Tags != nil {
		c.Tags = make([]string, len(b.Tags))
		copy(c.Tags, b.Tags)
	}
	return &c
}
