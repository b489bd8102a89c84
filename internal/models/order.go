package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Aucun graphe de transition : toute valeur de l'ensemble est acceptée.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

const DefaultPaymentMethod = "cod"

// OrderItem : produit commandé. Tous les champs envoyés par le client
// (nom, image, quantité, prix...) sont recopiés tels quels dans Attributes,
// l'identifiant d'origine dans ProductID.
type OrderItem struct {
	ProductID  string `bson:"productId"`
	Attributes bson.M `bson:",inline"`
}

// NewOrderItem retire l'identité fournie par le client (_id) et la conserve
// sous productId.
func NewOrderItem(raw map[string]any) OrderItem {
	item := OrderItem{Attributes: StripKeys(raw, "_id", "productId")}
	if id, ok := raw["_id"]; ok && id != nil {
		item.ProductID = fmt.Sprint(id)
	}
	return item
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	return marshalWithAttributes(i.Attributes, map[string]any{"productId": i.ProductID})
}

// Quantity lit la quantité recopiée, 0 si absente ou illisible.
func (i OrderItem) Quantity() float64 {
	return toFloat(i.Attributes["quantity"])
}

func (i OrderItem) Price() float64 {
	return toFloat(i.Attributes["price"])
}

// Name renvoie le nom du produit s'il a été recopié.
func (i OrderItem) Name() string {
	if s, ok := i.Attributes["name"].(string); ok {
		return s
	}
	return i.ProductID
}

// OrderDetails : champs communs à la commande canonique et à sa copie.
type OrderDetails struct {
	UserID        string        `bson:"userId" json:"userId"`
	Items         []OrderItem   `bson:"items" json:"items"`
	Shipping      Shipping      `bson:"shipping" json:"shipping"`
	Summary       Summary       `bson:"summary" json:"summary"`
	Status        OrderStatus   `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod string        `bson:"paymentMethod" json:"paymentMethod"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Order : commande canonique de la collection orders.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OrderDetails `bson:",inline"`
}

// UserOrder : copie dénormalisée stockée dans users.orders, identifiée par
// la forme hexadécimale de l'identifiant canonique.
type UserOrder struct {
	ID           string `bson:"_id" json:"_id"`
	OrderDetails `bson:",inline"`
}

func (o Order) Copy() UserOrder {
	return UserOrder{ID: o.ID.Hex(), OrderDetails: o.OrderDetails}
}

// OrderTotal lit summary.total, quel que soit le type numérique décodé.
func (d OrderDetails) OrderTotal() float64 {
	return toFloat(d.Summary["total"])
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}
