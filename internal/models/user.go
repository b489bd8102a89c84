package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UID             string             `bson:"uid" json:"uid"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	DisplayName     string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL        string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	PhoneNumber     string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Role            string             `bson:"role" json:"role"`
	Cart            []CartItem         `bson:"cart" json:"cart"`
	Wishlist        []WishlistItem     `bson:"wishlist,omitempty" json:"wishlist"`
	Orders          []UserOrder        `bson:"orders,omitempty" json:"orders"`
	ShippingAddress Shipping           `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserProfile : données fournies par le fournisseur d'identité à la
// connexion, écrites par upsert sur uid.
type UserProfile struct {
	UID         string     `json:"uid" binding:"required"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	PhotoURL    string     `json:"photoURL"`
	PhoneNumber string     `json:"phoneNumber"`
	Cart        []CartItem `json:"cart"`
}

// UserUpdate : seuls les champs présents sont modifiés. uid, role et orders
// ne sont pas modifiables par cette voie.
type UserUpdate struct {
	Email           *string  `json:"email"`
	DisplayName     *string  `json:"displayName"`
	PhotoURL        *string  `json:"photoURL"`
	PhoneNumber     *string  `json:"phoneNumber"`
	ShippingAddress Shipping `json:"shippingAddress"`
}
