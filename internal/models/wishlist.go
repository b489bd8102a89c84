package models

import "time"

// WishlistItem est comparé par valeur par $addToSet : addedAt fait partie de
// la valeur, deux ajouts successifs du même produit coexistent donc.
type WishlistItem struct {
	ProductID   string    `bson:"productId" json:"productId"`
	ProductType string    `bson:"productType" json:"productType"`
	AddedAt     time.Time `bson:"addedAt" json:"addedAt"`
}

// WishlistEntry est une entrée jointe avec la fiche produit courante.
type WishlistEntry struct {
	WishlistItem
	Product Product `json:"product"`
}
