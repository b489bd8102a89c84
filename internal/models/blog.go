package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Author    string             `bson:"author,omitempty" json:"author,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BlogUpdate : seuls les champs présents sont modifiés.
type BlogUpdate struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Author  *string   `json:"author"`
	Image   *string   `json:"image"`
	Tags    *[]string `json:"tags"`
}
