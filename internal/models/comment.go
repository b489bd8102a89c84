package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author est un instantané de l'utilisateur au moment de l'écriture. Il n'est
// jamais resynchronisé avec le profil.
type Author struct {
	UID         string `bson:"uid" json:"uid"`
	DisplayName string `bson:"displayName" json:"displayName"`
	PhotoURL    string `bson:"photoURL" json:"photoURL"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      Author             `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Replies   []Reply            `bson:"replies" json:"replies"`
}

type Reply struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      Author             `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
