package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product couvre les quatre catalogues. Les champs du catalogue sont libres
// (nom, prix, image, entretien...) et vivent dans Attributes.
type Product struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Comments   []Comment          `bson:"comments"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
	Attributes bson.M             `bson:",inline"`
}

// ProductReservedKeys ne peuvent pas être écrites via les champs libres.
var ProductReservedKeys = []string{"_id", "comments", "createdAt", "updatedAt"}

func (p Product) MarshalJSON() ([]byte, error) {
	comments := p.Comments
	if comments == nil {
		comments = []Comment{}
	}
	return marshalWithAttributes(p.Attributes, map[string]any{
		"_id":       p.ID,
		"comments":  comments,
		"createdAt": p.CreatedAt,
		"updatedAt": p.UpdatedAt,
	})
}

// FindComment renvoie le commentaire dont l'identifiant hexadécimal vaut id.
func (p Product) FindComment(id string) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID.Hex() == id {
			return c, true
		}
	}
	return Comment{}, false
}
