package models

import "go.mongodb.org/mongo-driver/bson"

// Shipping et Summary sont copiés tels quels depuis le client : la commande
// canonique et sa copie dans le profil doivent rester identiques.
type Shipping = bson.M

type Summary = bson.M
