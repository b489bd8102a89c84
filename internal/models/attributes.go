package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

// marshalWithAttributes aplatit les champs libres et les champs typés dans un
// seul objet JSON, à l'image du document stocké (bson ",inline").
func marshalWithAttributes(attrs bson.M, fixed map[string]any) ([]byte, error) {
	out := make(map[string]any, len(attrs)+len(fixed))
	for k, v := range attrs {
		out[k] = v
	}
	for k, v := range fixed {
		out[k] = v
	}
	return json.Marshal(out)
}

// StripKeys copie m sans les clés réservées.
func StripKeys(m map[string]any, keys ...string) bson.M {
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
