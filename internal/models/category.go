package models

// Category est l'ensemble fermé des catalogues produits. Toute autre valeur
// est rejetée avant d'atteindre le store.
type Category string

const (
	CategoryPlants      Category = "plants"
	CategoryTools       Category = "tools"
	CategorySoils       Category = "soils"
	CategoryFertilizers Category = "fertilizers"
)

var Categories = []Category{CategoryPlants, CategoryTools, CategorySoils, CategoryFertilizers}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Singular renvoie "plant" pour "plants", utilisé dans les messages.
func (c Category) Singular() string {
	s := string(c)
	if len(s) > 1 {
		return s[:len(s)-1]
	}
	return s
}
