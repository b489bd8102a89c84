package models

// CartItem est opaque pour le serveur : le front y place la fiche produit et
// la quantité, le back end se contente de stocker la séquence.
type CartItem = map[string]any
