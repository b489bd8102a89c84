// Commande make-admin : promeut un utilisateur admin par son e-mail,
// directement dans MongoDB.
//
//	go run ./cmd/make-admin your-email@example.com
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"plantopia_back_end/internal/config"
	"plantopia_back_end/internal/database"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store/mongostore"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "" {
		fmt.Println("Usage: make-admin <email>")
		fmt.Println("Example: make-admin your-email@example.com")
		os.Exit(1)
	}
	email := os.Args[1]

	config.Load()
	cfg := config.FromEnv()
	if cfg.MongoURI == "" {
		log.Fatal("❌ MONGO_URI manquant")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer client.Disconnect(context.Background())

	st := mongostore.New(client.Database(cfg.MongoDB))
	matched, modified, err := st.Users.SetRoleByEmail(ctx, email, models.RoleAdmin)
	switch {
	case err != nil:
		log.Fatalf("❌ Erreur: %v", err)
	case !matched:
		fmt.Println("❌ User not found with email:", email)
		os.Exit(1)
	case modified:
		fmt.Println("✅ Successfully made admin:", email)
	default:
		fmt.Println("ℹ️ User is already an admin:", email)
	}
}
