package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"plantopia_back_end/internal/audit"
	"plantopia_back_end/internal/config"
	"plantopia_back_end/internal/database"
	"plantopia_back_end/internal/handlers"
	"plantopia_back_end/internal/routes"
	"plantopia_back_end/internal/services"
	"plantopia_back_end/internal/store"
	"plantopia_back_end/internal/store/memstore"
	"plantopia_back_end/internal/store/mongostore"
)

func main() {
	config.Load()
	cfg := config.FromEnv()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	conns, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Échec initialisation base de données: %v", err)
	}
	defer conns.Close()

	var st *store.Store
	if conns.DB != nil {
		st = mongostore.New(conns.DB)
	} else {
		st = memstore.New()
	}
	log.Printf("✅ Store initialisé (mode %s)", st.Mode)

	// --- Intégrations optionnelles ---
	var (
		outbox services.OutboxQueue = services.NewMemoryOutbox()
		events services.OrderEvents = services.NewMemoryEvents()
		sink   audit.Sink           = audit.LogSink{}
		mailer services.Mailer
		images services.ImageStore
		gw     services.PaymentGateway
	)
	if conns.Redis != nil {
		outbox = services.NewRedisOutbox(conns.Redis)
		events = services.NewRedisEvents(conns.Redis)
	}
	if conns.Scylla != nil {
		sink = audit.NewScyllaSink(conns.Scylla)
	}
	if conns.MinIO != nil {
		images = services.NewMinIOImages(conns.MinIO, cfg.MinIO)
	} else {
		log.Println("⚠️ MinIO non configuré : envoi d'images désactivé")
	}
	if cfg.SMTP.Enabled() {
		mailer = services.NewSMTPMailer(cfg.SMTP)
	}
	if cfg.StripeSecretKey != "" {
		stripe.Key = cfg.StripeSecretKey
		gw = services.StripeGateway{}
		log.Println("✅ Stripe initialisé")
	} else {
		log.Println("⚠️ STRIPE_SECRET_KEY absente : paiements désactivés")
	}

	orders := services.NewOrderService(st, outbox, events, mailer, sink)
	h := &handlers.Handler{
		Store:    st,
		Users:    services.NewUserService(st, sink),
		Orders:   orders,
		Comments: services.NewCommentService(st, sink),
		Wishlist: services.NewWishlistService(st),
		Products: services.NewProductService(st),
		Blogs:    services.NewBlogService(st),
		Payments: services.NewPaymentService(gw, orders, cfg.StripeWebhookSecret),
		Images:   services.NewImageService(images),
		Events:   events,
		Timeout:  cfg.StoreTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reconciler := services.NewReconciler(st, outbox, cfg.OutboxInterval, cfg.OutboxMaxAttempts)
	go reconciler.Run(ctx)

	r := gin.Default()
	routes.RegisterRoutes(r, h, routes.Options{
		CORSOrigins:        cfg.CORSOrigins,
		Redis:              conns.Redis,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Serveur Plantopia lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur HTTP: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Arrêt demandé, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}
}
