package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"plantopia_back_end/internal/handlers"
	"plantopia_back_end/internal/middleware"
	"plantopia_back_end/internal/models"
)

type Options struct {
	CORSOrigins        []string
	Redis              *redis.Client
	RateLimitPerMinute int
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	corsCfg := cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg), middleware.RequestID())

	r.GET("/", h.Home)
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(opts.Redis, opts.RateLimitPerMinute))

	// Users
	api.POST("/users", h.UpsertUser)
	api.GET("/users/:uid", h.GetUser)
	api.PUT("/users/:uid", h.UpdateUser)
	api.GET("/users/:uid/wishlist", h.GetWishlist)
	api.POST("/users/:uid/wishlist", h.AddToWishlist)
	api.DELETE("/users/:uid/wishlist/:productId", h.RemoveFromWishlist)
	api.GET("/users/:uid/orders", h.ListUserOrders)
	api.GET("/users/:uid/orders/ws", h.OrderEvents)

	// Cart
	api.GET("/cart/:uid", h.GetCart)
	api.PUT("/cart/:uid", h.UpdateCart)

	// Orders
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.PUT("/orders/:orderId/status", h.UpdateOrderStatus)
	api.DELETE("/orders/:orderId", h.DeleteOrder)

	// Blogs
	api.POST("/blogs", h.CreateBlog)
	api.GET("/blogs", h.ListBlogs)
	api.GET("/blogs/:id", h.GetBlog)
	api.PUT("/blogs/:id", h.UpdateBlog)
	api.DELETE("/blogs/:id", h.DeleteBlog)

	// Paiements, images, admin
	api.POST("/create-payment-intent", h.CreatePaymentIntent)
	api.POST("/stripe/webhook", h.StripeWebhook)
	api.POST("/upload-image", h.UploadImage)
	api.POST("/make-admin", h.MakeAdmin)

	// Catalogues : une famille de routes par catégorie connue
	for _, cat := range models.Categories {
		g := api.Group("/" + string(cat))
		g.POST("", h.CreateProduct(cat))
		g.GET("", h.ListProducts(cat))
		g.GET("/:id", h.GetProduct(cat))
		g.PUT("/:id", h.UpdateProduct(cat))
		g.DELETE("/:id", h.DeleteProduct(cat))
		g.GET("/:id/comments", h.ListComments(cat))
		g.POST("/:id/comments", h.AddComment(cat))
		g.POST("/:id/comments/:commentId/replies", h.AddReply(cat))
		g.DELETE("/:id/comments/:commentId", h.DeleteComment(cat))
	}

	// Sous /api, un segment inconnu est un type de produit inconnu
	r.NoRoute(func(c *gin.Context) {
		msg := "Not found"
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			msg = "Invalid product type"
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": msg})
	})
}
