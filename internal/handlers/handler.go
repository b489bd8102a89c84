package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/services"
	"plantopia_back_end/internal/store"
)

// Handler regroupe les dépendances des routes HTTP. Il est construit une
// seule fois dans cmd/server.
type Handler struct {
	Store    *store.Store
	Users    *services.UserService
	Orders   *services.OrderService
	Comments *services.CommentService
	Wishlist *services.WishlistService
	Products *services.ProductService
	Blogs    *services.BlogService
	Payments *services.PaymentService
	Images   *services.ImageService
	Events   services.OrderEvents

	// Timeout borne chaque appel au store.
	Timeout time.Duration
}

func (h *Handler) ctx() (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ok écrit {success: true, ...fields}.
func ok(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail traduit l'erreur en code HTTP. Les erreurs store sont journalisées
// avec leur cause et le client ne reçoit que fallback.
func fail(c *gin.Context, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		log.Printf("⚠️ %s %s → %d: %v", c.Request.Method, c.FullPath(), status, err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": apperr.PublicMessage(err, fallback),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

// Home : texte de vie.
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Plantopia server is running")
}

// Health renvoie le mode de stockage et le résultat du ping.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		log.Println("❌ Ping store:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "store": h.Store.Mode, "message": "Store unavailable"})
		return
	}
	ok(c, http.StatusOK, gin.H{"store": h.Store.Mode})
}
