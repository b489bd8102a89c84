package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/services"
)

// POST /api/users/:uid/wishlist
func (h *Handler) AddToWishlist(c *gin.Context) {
	var in services.WishlistInput
	_ = c.ShouldBindJSON(&in)

	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Wishlist.AddToWishlist(ctx, c.Param("uid"), in); err != nil {
		fail(c, err, "Failed to add to wishlist")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Product added to wishlist"})
}

// DELETE /api/users/:uid/wishlist/:productId
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Wishlist.RemoveFromWishlist(ctx, c.Param("uid"), c.Param("productId")); err != nil {
		fail(c, err, "Failed to remove from wishlist")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Product removed from wishlist"})
}

// GET /api/users/:uid/wishlist
func (h *Handler) GetWishlist(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	entries, err := h.Wishlist.GetWishlist(ctx, c.Param("uid"))
	if err != nil {
		fail(c, err, "Failed to fetch wishlist")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": entries})
}
