package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/models"
)

// POST /api/users
func (h *Handler) UpsertUser(c *gin.Context) {
	var p models.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "User ID required")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	created, err := h.Users.Upsert(ctx, p)
	if err != nil {
		fail(c, err, "Failed to handle user data")
		return
	}

	msg := "User updated successfully"
	if created {
		msg = "User created successfully"
	}
	ok(c, http.StatusOK, gin.H{"message": msg})
}

// GET /api/users/:uid
func (h *Handler) GetUser(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	user, err := h.Users.Get(ctx, c.Param("uid"))
	if err != nil {
		fail(c, err, "Failed to fetch user data")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": user})
}

// PUT /api/users/:uid
func (h *Handler) UpdateUser(c *gin.Context) {
	var u models.UserUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Users.Update(ctx, c.Param("uid"), u); err != nil {
		fail(c, err, "Failed to update user")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "User updated successfully"})
}

// GET /api/cart/:uid
func (h *Handler) GetCart(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	cart, err := h.Users.GetCart(ctx, c.Param("uid"))
	if err != nil {
		fail(c, err, "Failed to fetch cart")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": cart})
}

// PUT /api/cart/:uid
func (h *Handler) UpdateCart(c *gin.Context) {
	var body struct {
		Cart []models.CartItem `json:"cart"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Users.SetCart(ctx, c.Param("uid"), body.Cart); err != nil {
		fail(c, err, "Failed to update cart")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Cart updated successfully"})
}

// POST /api/make-admin
func (h *Handler) MakeAdmin(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	_ = c.ShouldBindJSON(&body)

	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Users.MakeAdmin(ctx, body.Email); err != nil {
		fail(c, err, "Failed to make user admin")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "User with email " + body.Email + " is now an admin"})
}
