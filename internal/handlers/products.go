package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"plantopia_back_end/internal/models"
)

// Les handlers produit sont des fabriques paramétrées par catalogue : la
// catégorie est fixée à l'enregistrement de la route, jamais lue dans l'URL.

// POST /api/{category}
func (h *Handler) CreateProduct(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		var attrs bson.M
		if err := c.ShouldBindJSON(&attrs); err != nil {
			badRequest(c, "Invalid request body")
			return
		}

		ctx, cancel := h.ctx()
		defer cancel()

		id, err := h.Products.Create(ctx, cat, attrs)
		if err != nil {
			fail(c, err, "Failed to add "+cat.Singular())
			return
		}
		ok(c, http.StatusCreated, gin.H{
			"message":    cat.Singular() + " added successfully",
			"insertedId": id.Hex(),
		})
	}
}

// GET /api/{category}
func (h *Handler) ListProducts(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := h.ctx()
		defer cancel()

		products, err := h.Products.List(ctx, cat)
		if err != nil {
			fail(c, err, "Failed to fetch products")
			return
		}
		ok(c, http.StatusOK, gin.H{"data": products})
	}
}

// GET /api/{category}/:id
func (h *Handler) GetProduct(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := h.ctx()
		defer cancel()

		product, err := h.Products.Get(ctx, cat, c.Param("id"))
		if err != nil {
			fail(c, err, "Failed to fetch product")
			return
		}
		ok(c, http.StatusOK, gin.H{"data": product})
	}
}

// PUT /api/{category}/:id
func (h *Handler) UpdateProduct(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		var attrs bson.M
		if err := c.ShouldBindJSON(&attrs); err != nil {
			badRequest(c, "Invalid request body")
			return
		}

		ctx, cancel := h.ctx()
		defer cancel()

		product, err := h.Products.Update(ctx, cat, c.Param("id"), attrs)
		if err != nil {
			fail(c, err, "Failed to update product")
			return
		}
		ok(c, http.StatusOK, gin.H{"message": "Product updated successfully", "data": product})
	}
}

// DELETE /api/{category}/:id
func (h *Handler) DeleteProduct(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		ctx, cancel := h.ctx()
		defer cancel()

		if err := h.Products.Delete(ctx, cat, id); err != nil {
			fail(c, err, "Failed to delete product")
			return
		}
		ok(c, http.StatusOK, gin.H{"message": "Product deleted successfully", "deletedId": id})
	}
}
