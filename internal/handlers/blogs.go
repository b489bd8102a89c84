package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/models"
)

// POST /api/blogs
func (h *Handler) CreateBlog(c *gin.Context) {
	var in models.Blog
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	blog, err := h.Blogs.Create(ctx, in)
	if err != nil {
		fail(c, err, "Failed to create blog post")
		return
	}
	ok(c, http.StatusCreated, gin.H{
		"message":    "Blog post created successfully",
		"insertedId": blog.ID.Hex(),
		"data":       blog,
	})
}

// GET /api/blogs
func (h *Handler) ListBlogs(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	blogs, err := h.Blogs.List(ctx)
	if err != nil {
		fail(c, err, "Failed to fetch blog posts")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": blogs})
}

// GET /api/blogs/:id
func (h *Handler) GetBlog(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	blog, err := h.Blogs.Get(ctx, c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to fetch blog post")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": blog})
}

// PUT /api/blogs/:id
func (h *Handler) UpdateBlog(c *gin.Context) {
	var u models.BlogUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	blog, err := h.Blogs.Update(ctx, c.Param("id"), u)
	if err != nil {
		fail(c, err, "Failed to update blog post")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Blog post updated successfully", "data": blog})
}

// DELETE /api/blogs/:id
func (h *Handler) DeleteBlog(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Blogs.Delete(ctx, c.Param("id")); err != nil {
		fail(c, err, "Failed to delete blog post")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Blog post deleted successfully"})
}
