package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/services"
)

// GET /api/{category}/:id/comments
func (h *Handler) ListComments(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := h.ctx()
		defer cancel()

		comments, err := h.Comments.ListComments(ctx, cat, c.Param("id"))
		if err != nil {
			fail(c, err, "Failed to fetch comments")
			return
		}
		ok(c, http.StatusOK, gin.H{"data": comments})
	}
}

// POST /api/{category}/:id/comments
func (h *Handler) AddComment(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CommentInput
		_ = c.ShouldBindJSON(&in)

		ctx, cancel := h.ctx()
		defer cancel()

		comment, err := h.Comments.AddComment(ctx, cat, c.Param("id"), in)
		if err != nil {
			fail(c, err, "Failed to add comment")
			return
		}
		ok(c, http.StatusCreated, gin.H{"message": "Comment added successfully", "data": comment})
	}
}

// POST /api/{category}/:id/comments/:commentId/replies
func (h *Handler) AddReply(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CommentInput
		_ = c.ShouldBindJSON(&in)

		ctx, cancel := h.ctx()
		defer cancel()

		reply, err := h.Comments.AddReply(ctx, cat, c.Param("id"), c.Param("commentId"), in)
		if err != nil {
			fail(c, err, "Failed to add reply")
			return
		}
		ok(c, http.StatusCreated, gin.H{"message": "Reply added successfully", "data": reply})
	}
}

// DELETE /api/{category}/:id/comments/:commentId
func (h *Handler) DeleteComment(cat models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			UserUID string `json:"userUid"`
		}
		_ = c.ShouldBindJSON(&body)

		ctx, cancel := h.ctx()
		defer cancel()

		if err := h.Comments.DeleteComment(ctx, cat, c.Param("id"), c.Param("commentId"), body.UserUID); err != nil {
			fail(c, err, "Failed to delete comment")
			return
		}
		ok(c, http.StatusOK, gin.H{"message": "Comment deleted successfully"})
	}
}
