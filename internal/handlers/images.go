package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxImageBytes borne la taille du formulaire multipart.
const maxImageBytes = 10 << 20

// POST /api/upload-image (champ multipart "image")
func (h *Handler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "No image file provided")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	img, err := h.Images.Upload(ctx, fileHeader)
	if err != nil {
		fail(c, err, "Failed to upload image")
		return
	}
	ok(c, http.StatusOK, gin.H{"imageUrl": img.URL, "publicId": img.PublicID})
}
