package handler

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/shakti20/Camper/internal/httperr"
	"github.com/shakti20/Camper/internal/repository"
)

// PhotoHandler serves stored images back from the image store, so the
// URLs captured at upload time resolve.
type PhotoHandler struct {
	Photos *repository.PhotoRepository
}

// Show handles GET /images/:filename.
func (h *PhotoHandler) Show(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.Photos.Open(c.Request.Context(), filename)
	if errors.Is(err, repository.ErrNotFound) {
		c.Error(httperr.NotFound("Image not found"))
		c.Abort()
		return
	}
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}
