package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadFile handles POST /api/uploads. The stored file is addressed by an
// opaque key that createOrder later references; the storage backend behind
// the key is an implementation detail.
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "a file is required"})
		return
	}
	if file.Size > h.uploads.MaxBytes {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file is too large"})
		return
	}

	key := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.uploads.Dir, key)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"file_name": file.Filename,
		"file_key":  key,
	})
}
