package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"printshop-backend/internal/mw"
)

// ListNotifications handles GET /api/notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.store.ListNotifications(c.Request.Context(), mw.UserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead handles POST /api/notifications/:id/read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.store.MarkNotificationRead(c.Request.Context(), id, mw.UserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}
	c.Status(http.StatusNoContent)
}
