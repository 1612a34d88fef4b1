package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// AdminApproveAccount handles POST /api/admin/users/:id/approve.
func (h *Handler) AdminApproveAccount(c *gin.Context) {
	if _, ok := adminShop(c); !ok {
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.svc.ApproveAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AdminDeclineAccount handles POST /api/admin/users/:id/decline.
func (h *Handler) AdminDeclineAccount(c *gin.Context) {
	if _, ok := adminShop(c); !ok {
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.svc.DeclineAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AdminBanUser handles POST /api/admin/users/:id/ban. The ban applies to the
// caller's own shop.
func (h *Handler) AdminBanUser(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.svc.BanUser(c.Request.Context(), shop, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AdminUnbanUser handles POST /api/admin/users/:id/unban.
func (h *Handler) AdminUnbanUser(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.svc.UnbanUser(c.Request.Context(), shop, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
