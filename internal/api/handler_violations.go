package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdminListViolations handles GET /api/admin/violations?resolved=.
func (h *Handler) AdminListViolations(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}

	var resolved *bool
	if q := c.Query("resolved"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid resolved filter"})
			return
		}
		resolved = &v
	}

	violations, err := h.svc.ListViolations(c.Request.Context(), shop, resolved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, violations)
}

type sendViolationRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdminSendViolation handles POST /api/admin/violations.
func (h *Handler) AdminSendViolation(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}

	var req sendViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.svc.SendViolation(c.Request.Context(), shop, req.UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// AdminSettleViolation handles POST /api/admin/violations/:id/settle.
func (h *Handler) AdminSettleViolation(c *gin.Context) {
	if _, ok := adminShop(c); !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid violation id"})
		return
	}

	v, err := h.svc.SettleViolation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
