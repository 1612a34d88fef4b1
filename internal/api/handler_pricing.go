package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printshop-backend/internal/model"
)

// ListPricing handles GET /api/shops/:shop/pricing. Public, cached.
func (h *Handler) ListPricing(c *gin.Context) {
	shop, ok := shopParam(c)
	if !ok {
		return
	}
	pricing, err := h.svc.ListPricing(c.Request.Context(), shop)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pricing)
}

type setPriceRequest struct {
	PaperSize  string `json:"paper_size" binding:"required"`
	ColorType  string `json:"color_type" binding:"required"`
	PriceCents *int64 `json:"price_cents" binding:"required"`
}

// AdminSetPrice handles PUT /api/admin/pricing.
func (h *Handler) AdminSetPrice(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}

	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.SetPrice(c.Request.Context(), shop, req.PaperSize,
		model.ColorType(req.ColorType), *req.PriceCents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
