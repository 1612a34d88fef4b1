package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"printshop-backend/internal/model"
	"printshop-backend/internal/service"
)

// ListPrinters handles GET /api/shops/:shop/printers. Public: any connected
// client may display a shop's printer list.
func (h *Handler) ListPrinters(c *gin.Context) {
	shop, ok := shopParam(c)
	if !ok {
		return
	}
	printers, err := h.svc.ListPrinters(c.Request.Context(), shop)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, printers)
}

type createPrinterRequest struct {
	Name       string                   `json:"name" binding:"required"`
	Status     string                   `json:"status" binding:"required"`
	PaperSizes []service.PaperSizeInput `json:"paper_sizes" binding:"required"`
}

// AdminCreatePrinter handles POST /api/admin/printers.
func (h *Handler) AdminCreatePrinter(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}

	var req createPrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	printer, err := h.svc.CreatePrinter(c.Request.Context(), shop, req.Name,
		model.PrinterStatus(req.Status), req.PaperSizes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, printer)
}

type updatePrinterRequest struct {
	Name       *string                  `json:"name"`
	Status     *string                  `json:"status"`
	PaperSizes []service.PaperSizeInput `json:"paper_sizes"`
}

// AdminUpdatePrinter handles PATCH /api/admin/printers/:id.
func (h *Handler) AdminUpdatePrinter(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid printer id"})
		return
	}
	if !h.printerBelongsToShop(c, id, shop) {
		return
	}

	var req updatePrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.PrinterPatch{Name: req.Name, PaperSizes: req.PaperSizes}
	if req.Status != nil {
		s := model.PrinterStatus(*req.Status)
		patch.Status = &s
	}

	printer, err := h.svc.UpdatePrinter(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, printer)
}

// AdminDeletePrinter handles DELETE /api/admin/printers/:id.
func (h *Handler) AdminDeletePrinter(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid printer id"})
		return
	}
	if !h.printerBelongsToShop(c, id, shop) {
		return
	}

	if err := h.svc.DeletePrinter(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// printerBelongsToShop rejects admins reaching across shops. A missing
// printer falls through so the service reports the 404.
func (h *Handler) printerBelongsToShop(c *gin.Context, id int64, shop model.Shop) bool {
	printer, err := h.store.GetPrinter(c.Request.Context(), id)
	if err != nil {
		return true
	}
	if printer.Shop != shop {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "printer belongs to another shop"})
		return false
	}
	return true
}
