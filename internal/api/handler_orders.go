package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"printshop-backend/internal/model"
	"printshop-backend/internal/mw"
	"printshop-backend/internal/service"
)

type createOrderRequest struct {
	PrinterID   int64  `json:"printer_id" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	FileKey     string `json:"file_key" binding:"required"`
	PaperSize   string `json:"paper_size" binding:"required"`
	Orientation string `json:"orientation" binding:"required"`
	ColorType   string `json:"color_type" binding:"required"`
	Copies      int    `json:"copies" binding:"required"`
}

// orderResponse decorates an order with its display total when the shop has
// a configured price for the job's paper/color combination.
type orderResponse struct {
	model.Order
	TotalCents *int64 `json:"total_cents,omitempty"`
}

func (h *Handler) orderResponse(c *gin.Context, order *model.Order) orderResponse {
	resp := orderResponse{Order: *order}
	if total, ok := h.svc.OrderTotalCents(c.Request.Context(), order); ok {
		resp.TotalCents = &total
	}
	return resp
}

func (h *Handler) orderResponses(c *gin.Context, orders []model.Order) []orderResponse {
	responses := make([]orderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, h.orderResponse(c, &orders[i]))
	}
	return responses
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), mw.UserID(c), service.CreateOrderRequest{
		PrinterID:   req.PrinterID,
		FileName:    req.FileName,
		FileKey:     req.FileKey,
		PaperSize:   req.PaperSize,
		Orientation: model.Orientation(req.Orientation),
		ColorType:   model.ColorType(req.ColorType),
		Copies:      req.Copies,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.orderResponse(c, order))
}

// ListMyOrders handles GET /api/orders.
func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.svc.ListMyOrders(c.Request.Context(), mw.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponses(c, orders))
}

// CancelOrder handles POST /api/orders/:id/cancel.
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.svc.CancelOrder(c.Request.Context(), mw.UserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(c, order))
}

// AdminListOrders handles GET /api/admin/orders. The shop is the caller's
// own; an optional status query narrows the result.
func (h *Handler) AdminListOrders(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}

	var status *model.OrderStatus
	if q := c.Query("status"); q != "" {
		s := model.OrderStatus(q)
		status = &s
	}

	orders, err := h.svc.AdminListOrders(c.Request.Context(), shop, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponses(c, orders))
}

// AdminGetOrderByNumber handles GET /api/admin/orders/by-number/:number.
// Counter staff resolve the 4-digit number a student reads out.
func (h *Handler) AdminGetOrderByNumber(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}

	order, err := h.svc.AdminGetOrderByNumber(c.Request.Context(), shop, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(c, order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateOrderStatus handles PATCH /api/admin/orders/:id/status.
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	shop, ok := adminShop(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	if !h.orderBelongsToShop(c, orderID, shop) {
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.svc.AdminUpdateOrderStatus(c.Request.Context(), orderID, model.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(c, order))
}

// orderBelongsToShop rejects admins reaching across shops. A missing order
// falls through so the service reports the 404.
func (h *Handler) orderBelongsToShop(c *gin.Context, id int64, shop model.Shop) bool {
	order, err := h.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		return true
	}
	if order.Shop != shop {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "order belongs to another shop"})
		return false
	}
	return true
}
