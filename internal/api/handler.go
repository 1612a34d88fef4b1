package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"printshop-backend/config"
	"printshop-backend/internal/model"
	"printshop-backend/internal/mw"
	"printshop-backend/internal/realtime"
	"printshop-backend/internal/service"
	"printshop-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	svc     *service.Service
	hub     *realtime.Hub
	webpush *webpush.Options
	uploads config.UploadConfig
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, svc *service.Service, hub *realtime.Hub, webpushOptions *webpush.Options, uploads config.UploadConfig) *Handler {
	return &Handler{
		store:   s,
		svc:     svc,
		hub:     hub,
		webpush: webpushOptions,
		uploads: uploads,
	}
}

// respondError maps the service error taxonomy onto HTTP statuses. Unknown
// errors are logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// shopParam parses the :shop path parameter, accepting any casing.
func shopParam(c *gin.Context) (model.Shop, bool) {
	shop := model.Shop(strings.ToUpper(c.Param("shop")))
	if !shop.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown shop"})
		return "", false
	}
	return shop, true
}

// adminShop returns the shop the authenticated caller administers.
func adminShop(c *gin.Context) (model.Shop, bool) {
	shop := mw.CallerRole(c).AdminShop()
	if shop == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return "", false
	}
	return shop, true
}
