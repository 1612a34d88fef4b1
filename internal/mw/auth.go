package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"printshop-backend/internal/model"
)

// Context keys set by the auth middleware.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Claims is the token payload issued by the identity service.
type Claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates a Bearer token and stores the caller's identity on the
// request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		var claims Claims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, model.Role(claims.Role))
		c.Next()
	}
}

// UserID returns the authenticated caller's user id.
func UserID(c *gin.Context) int64 {
	id, _ := c.Get(UserIDKey)
	v, _ := id.(int64)
	return v
}

// CallerRole returns the authenticated caller's role.
func CallerRole(c *gin.Context) model.Role {
	r, _ := c.Get(RoleKey)
	v, _ := r.(model.Role)
	return v
}

// RequireAdmin rejects callers whose role does not administer any shop.
// Handlers additionally check the shop parameter against the caller's shop.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c).AdminShop() == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
