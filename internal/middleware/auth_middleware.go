package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUID  = "uid"
	ContextRole = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth middleware for JWT token validation. Every failure is reported as
// Unauthenticated; the reason only goes into details.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthenticated(c, "invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				reason = "token expired"
			}
			abortUnauthenticated(c, reason)
			return
		}

		c.Set(ContextUID, claims.UID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			abortUnauthenticated(c, "user role not found")
			return
		}

		if roleStr, ok := role.(string); !ok || roleStr != requiredRole {
			HandleAPIError(c, apperrors.ErrPermissionDenied)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUID returns the identity JWTAuth stored on the context
func GetUID(c *gin.Context) (int32, bool) {
	v, exists := c.Get(ContextUID)
	if !exists {
		return 0, false
	}
	uid, ok := v.(int32)
	return uid, ok && uid > 0
}

func abortUnauthenticated(c *gin.Context, reason string) {
	HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrUnauthenticated, reason))
	c.Abort()
}
