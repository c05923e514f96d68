package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MartinRAM24/app-gestion-citas/internal/config"
)

const (
	RolePatient = "patient"
	RoleAdmin   = "admin"

	contextSession = "session"
)

// Session is the explicit request identity: a patient id (zero for the
// admin), a role and an expiry. Handlers read it from the request context;
// nothing identity-related lives in package state.
type Session struct {
	PatientID uint
	Role      string
	ExpiresAt time.Time
}

func SessionFrom(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextSession)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		sub, _ := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		exp, _ := claims["exp"].(float64)
		if role != RolePatient && role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}
		if role == RolePatient && sub == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(contextSession, Session{
			PatientID: uint(sub),
			Role:      role,
			ExpiresAt: time.Unix(int64(exp), 0),
		})

		c.Next()
	}
}

// RequireAdmin gates the administrative surface; it runs after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := SessionFrom(c)
		if !ok || s.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_only"})
			return
		}
		c.Next()
	}
}
