package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jobboard/backend/internal/domain"
)

const identityKey = "identity"

// OptionalAuth resolves the caller's identity from a Bearer JWT if one is
// present and valid, and never aborts: a missing or bad credential just
// leaves the request anonymous. The jobs feed is public; the credential only
// upgrades the tier.
func OptionalAuth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			c.Next()
			return
		}

		tier := domain.TierFree
		if t, ok := claims["tier"].(string); ok && domain.Tier(t) == domain.TierPaid {
			tier = domain.TierPaid
		}

		c.Set(identityKey, domain.UserIdentity(sub, tier))
		c.Next()
	}
}

// IdentityFrom returns the resolved identity, falling back to the client IP
// for anonymous requests.
func IdentityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.AnonymousIdentity(c.ClientIP())
}
