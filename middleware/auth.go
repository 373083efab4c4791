package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"blogicum/services"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	UserIDKey      = "user_id"
	TokenClaimsKey = "token_claims"
)

var (
	errTokenRevoked = errors.New("token has been revoked")
	errUserDeleted  = errors.New("token user no longer exists")
)

// Accounts reports whether the user a token was issued to still exists.
type Accounts interface {
	Exists(id uint) (bool, error)
}

// AuthRequired rejects requests without a valid, unrevoked bearer token.
// Browsers cannot set headers on websocket upgrades, so those pass the
// token as ?token= instead. A nil accounts skips the user lookup.
func AuthRequired(blacklist services.TokenBlacklist, accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		claims, err := authenticate(c, blacklist, accounts, token)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(blacklist services.TokenBlacklist, accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := authenticate(c, blacklist, accounts, token); err == nil {
				c.Set(UserIDKey, claims.UserID)
				c.Set(TokenClaimsKey, claims)
			}
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if websocket.IsWebSocketUpgrade(c.Request) {
		if token := c.Query("token"); token != "" {
			return token
		}
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func authenticate(c *gin.Context, blacklist services.TokenBlacklist, accounts Accounts, token string) (*utils.Claims, error) {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, err
	}
	if blacklist != nil {
		revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errTokenRevoked
		}
	}
	if accounts != nil {
		exists, err := accounts.Exists(claims.UserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errUserDeleted
		}
	}
	return claims, nil
}
