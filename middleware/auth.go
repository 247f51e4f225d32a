package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sodamint/itemsim/config"
	"github.com/sodamint/itemsim/model"
	"gorm.io/gorm"
)

const AccountIDKey = "account_id"

// Cookie names carrying the session tokens.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Auth validates the access-token cookie, resolves the account and stores
// its ID in the Gin context. The cookie is cleared when the token points at
// an account that no longer exists.
func Auth(sec config.SecurityConfig, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing access token"})
			return
		}

		claims, err := ParseToken(tokenStr, sec.AccessSecret)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "access token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		var acc model.Account
		if err := db.First(&acc, claims.AccountID).Error; err != nil {
			ClearSessionCookies(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token account no longer exists"})
			return
		}

		c.Set(AccountIDKey, acc.ID)
		c.Next()
	}
}

// OptionalAuth resolves the account like Auth but never rejects the request.
// Handlers see account ID 0 when no valid session is present.
func OptionalAuth(sec config.SecurityConfig, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}
		claims, err := ParseToken(tokenStr, sec.AccessSecret)
		if err != nil {
			c.Next()
			return
		}
		var acc model.Account
		if err := db.First(&acc, claims.AccountID).Error; err != nil {
			c.Next()
			return
		}
		c.Set(AccountIDKey, acc.ID)
		c.Next()
	}
}

// ClearSessionCookies expires both session cookies on the client.
func ClearSessionCookies(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", false, false)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", false, false)
}

// GetAccountID retrieves the authenticated account ID from the Gin context.
func GetAccountID(c *gin.Context) int64 {
	if v, exists := c.Get(AccountIDKey); exists {
		return v.(int64)
	}
	return 0
}
