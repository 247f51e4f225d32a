package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sodamint/itemsim/cache"
	"github.com/sodamint/itemsim/config"
	mw "github.com/sodamint/itemsim/middleware"
)

// StatusStaleSession is returned when a refresh token verifies but no
// matching server-side record exists for the account.
const StatusStaleSession = 419

// TokenHandler handles token validation and refresh.
type TokenHandler struct {
	cache cache.Cache
	sec   config.SecurityConfig
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(c cache.Cache, sec config.SecurityConfig) *TokenHandler {
	return &TokenHandler{cache: c, sec: sec}
}

func refreshKey(accountID int64) string {
	return "refresh:" + strconv.FormatInt(accountID, 10)
}

// Validate handles GET /api/token/validate.
func (h *TokenHandler) Validate(c *gin.Context) {
	tokenStr, err := c.Cookie(mw.AccessTokenCookie)
	if err != nil || tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "access token is missing"})
		return
	}

	claims, err := mw.ParseToken(tokenStr, h.sec.AccessSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "access token is not valid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("token for account %d is valid", claims.AccountID),
		"data":    gin.H{"account_id": claims.AccountID},
	})
}

// Refresh handles POST /api/token/refresh.
// A valid refresh token with a matching server-side record yields a new
// short-lived access token. The refresh token itself is not rotated.
func (h *TokenHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(mw.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "refresh token is missing"})
		return
	}

	claims, err := mw.ParseToken(refreshToken, h.sec.RefreshSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "refresh token is not valid"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	stored, err := h.cache.Get(ctx, refreshKey(claims.AccountID))
	if err != nil {
		if cache.IsNotFound(err) {
			c.JSON(StatusStaleSession, gin.H{"message": "no refresh session on the server"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session error"})
		}
		return
	}
	if stored != refreshToken {
		// A newer login replaced this session's refresh token.
		c.JSON(StatusStaleSession, gin.H{"message": "refresh session has been superseded"})
		return
	}

	accessToken, err := mw.GenerateToken(claims.AccountID, h.sec.AccessSecret, h.sec.RenewTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token error"})
		return
	}
	setTokenCookie(c, mw.AccessTokenCookie, accessToken, h.sec.RenewTTL)

	c.JSON(http.StatusOK, gin.H{
		"message":      "issued a new access token",
		"access_token": accessToken,
	})
}
