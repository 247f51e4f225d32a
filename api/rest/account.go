package rest

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sodamint/itemsim/cache"
	"github.com/sodamint/itemsim/config"
	mw "github.com/sodamint/itemsim/middleware"
	"github.com/sodamint/itemsim/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	loginIDPattern = regexp.MustCompile(`^[a-z0-9]+$`)
	hasLetter      = regexp.MustCompile(`[a-z]`)
	hasDigit       = regexp.MustCompile(`[0-9]`)
)

// AccountHandler handles registration, login and account lookup.
type AccountHandler struct {
	db    *gorm.DB
	cache cache.Cache
	sec   config.SecurityConfig
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(db *gorm.DB, c cache.Cache, sec config.SecurityConfig) *AccountHandler {
	return &AccountHandler{db: db, cache: c, sec: sec}
}

type signUpRequest struct {
	LoginID         string `json:"login_id" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// SignUp handles POST /api/sign-up.
func (h *AccountHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if !loginIDPattern.MatchString(req.LoginID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "login ID may only contain lowercase letters and digits"})
		return
	}
	if !hasLetter.MatchString(req.LoginID) || !hasDigit.MatchString(req.LoginID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "login ID must contain at least one letter and one digit"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password must be at least 6 characters"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password confirmation does not match"})
		return
	}

	var existing model.Account
	if err := h.db.Where("login_id = ?", req.LoginID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "account already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	acc := &model.Account{
		LoginID:      req.LoginID,
		PasswordHash: string(hash),
	}
	if err := h.db.Create(acc).Error; err != nil {
		// Unique constraint violation: concurrent sign-up with the same ID.
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "account already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "account registered",
		"data": gin.H{
			"id":         acc.ID,
			"login_id":   acc.LoginID,
			"created_at": acc.CreatedAt,
		},
	})
}

type signInRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignIn handles POST /api/sign-in.
// On success it issues an access and a refresh token, stores the refresh
// token server-side keyed by account, and sets both as cookies.
func (h *AccountHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var acc model.Account
	if err := h.db.Where("login_id = ?", req.LoginID).First(&acc).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "account does not exist"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "password does not match"})
		return
	}

	accessToken, err := mw.GenerateToken(acc.ID, h.sec.AccessSecret, h.sec.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token error"})
		return
	}
	refreshToken, err := mw.GenerateToken(acc.ID, h.sec.RefreshSecret, h.sec.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token error"})
		return
	}

	// Upsert the server-side refresh record; a new login replaces the old one.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.cache.Set(ctx, refreshKey(acc.ID), refreshToken, h.sec.RefreshTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "session error"})
		return
	}

	setTokenCookie(c, mw.AccessTokenCookie, accessToken, h.sec.AccessTTL)
	setTokenCookie(c, mw.RefreshTokenCookie, refreshToken, h.sec.RefreshTTL)

	c.JSON(http.StatusOK, gin.H{
		"message":       "signed in",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Get handles GET /api/account. It returns the caller's account with its characters.
func (h *AccountHandler) Get(c *gin.Context) {
	accountID := mw.GetAccountID(c)

	var acc model.Account
	if err := h.db.First(&acc, accountID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "account not found"})
		return
	}
	var chars []model.Character
	if err := h.db.Where("account_id = ?", accountID).Find(&chars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":         acc.ID,
		"login_id":   acc.LoginID,
		"created_at": acc.CreatedAt,
		"updated_at": acc.UpdatedAt,
		"characters": chars,
	}})
}

func setTokenCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", false, false)
}

// isUniqueViolation detects duplicate-key errors from common database drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}
