package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/sodamint/itemsim/cache"
	"github.com/sodamint/itemsim/config"
	mw "github.com/sodamint/itemsim/middleware"
	"gorm.io/gorm"
)

// RegisterRoutes wires every REST endpoint under /api.
// Shared between main.go and the integration test harness.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, c cache.Cache, sec config.SecurityConfig) {
	accountH := NewAccountHandler(db, c, sec)
	tokenH := NewTokenHandler(c, sec)
	charH := NewCharacterHandler(db)
	itemH := NewItemHandler(db)
	invH := NewInventoryHandler(db)
	equipH := NewEquipmentHandler(db)
	tradeH := NewTradeHandler(db)

	auth := mw.Auth(sec, db)
	optAuth := mw.OptionalAuth(sec, db)

	api := r.Group("/api")
	{
		api.POST("/sign-up", accountH.SignUp)
		api.POST("/sign-in", accountH.SignIn)
		api.GET("/account", auth, accountH.Get)

		api.GET("/token/validate", tokenH.Validate)
		api.POST("/token/refresh", tokenH.Refresh)

		api.POST("/characters", auth, charH.Create)

		// Deletion addresses the character by name, everything else by id.
		// The wildcard name has to match across the whole /character tree.
		charG := api.Group("/character/:id")
		charG.DELETE("", auth, charH.Delete)
		charG.GET("", optAuth, charH.Detail)
		charG.PATCH("/addMoney", auth, charH.AddMoney)
		charG.GET("/inventory", auth, invH.List)
		charG.GET("/characterItem", invH.ListEquipped)
		charG.POST("/equip", auth, equipH.Equip)
		charG.POST("/detach", auth, equipH.Detach)
		charG.POST("/purchase", auth, tradeH.Purchase)
		charG.POST("/sales", auth, tradeH.Sale)

		api.POST("/items", itemH.Create)
		api.GET("/items", itemH.List)
		api.GET("/items/:code", itemH.Detail)
		api.PATCH("/items/:code", itemH.Update)
	}
}
