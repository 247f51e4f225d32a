package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mw "github.com/sodamint/itemsim/middleware"
	"github.com/sodamint/itemsim/model"
	"gorm.io/gorm"
)

// saleRate is the fraction of the list price paid out on a sale,
// expressed as a ratio so the proceeds floor exactly.
const (
	saleRateNum   = 6
	saleRateDenom = 10
)

// TradeHandler handles item purchases and sales.
type TradeHandler struct {
	db *gorm.DB
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(db *gorm.DB) *TradeHandler {
	return &TradeHandler{db: db}
}

type tradeRequest struct {
	ItemCode int `json:"item_code" binding:"required"`
	Count    int `json:"count"`
}

func bindTradeRequest(c *gin.Context) (int64, *tradeRequest, bool) {
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid character id"})
		return 0, nil, false
	}
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a valid item_code and count are required"})
		return 0, nil, false
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a valid item_code and count are required"})
		return 0, nil, false
	}
	return charID, &req, true
}

// Purchase handles POST /api/character/:id/purchase.
// One transaction: money goes down by price×count, the inventory stack
// goes up by count (created on first purchase).
func (h *TradeHandler) Purchase(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	charID, req, ok := bindTradeRequest(c)
	if !ok {
		return
	}

	var (
		item  model.Item
		char  model.Character
		total int64
	)
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "code = ?", req.ItemCode).Error; err != nil {
			return errItemNotFound
		}
		if err := tx.First(&char, charID).Error; err != nil || char.AccountID != accountID {
			return errNotOwner
		}

		total = item.Price * int64(req.Count)
		if char.Money < total {
			return errInsufficientFunds
		}

		if err := tx.Model(&char).Update("money", gorm.Expr("money - ?", total)).Error; err != nil {
			return err
		}

		var inv model.Inventory
		findErr := tx.Where("character_id = ? AND item_code = ?", charID, req.ItemCode).
			First(&inv).Error
		if findErr != nil {
			inv = model.Inventory{CharacterID: charID, ItemCode: req.ItemCode, Count: req.Count}
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&inv).Update("count", inv.Count+req.Count).Error; err != nil {
				return err
			}
		}
		return tx.First(&char, charID).Error
	})
	if txErr != nil {
		h.respondTxError(c, txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("purchased %d x %s", req.Count, item.Name),
		"data": gin.H{
			"spent":     total,
			"remaining": char.Money,
		},
	})
}

// Sale handles POST /api/character/:id/sales.
// Proceeds are floor(price × 0.6 × count). An equipped item cannot be sold;
// a stack sold out completely is deleted.
func (h *TradeHandler) Sale(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	charID, req, ok := bindTradeRequest(c)
	if !ok {
		return
	}

	var (
		item     model.Item
		char     model.Character
		proceeds int64
	)
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "code = ?", req.ItemCode).Error; err != nil {
			return errItemNotFound
		}
		if err := tx.First(&char, charID).Error; err != nil || char.AccountID != accountID {
			return errNotOwner
		}

		var inv model.Inventory
		if err := tx.Where("character_id = ? AND item_code = ?", charID, req.ItemCode).
			First(&inv).Error; err != nil {
			return errInsufficientCount
		}
		if inv.Count < req.Count {
			return errInsufficientCount
		}

		var equipped model.EquippedItem
		if err := tx.Where("character_id = ? AND item_code = ?", charID, req.ItemCode).
			First(&equipped).Error; err == nil {
			return errItemEquipped
		}

		proceeds = item.Price * int64(req.Count) * saleRateNum / saleRateDenom

		if err := tx.Model(&char).Update("money", gorm.Expr("money + ?", proceeds)).Error; err != nil {
			return err
		}

		if inv.Count > req.Count {
			if err := tx.Model(&inv).Update("count", inv.Count-req.Count).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Delete(&inv).Error; err != nil {
				return err
			}
		}
		return tx.First(&char, charID).Error
	})
	if txErr != nil {
		h.respondTxError(c, txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("sold %d x %s", req.Count, item.Name),
		"data": gin.H{
			"proceeds":  proceeds,
			"remaining": char.Money,
		},
	})
}

func (h *TradeHandler) respondTxError(c *gin.Context, err error) {
	var te *txError
	if !errors.As(err, &te) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "transaction failed"})
		return
	}
	switch te {
	case errItemNotFound:
		c.JSON(http.StatusNotFound, gin.H{"message": te.msg})
	case errNotOwner:
		c.JSON(http.StatusForbidden, gin.H{"message": te.msg})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": te.msg})
	}
}
