package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mw "github.com/sodamint/itemsim/middleware"
	"github.com/sodamint/itemsim/model"
	"gorm.io/gorm"
)

// EquipmentHandler handles equipping and detaching items.
type EquipmentHandler struct {
	db *gorm.DB
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(db *gorm.DB) *EquipmentHandler {
	return &EquipmentHandler{db: db}
}

type equipRequest struct {
	ItemCode int `json:"item_code" binding:"required"`
}

// statUpdates builds a column-expression map that shifts every character
// stat by the item bonus. sign is +1 on equip and -1 on detach.
func statUpdates(b model.StatBonus, sign int) map[string]interface{} {
	return map[string]interface{}{
		"hp":        gorm.Expr("hp + ?", sign*b.HP),
		"mp":        gorm.Expr("mp + ?", sign*b.MP),
		"attack":    gorm.Expr("attack + ?", sign*b.Attack),
		"defense":   gorm.Expr("defense + ?", sign*b.Defense),
		"dexterity": gorm.Expr("dexterity + ?", sign*b.Dexterity),
		"speed":     gorm.Expr("speed + ?", sign*b.Speed),
	}
}

func statResponse(char *model.Character) gin.H {
	return gin.H{
		"character_id": char.ID,
		"hp":           char.HP,
		"mp":           char.MP,
		"attack":       char.Attack,
		"defense":      char.Defense,
		"dexterity":    char.Dexterity,
		"speed":        char.Speed,
	}
}

// Equip handles POST /api/character/:id/equip.
// One transaction: create the equipped row, take one unit out of the
// inventory (dropping the stack at zero) and add the item bonus to the
// character's stats.
func (h *EquipmentHandler) Equip(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid character id"})
		return
	}

	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "item_code is required"})
		return
	}

	var char model.Character
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&char, charID).Error; err != nil || char.AccountID != accountID {
			return errCharacterNotFound
		}

		var inv model.Inventory
		if err := tx.Where("character_id = ? AND item_code = ?", charID, req.ItemCode).
			First(&inv).Error; err != nil {
			return errNotInInventory
		}

		var equipped model.EquippedItem
		if err := tx.Where("character_id = ? AND item_code = ?", charID, req.ItemCode).
			First(&equipped).Error; err == nil {
			return errAlreadyEquipped
		}

		var item model.Item
		if err := tx.First(&item, "code = ?", req.ItemCode).Error; err != nil {
			return errItemNotFound
		}

		if err := tx.Create(&model.EquippedItem{CharacterID: charID, ItemCode: req.ItemCode}).Error; err != nil {
			return err
		}

		if inv.Count <= 1 {
			if err := tx.Delete(&inv).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&inv).Update("count", inv.Count-1).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Character{}).Where("id = ?", charID).
			Updates(statUpdates(item.Bonus(), +1)).Error; err != nil {
			return err
		}
		return tx.First(&char, charID).Error
	})
	if txErr != nil {
		h.respondTxError(c, txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item equipped", "data": statResponse(&char)})
}

// Detach handles POST /api/character/:id/detach.
// The inverse transaction of Equip: the equipped row is removed, the unit
// returns to the inventory and the bonus is subtracted again.
func (h *EquipmentHandler) Detach(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid character id"})
		return
	}

	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "item_code is required"})
		return
	}

	var char model.Character
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&char, charID).Error; err != nil || char.AccountID != accountID {
			return errCharacterNotFound
		}

		var equipped model.EquippedItem
		if err := tx.Where("character_id = ? AND item_code = ?", charID, req.ItemCode).
			First(&equipped).Error; err != nil {
			return errNotEquipped
		}

		var item model.Item
		if err := tx.First(&item, "code = ?", req.ItemCode).Error; err != nil {
			return errItemNotFound
		}

		if err := tx.Delete(&equipped).Error; err != nil {
			return err
		}

		var inv model.Inventory
		findErr := tx.Where("character_id = ? AND item_code = ?", charID, req.ItemCode).
			First(&inv).Error
		if findErr != nil {
			inv = model.Inventory{CharacterID: charID, ItemCode: req.ItemCode, Count: 1}
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&inv).Update("count", inv.Count+1).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Character{}).Where("id = ?", charID).
			Updates(statUpdates(item.Bonus(), -1)).Error; err != nil {
			return err
		}
		return tx.First(&char, charID).Error
	})
	if txErr != nil {
		h.respondTxError(c, txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item detached", "data": statResponse(&char)})
}

func (h *EquipmentHandler) respondTxError(c *gin.Context, err error) {
	var te *txError
	if !errors.As(err, &te) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "transaction failed"})
		return
	}
	switch te {
	case errCharacterNotFound, errItemNotFound:
		c.JSON(http.StatusNotFound, gin.H{"message": te.msg})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": te.msg})
	}
}
