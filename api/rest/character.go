package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mw "github.com/sodamint/itemsim/middleware"
	"github.com/sodamint/itemsim/model"
	"gorm.io/gorm"
)

const (
	maxCharacters = 3
	faucetAmount  = 100
)

// CharacterHandler handles character REST endpoints.
type CharacterHandler struct {
	db *gorm.DB
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(db *gorm.DB) *CharacterHandler {
	return &CharacterHandler{db: db}
}

type createCharacterRequest struct {
	Name string `json:"name" binding:"required,min=1,max=32"`
}

// Create handles POST /api/characters.
func (h *CharacterHandler) Create(c *gin.Context) {
	accountID := mw.GetAccountID(c)

	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "character name is required"})
		return
	}

	// Name must be unique across all accounts.
	var existing model.Character
	if err := h.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "character name already taken"})
		return
	}

	var owned []model.Character
	if err := h.db.Select("id").Where("account_id = ?", accountID).Find(&owned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if len(owned) >= maxCharacters {
		c.JSON(http.StatusBadRequest, gin.H{"message": "character limit reached (max 3)"})
		return
	}

	char := &model.Character{
		AccountID: accountID,
		Name:      req.Name,
		HP:        model.DefaultHP,
		MP:        model.DefaultMP,
		Attack:    model.DefaultAttack,
		Defense:   model.DefaultDefense,
		Dexterity: model.DefaultDexterity,
		Speed:     model.DefaultSpeed,
		Money:     0,
	}
	if err := h.db.Create(char).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "character name already taken"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "character created", "data": char})
}

// Delete handles DELETE /api/character/:name. The path segment carries the
// character name, not the numeric id. Inventory and equipped rows are removed
// in the same transaction so the character leaves no orphans behind.
func (h *CharacterHandler) Delete(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	name := c.Param("id")

	var char model.Character
	if err := h.db.Where("name = ? AND account_id = ?", name, accountID).First(&char).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "character does not exist or is not yours"})
		return
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("character_id = ?", char.ID).Delete(&model.Inventory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("character_id = ?", char.ID).Delete(&model.EquippedItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&char).Error
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "character deleted"})
}

// Detail handles GET /api/character/:id.
// Money is included only when the viewer owns the character.
func (h *CharacterHandler) Detail(c *gin.Context) {
	viewerID := mw.GetAccountID(c)
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid character id"})
		return
	}

	var char model.Character
	if err := h.db.First(&char, charID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "character not found"})
		return
	}

	data := gin.H{
		"name":      char.Name,
		"hp":        char.HP,
		"mp":        char.MP,
		"attack":    char.Attack,
		"defense":   char.Defense,
		"dexterity": char.Dexterity,
		"speed":     char.Speed,
	}
	if viewerID != 0 && viewerID == char.AccountID {
		data["money"] = char.Money
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// AddMoney handles PATCH /api/character/:id/addMoney.
// A fixed-amount faucet for testing the economy.
func (h *CharacterHandler) AddMoney(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid character id"})
		return
	}

	var char model.Character
	if err := h.db.Where("id = ? AND account_id = ?", charID, accountID).First(&char).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "character not found"})
		return
	}

	if err := h.db.Model(&char).Update("money", gorm.Expr("money + ?", faucetAmount)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if err := h.db.First(&char, charID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "added 100 money", "data": char})
}
