package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mw "github.com/sodamint/itemsim/middleware"
	"github.com/sodamint/itemsim/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InventoryHandler handles inventory and equipped-item listings.
type InventoryHandler struct {
	db *gorm.DB
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(db *gorm.DB) *InventoryHandler {
	return &InventoryHandler{db: db}
}

// itemsByCode loads the item definitions for a set of codes.
func itemsByCode(db *gorm.DB, codes []int) (map[int]model.Item, error) {
	byCode := make(map[int]model.Item, len(codes))
	if len(codes) == 0 {
		return byCode, nil
	}
	var items []model.Item
	if err := db.Where("code IN ?", codes).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		byCode[it.Code] = it
	}
	return byCode, nil
}

// List handles GET /api/character/:id/inventory.
// Each entry is joined with its item definition.
func (h *InventoryHandler) List(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	charID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid character id"})
		return
	}

	var char model.Character
	if err := h.db.Where("id = ? AND account_id = ?", charID, accountID).First(&char).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "character not found"})
		return
	}

	var entries []model.Inventory
	if err := h.db.Where("character_id = ?", charID).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	codes := make([]int, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, e.ItemCode)
	}
	byCode, err := itemsByCode(h.db, codes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	type inventoryEntry struct {
		ID       int64          `json:"id"`
		ItemCode int            `json:"item_code"`
		ItemName string         `json:"item_name"`
		ItemType string         `json:"item_type"`
		ItemStat datatypes.JSON `json:"item_stat"`
		Count    int            `json:"count"`
	}
	data := make([]inventoryEntry, 0, len(entries))
	for _, e := range entries {
		it := byCode[e.ItemCode]
		data = append(data, inventoryEntry{
			ID:       e.ID,
			ItemCode: e.ItemCode,
			ItemName: it.Name,
			ItemType: it.Type,
			ItemStat: it.Stat,
			Count:    e.Count,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// ListEquipped handles GET /api/character/:id/characterItem.
// Unlike the inventory listing, anyone may view what a character wears.
func (h *InventoryHandler) ListEquipped(c *gin.Context) {
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

	var equipped []model.EquippedItem
	if err := h.db.Where("character_id = ?", charID).Find(&equipped).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	codes := make([]int, 0, len(equipped))
	for _, e := range equipped {
		codes = append(codes, e.ItemCode)
	}
	byCode, err := itemsByCode(h.db, codes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	type equippedEntry struct {
		ID       int64          `json:"id"`
		ItemCode int            `json:"item_code"`
		ItemName string         `json:"item_name"`
		ItemType string         `json:"item_type"`
		ItemStat datatypes.JSON `json:"item_stat"`
	}
	data := make([]equippedEntry, 0, len(equipped))
	for _, e := range equipped {
		it := byCode[e.ItemCode]
		data = append(data, equippedEntry{
			ID:       e.ID,
			ItemCode: e.ItemCode,
			ItemName: it.Name,
			ItemType: it.Type,
			ItemStat: it.Stat,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
