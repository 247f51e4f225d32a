package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sodamint/itemsim/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ItemHandler handles item catalog REST endpoints.
type ItemHandler struct {
	db *gorm.DB
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(db *gorm.DB) *ItemHandler {
	return &ItemHandler{db: db}
}

type createItemRequest struct {
	Code        int              `json:"item_code" binding:"required"`
	Name        string           `json:"item_name" binding:"required"`
	Price       *int64           `json:"item_price"`
	Stat        *model.StatBonus `json:"item_stat"`
	Type        string           `json:"item_type"`
	Description string           `json:"description"`
	Rarity      string           `json:"rarity"`
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "item_code and item_name are required"})
		return
	}

	rarity := strings.ToLower(req.Rarity)
	if rarity == "" {
		rarity = model.RarityCommon
	}
	if !model.ValidRarity(rarity) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "rarity must be one of: " + strings.Join(model.Rarities, ","),
		})
		return
	}

	price := int64(1)
	if req.Price != nil {
		price = *req.Price
	}
	itemType := req.Type
	if itemType == "" {
		itemType = "ETC"
	}

	stat := model.StatBonus{}
	if req.Stat != nil {
		stat = *req.Stat
	}
	statJSON, err := json.Marshal(stat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	item := &model.Item{
		Code:        req.Code,
		Name:        req.Name,
		Price:       price,
		Stat:        datatypes.JSON(statJSON),
		Type:        itemType,
		Description: req.Description,
		Rarity:      rarity,
	}
	if err := h.db.Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "item_code already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "item created", "data": item})
}

// List handles GET /api/items. It projects code, name and price only,
// ordered by ascending code.
func (h *ItemHandler) List(c *gin.Context) {
	var items []model.Item
	if err := h.db.Select("code", "name", "price").Order("code asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	type itemSummary struct {
		Code  int    `json:"item_code"`
		Name  string `json:"item_name"`
		Price int64  `json:"item_price"`
	}
	summaries := make([]itemSummary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, itemSummary{Code: it.Code, Name: it.Name, Price: it.Price})
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// Detail handles GET /api/items/:code.
func (h *ItemHandler) Detail(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item code"})
		return
	}

	var item model.Item
	if err := h.db.First(&item, "code = ?", code).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// updateItemRequest deliberately has no price field: the list price of an
// item cannot be changed once published.
type updateItemRequest struct {
	Name        *string          `json:"item_name"`
	Stat        *model.StatBonus `json:"item_stat"`
	Type        *string          `json:"item_type"`
	Description *string          `json:"description"`
	Rarity      *string          `json:"rarity"`
}

// Update handles PATCH /api/items/:code.
// Each changed field is recorded as one append-only history row; the update
// and its history commit in a single transaction.
func (h *ItemHandler) Update(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item code"})
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Rarity != nil {
		lowered := strings.ToLower(*req.Rarity)
		if !model.ValidRarity(lowered) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "rarity must be one of: " + strings.Join(model.Rarities, ","),
			})
			return
		}
		req.Rarity = &lowered
	}

	var item model.Item
	if err := h.db.First(&item, "code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "item not found"})
		return
	}

	updates := map[string]interface{}{}
	var histories []model.ItemHistory
	record := func(field, oldVal, newVal string) {
		histories = append(histories, model.ItemHistory{
			ItemCode:     item.Code,
			ChangedField: field,
			OldValue:     oldVal,
			NewValue:     newVal,
		})
	}

	if req.Name != nil && *req.Name != item.Name {
		updates["name"] = *req.Name
		record("item_name", item.Name, *req.Name)
	}
	if req.Stat != nil {
		newStat, err := json.Marshal(*req.Stat)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		oldStat, _ := json.Marshal(item.Bonus())
		if string(newStat) != string(oldStat) {
			updates["stat"] = datatypes.JSON(newStat)
			record("item_stat", string(oldStat), string(newStat))
		}
	}
	if req.Type != nil && *req.Type != item.Type {
		updates["type"] = *req.Type
		record("item_type", item.Type, *req.Type)
	}
	if req.Description != nil && *req.Description != item.Description {
		updates["description"] = *req.Description
		record("description", item.Description, *req.Description)
	}
	if req.Rarity != nil && *req.Rarity != item.Rarity {
		updates["rarity"] = *req.Rarity
		record("rarity", item.Rarity, *req.Rarity)
	}

	if len(updates) > 0 {
		txErr := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&item).Updates(updates).Error; err != nil {
				return err
			}
			for i := range histories {
				if err := tx.Create(&histories[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			if isUniqueViolation(txErr) {
				c.JSON(http.StatusConflict, gin.H{"message": "item_name already exists"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			}
			return
		}
	}

	if err := h.db.First(&item, "code = ?", code).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item updated", "data": item})
}
