package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Item rarity tiers.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Rarities lists the valid rarity values in ascending order.
var Rarities = []string{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// ValidRarity reports whether s is one of the enumerated rarity tiers.
func ValidRarity(s string) bool {
	for _, r := range Rarities {
		if s == r {
			return true
		}
	}
	return false
}

// StatBonus is the per-item map of attribute deltas applied on equip
// and reversed on detach. Absent fields count as zero.
type StatBonus struct {
	HP        int `json:"hp,omitempty"`
	MP        int `json:"mp,omitempty"`
	Attack    int `json:"attack,omitempty"`
	Defense   int `json:"defense,omitempty"`
	Dexterity int `json:"dexterity,omitempty"`
	Speed     int `json:"speed,omitempty"`
}

// Item is a catalog item definition. Code is client-assigned, not auto-generated.
type Item struct {
	Code        int            `gorm:"primaryKey;autoIncrement:false" json:"item_code"`
	Name        string         `gorm:"uniqueIndex;size:64;not null" json:"item_name"`
	Price       int64          `gorm:"default:1" json:"item_price"`
	Stat        datatypes.JSON `json:"item_stat"`
	Type        string         `gorm:"size:16;default:ETC" json:"item_type"`
	Description string         `gorm:"type:text" json:"description"`
	Rarity      string         `gorm:"size:16;default:common" json:"rarity"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// Bonus decodes the item's stat column. A missing or malformed column
// yields the zero bonus.
func (i *Item) Bonus() StatBonus {
	var b StatBonus
	if len(i.Stat) > 0 {
		_ = json.Unmarshal(i.Stat, &b)
	}
	return b
}

// ItemHistory is an append-only record of a single field change on an item.
type ItemHistory struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemCode     int       `gorm:"index:idx_history_item;not null" json:"item_code"`
	ChangedField string    `gorm:"size:32;not null" json:"changed_field"`
	OldValue     string    `gorm:"type:text" json:"old_value"`
	NewValue     string    `gorm:"type:text" json:"new_value"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
