package model

import "time"

// Inventory is a single item stack owned by a character.
// Count is always >= 1; a stack that reaches zero is deleted, never kept.
type Inventory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID int64     `gorm:"index:idx_inventory_char;not null" json:"character_id"`
	ItemCode    int       `gorm:"not null" json:"item_code"`
	Count       int       `gorm:"default:1" json:"count"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EquippedItem marks an item as currently worn by a character.
// Equipping consumes one inventory unit; detaching returns it.
type EquippedItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID int64     `gorm:"index:idx_equipped_char;not null" json:"character_id"`
	ItemCode    int       `gorm:"not null" json:"item_code"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
