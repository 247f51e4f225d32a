package model

import "time"

// Account represents a registered player account.
type Account struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LoginID      string    `gorm:"uniqueIndex;size:32;not null" json:"login_id"`
	PasswordHash string    `gorm:"size:64;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
