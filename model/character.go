package model

import "time"

// Default stats for a freshly created character.
const (
	DefaultHP        = 100
	DefaultMP        = 50
	DefaultAttack    = 10
	DefaultDefense   = 10
	DefaultDexterity = 10
	DefaultSpeed     = 10
)

// Character represents an account's in-game character.
// Stats are running totals: equipping an item adds its bonus,
// detaching subtracts it again.
type Character struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64     `gorm:"index:idx_char_account;not null" json:"account_id"`
	Name      string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	HP        int       `gorm:"default:100" json:"hp"`
	MP        int       `gorm:"default:50" json:"mp"`
	Attack    int       `gorm:"default:10" json:"attack"`
	Defense   int       `gorm:"default:10" json:"defense"`
	Dexterity int       `gorm:"default:10" json:"dexterity"`
	Speed     int       `gorm:"default:10" json:"speed"`
	Money     int64     `gorm:"default:0" json:"money"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
