package models

import "time"

// HistoryEntry is an append-only audit record of an inventory mutation.
type HistoryEntry struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;not null"`
	Action    string    `gorm:"column:action;not null"`
	Location  string    `gorm:"column:location;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
