package models

import "time"

// SessionEntry is a key-value pair of the client session store.
type SessionEntry struct {
	Name      string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
