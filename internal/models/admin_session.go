package models

import "time"

// AdminSession marks an authenticated dashboard client. It has no expiry and
// lives until logout removes it.
type AdminSession struct {
	Token     string    `gorm:"type:text;primaryKey" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AdminSession) TableName() string {
	return "admin_sessions"
}
