package model

import "time"

// Notification is a persisted message for one user, produced by the
// best-effort dispatcher after order/ban/violation events.
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Body      string    `gorm:"size:512;not null" json:"body"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
