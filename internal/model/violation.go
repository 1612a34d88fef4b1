package model

import "time"

// Violation is an administrative warning against a user, typically for not
// claiming a finished order within the expected window.
type Violation struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	Shop      Shop      `gorm:"size:8;index;not null" json:"shop"`
	Reason    string    `gorm:"size:512;not null" json:"reason"`
	Resolved  bool      `gorm:"not null;default:false" json:"resolved"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// Associations
	User User `json:"user"`
}
