package model

import "time"

// AccountStatus is the approval state of a user account.
type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountApproved AccountStatus = "approved"
	AccountDeclined AccountStatus = "declined"
)

// User is the minimally modelled identity. Authentication itself is external;
// the core only needs role, approval state, and per-shop bans.
type User struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	Email         string        `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Name          string        `gorm:"size:128;not null" json:"name"`
	Role          Role          `gorm:"size:16;not null;default:student" json:"role"`
	BSIT          bool          `gorm:"not null;default:false" json:"bsit"`
	AccountStatus AccountStatus `gorm:"size:16;not null;default:pending" json:"account_status"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`

	// Associations
	Bans []ShopBan `gorm:"foreignKey:UserID" json:"bans"`
}

// ShopBan bars a user from ordering at one shop.
type ShopBan struct {
	ID        int64     `gorm:"primaryKey" json:"-"`
	UserID    int64     `gorm:"uniqueIndex:idx_user_shop_ban;not null" json:"user_id"`
	Shop      Shop      `gorm:"uniqueIndex:idx_user_shop_ban;size:8;not null" json:"shop"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BannedFrom reports whether the user is banned from the given shop.
func (u *User) BannedFrom(shop Shop) bool {
	for _, b := range u.Bans {
		if b.Shop == shop {
			return true
		}
	}
	return false
}
