package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printshop-backend/internal/model"
)

// GetUser fetches a user with their shop bans.
func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Bans").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail fetches a user by email with their shop bans.
func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Bans").
		First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser persists a new user record.
func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// SetAccountStatus updates a user's approval state.
func (s *gormStore) SetAccountStatus(ctx context.Context, userID int64, status model.AccountStatus) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("account_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BanUser records a shop ban. Banning an already banned user is a no-op.
func (s *gormStore) BanUser(ctx context.Context, userID int64, shop model.Shop) error {
	ban := model.ShopBan{UserID: userID, Shop: shop}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "shop"}},
		DoNothing: true,
	}).Create(&ban).Error
}

// UnbanUser lifts a shop ban. Unbanning a user who is not banned is a no-op.
func (s *gormStore) UnbanUser(ctx context.Context, userID int64, shop model.Shop) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND shop = ?", userID, shop).
		Delete(&model.ShopBan{}).Error
}

// ListShopAdmins returns all approved administrators of one shop.
func (s *gormStore) ListShopAdmins(ctx context.Context, shop model.Shop) ([]model.User, error) {
	role := model.RoleITAdmin
	if shop == model.ShopSSC {
		role = model.RoleSSCAdmin
	}
	var admins []model.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND account_status = ?", role, model.AccountApproved).
		Find(&admins).Error
	return admins, err
}
