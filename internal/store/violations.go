package store

import (
	"context"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
)

// CreateViolation persists an administrative warning against a user.
func (s *gormStore) CreateViolation(ctx context.Context, v *model.Violation) error {
	return s.db.WithContext(ctx).Omit("User").Create(v).Error
}

// SettleViolation marks a violation resolved and returns the updated record.
func (s *gormStore) SettleViolation(ctx context.Context, id int64) (*model.Violation, error) {
	res := s.db.WithContext(ctx).Model(&model.Violation{}).
		Where("id = ?", id).
		Update("resolved", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var v model.Violation
	if err := s.db.WithContext(ctx).Preload("User").First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ListViolations returns a shop's violations, optionally filtered by the
// resolved flag, newest first.
func (s *gormStore) ListViolations(ctx context.Context, shop model.Shop, resolved *bool) ([]model.Violation, error) {
	q := s.db.WithContext(ctx).Preload("User").Where("shop = ?", shop)
	if resolved != nil {
		q = q.Where("resolved = ?", *resolved)
	}
	var violations []model.Violation
	err := q.Order("created_at DESC, id DESC").Find(&violations).Error
	return violations, err
}
