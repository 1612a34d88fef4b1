package store

import (
	"context"

	"gorm.io/gorm/clause"

	"printshop-backend/internal/model"
)

// ListPricing returns all price entries of one shop.
func (s *gormStore) ListPricing(ctx context.Context, shop model.Shop) ([]model.Pricing, error) {
	var pricing []model.Pricing
	err := s.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("paper_size ASC, color_type ASC").
		Find(&pricing).Error
	return pricing, err
}

// UpsertPricing creates or replaces the price for one (shop, size, color) key.
func (s *gormStore) UpsertPricing(ctx context.Context, p *model.Pricing) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop"}, {Name: "paper_size"}, {Name: "color_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_cents", "updated_at"}),
	}).Create(p).Error
}

// GetPrice looks up the per-copy price for one (shop, size, color) key.
func (s *gormStore) GetPrice(ctx context.Context, shop model.Shop, paperSize string, color model.ColorType) (*model.Pricing, error) {
	var p model.Pricing
	err := s.db.WithContext(ctx).
		Where("shop = ? AND paper_size = ? AND color_type = ?", shop, paperSize, color).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
