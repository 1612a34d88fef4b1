package service

import (
	"context"
	"time"

	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
)

// ListPricing returns one shop's price table.
func (s *Service) ListPricing(ctx context.Context, shop model.Shop) ([]model.Pricing, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	return s.store.ListPricing(ctx, shop)
}

// SetPrice creates or replaces the per-copy price for one (shop, paper size,
// color type) key and notifies the shop's admins via pricing_updated.
func (s *Service) SetPrice(ctx context.Context, shop model.Shop, paperSize string, color model.ColorType, priceCents int64) (*model.Pricing, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	if paperSize == "" {
		return nil, validationf("paper size is required")
	}
	if color != model.ColorBlackAndWhite && color != model.ColorColored {
		return nil, validationf("unknown color type %q", color)
	}
	if priceCents < 0 {
		return nil, validationf("price cannot be negative")
	}

	p := &model.Pricing{
		Shop:       shop,
		PaperSize:  paperSize,
		ColorType:  color,
		PriceCents: priceCents,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.store.UpsertPricing(ctx, p); err != nil {
		return nil, err
	}

	s.publish(shop.AdminRoom(), realtime.EventPricingUpdated, p)
	return p, nil
}
