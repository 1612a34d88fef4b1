package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
)

// SendViolation records a warning against a user, typically for failing to
// claim a finished order within the expected window.
func (s *Service) SendViolation(ctx context.Context, shop model.Shop, userID int64, reason string) (*model.Violation, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	if reason == "" {
		return nil, validationf("a reason is required")
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d does not exist", userID)
		}
		return nil, err
	}

	v := &model.Violation{
		UserID:    userID,
		Shop:      shop,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateViolation(ctx, v); err != nil {
		return nil, err
	}

	s.publish(shop.AdminRoom(), realtime.EventViolationCreated, v)
	s.notifier.Notify([]int64{userID}, "Violation warning",
		fmt.Sprintf("The %s shop issued a warning: %s", shop, reason))
	return v, nil
}

// SettleViolation marks a violation resolved.
func (s *Service) SettleViolation(ctx context.Context, id int64) (*model.Violation, error) {
	v, err := s.store.SettleViolation(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("violation %d does not exist", id)
		}
		return nil, err
	}

	s.publish(v.Shop.AdminRoom(), realtime.EventViolationSettled, v)
	s.notifier.Notify([]int64{v.UserID}, "Violation settled",
		fmt.Sprintf("Your warning at the %s shop has been settled.", v.Shop))
	return v, nil
}

// ListViolations returns a shop's violations, optionally filtered by the
// resolved flag.
func (s *Service) ListViolations(ctx context.Context, shop model.Shop, resolved *bool) ([]model.Violation, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	return s.store.ListViolations(ctx, shop, resolved)
}
